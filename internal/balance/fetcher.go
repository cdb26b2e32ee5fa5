package balance

import (
	"context"
	"sync"
	"time"

	"fxbalance/internal/adapters"
	"fxbalance/internal/domain"

	"github.com/sirupsen/logrus"
)

// Fetcher loads exchange rates from the external source. It never fails:
// while a recorded failure is inside the cooldown window, or when the source
// call itself fails, it returns a degraded map with every configured currency
// set to zero. The caller decides what a degraded map means.
type Fetcher struct {
	client     adapters.RateClient
	failures   adapters.FailureCache
	currencies []string
	base       string
	log        logrus.FieldLogger

	// duplicate-message suppression outlives the cooldown entry
	mu      sync.Mutex
	lastMsg string
}

func NewFetcher(client adapters.RateClient, failures adapters.FailureCache, currencies []string, base string, log logrus.FieldLogger) *Fetcher {
	return &Fetcher{
		client:     client,
		failures:   failures,
		currencies: currencies,
		base:       base,
		log:        log,
	}
}

func (f *Fetcher) Fetch(ctx context.Context) map[string]float64 {
	if _, ok := f.failures.Last(); ok {
		f.log.Debug("Rate fetch skipped: still inside the failure cooldown window")
		return f.degraded()
	}

	raw, err := f.client.GetDailyRates(ctx)
	if err != nil {
		f.recordFailure(err)
		return f.degraded()
	}

	rates := make(map[string]float64, len(f.currencies))
	rates[f.base] = 1.0
	for _, code := range f.currencies {
		if code == f.base {
			continue
		}
		value, ok := raw[code]
		if !ok {
			f.log.Warnf("Rate for currency %s not found in the source response, using 0", code)
			value = 0
		}
		rates[code] = value
	}
	return rates
}

func (f *Fetcher) degraded() map[string]float64 {
	rates := make(map[string]float64, len(f.currencies))
	for _, code := range f.currencies {
		rates[code] = 0
	}
	return rates
}

// recordFailure starts a cooldown window and logs the error, unless the
// message matches the previously logged one (avoids log floods during
// sustained outages).
func (f *Fetcher) recordFailure(err error) {
	msg := err.Error()
	f.failures.Record(domain.FetchFailure{At: time.Now(), Message: msg})

	f.mu.Lock()
	repeated := msg == f.lastMsg
	f.lastMsg = msg
	f.mu.Unlock()

	if !repeated {
		f.log.WithError(err).Error("Failed to fetch exchange rates")
	}
}
