package cache

import (
	"fmt"
	"time"

	"fxbalance/internal/domain"

	"github.com/dgraph-io/ristretto"
)

const failureKey = "rate_fetch_failure"

// RistrettoFailureCache remembers the most recent rate fetch failure for the
// duration of the cooldown window. While the entry is alive the fetcher skips
// the network call and reports a degraded result instead. Admission is
// best-effort: a dropped entry only means the next fetch is attempted sooner.
type RistrettoFailureCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewFailureCache(cooldown time.Duration) (*RistrettoFailureCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 64,
		MaxCost:     8,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create failure cache failed: %w", err)
	}
	return &RistrettoFailureCache{cache: c, ttl: cooldown}, nil
}

func (c *RistrettoFailureCache) Last() (domain.FetchFailure, bool) {
	if v, ok := c.cache.Get(failureKey); ok {
		failure, ok := v.(domain.FetchFailure)
		return failure, ok
	}
	return domain.FetchFailure{}, false
}

func (c *RistrettoFailureCache) Record(failure domain.FetchFailure) {
	c.cache.SetWithTTL(failureKey, failure, 1, c.ttl)
	c.cache.Wait()
}

func (c *RistrettoFailureCache) Close() { c.cache.Close() }
