package balance

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"fxbalance/internal/adapters"
	"fxbalance/internal/domain"
	"fxbalance/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Engine owns the authoritative balance map and the last applied rate map.
// Both maps are guarded by a single mutex so the negative-balance check and
// the write stay atomic together; callers only ever receive copies.
type Engine struct {
	fetcher    adapters.RateFetcher
	currencies []string // config order, upper-case, base included
	supported  map[string]struct{}
	base       string
	log        logrus.FieldLogger
	metrics    *metrics.BalanceMetrics

	mu       sync.RWMutex
	balances map[string]float64
	rates    map[string]float64
	loaded   bool
}

func NewEngine(fetcher adapters.RateFetcher, currencies []string, base string, initial map[string]float64, log logrus.FieldLogger, m *metrics.BalanceMetrics) *Engine {
	codes := make([]string, 0, len(currencies))
	supported := make(map[string]struct{}, len(currencies))
	balances := make(map[string]float64, len(currencies))

	for _, code := range currencies {
		upper := strings.ToUpper(code)
		if _, ok := supported[upper]; ok {
			continue
		}
		codes = append(codes, upper)
		supported[upper] = struct{}{}
		balances[upper] = initial[upper]
	}

	return &Engine{
		fetcher:    fetcher,
		currencies: codes,
		supported:  supported,
		base:       strings.ToUpper(base),
		log:        log,
		metrics:    m,
		balances:   balances,
		rates:      map[string]float64{},
	}
}

// Start performs one synchronous rate load. Running on meaningless data is
// worse than not starting: if not a single non-zero rate came back, the
// engine refuses to start.
func (e *Engine) Start(ctx context.Context) error {
	e.RefreshRates(ctx, false)

	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, v := range e.rates {
		if v != 0 {
			return nil
		}
	}
	return domain.ErrNoUsableRates
}

// RefreshRates fetches new rates and, iff the result is non-empty, replaces
// the cached rate map wholesale. A degraded all-zero map still counts as
// non-empty and is applied as-is; downstream consumers rely on zero-rate
// detection, so zeros are not filtered here.
func (e *Engine) RefreshRates(ctx context.Context, silent bool) {
	started := time.Now()
	rates := e.fetcher.Fetch(ctx)
	e.metrics.RefreshDuration.Observe(time.Since(started).Seconds())

	if len(rates) == 0 {
		e.metrics.RefreshTotal.WithLabelValues("empty").Inc()
		return
	}

	result := "applied"
	if allZero(rates) {
		result = "degraded"
	}

	e.mu.Lock()
	e.rates = rates
	e.loaded = true
	e.mu.Unlock()

	e.metrics.RefreshTotal.WithLabelValues(result).Inc()
	if !silent {
		e.log.Infof("Exchange rates updated: %s", formatRates(rates))
	}
}

// SetAmounts bulk-sets absolute balances. The whole batch is validated
// before any assignment: with randomized map iteration a fail-fast partial
// apply would be non-deterministic, so the stricter fully-atomic variant is
// used.
func (e *Engine) SetAmounts(amounts map[string]float64) error {
	e.log.Debugf("Attempting to set balances: %v", amounts)

	if len(amounts) == 0 {
		e.log.Warn("Received an empty set-balances request")
		e.countMutation("set", "rejected")
		return domain.Validationf("no amounts to set provided")
	}

	normalized := make(map[string]float64, len(amounts))
	var unsupported []string
	for _, code := range sortedKeys(amounts) {
		amount := amounts[code]
		upper := strings.ToUpper(code)

		if _, ok := e.supported[upper]; !ok {
			unsupported = append(unsupported, upper)
			continue
		}
		if amount < 0 {
			e.log.Warnf("Rejected negative balance %v for %s", amount, upper)
			e.countMutation("set", "rejected")
			return domain.Validationf("balance for %s cannot be negative", upper)
		}
		normalized[upper] = amount
	}

	if len(unsupported) > 0 {
		e.countMutation("set", "rejected")
		return domain.Validationf("unsupported currencies: %s", strings.Join(unsupported, ", "))
	}

	e.mu.Lock()
	for code, amount := range normalized {
		e.balances[code] = amount
	}
	e.mu.Unlock()

	e.countMutation("set", "ok")
	return nil
}

// ModifyAmounts applies signed deltas per currency. Entries that fail
// validation are collected and reported together while valid entries in the
// same batch stay applied (non-atomic across the batch).
func (e *Engine) ModifyAmounts(deltas map[string]float64) error {
	var unsupported, errs []string

	e.mu.Lock()
	for _, code := range sortedKeys(deltas) {
		delta := deltas[code]
		upper := strings.ToUpper(code)

		if _, ok := e.supported[upper]; !ok {
			unsupported = append(unsupported, upper)
			continue
		}

		next := e.balances[upper] + delta
		if next < 0 {
			errs = append(errs, fmt.Sprintf(
				"balance for %s cannot be negative: current balance %v, requested change %v",
				upper, e.balances[upper], delta))
			continue
		}
		e.balances[upper] = next
	}
	e.mu.Unlock()

	if len(unsupported) > 0 {
		errs = append(errs, "unsupported currencies: "+strings.Join(unsupported, ", "))
	}
	if len(errs) > 0 {
		e.countMutation("modify", "rejected")
		return domain.Validationf("%s", strings.Join(errs, "\n"))
	}

	e.countMutation("modify", "ok")
	return nil
}

// GetTotals returns the balance snapshot, the full pairwise cross-rate table
// and per-currency equivalent totals. The first call before any completed
// refresh triggers a lazy silent load.
func (e *Engine) GetTotals(ctx context.Context) (domain.AmountsReport, error) {
	e.mu.RLock()
	loaded := e.loaded
	e.mu.RUnlock()
	if !loaded {
		e.RefreshRates(ctx, true)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, code := range e.currencies {
		if _, ok := e.balances[code]; !ok {
			err := domain.Validationf("currency %s is not initialized", code)
			e.log.WithError(err).Error("Failed to assemble amounts report")
			return domain.AmountsReport{}, err
		}
	}

	report := domain.AmountsReport{
		Currencies: make(map[string]float64, len(e.currencies)),
		Rates:      make(map[string]float64),
	}
	for _, code := range e.currencies {
		report.Currencies[code] = e.balances[code]
	}
	for i, from := range e.currencies {
		for _, to := range e.currencies[i+1:] {
			report.Rates[pairKey(from, to)] = crossRate(e.rates, e.base, from, to)
		}
	}

	totals, err := e.computeTotals()
	if err != nil {
		e.log.WithError(err).Error("Failed to assemble amounts report")
		return domain.AmountsReport{}, err
	}
	report.Totals = totals
	return report, nil
}

// computeTotals expects e.mu to be held. A negative balance here means a bug
// in the mutation path; it is surfaced, not clamped.
func (e *Engine) computeTotals() (map[string]*float64, error) {
	for _, code := range e.currencies {
		if e.balances[code] < 0 {
			e.log.Errorf("Negative balance detected for %s: %v", code, e.balances[code])
			return nil, fmt.Errorf("%w for %s", domain.ErrNegativeBalance, code)
		}
	}

	totals := make(map[string]*float64, len(e.currencies))
	for _, target := range e.currencies {
		if target != e.base {
			if _, ok := e.rates[target]; !ok {
				e.log.Warnf("Cannot compute total for %s: rate unknown", target)
				totals[target] = nil
				continue
			}
		}

		total := 0.0
		for _, held := range e.currencies {
			total += e.balances[held] * conversionRate(e.rates, e.base, held, target)
		}
		rounded := round2(total)
		totals[target] = &rounded
	}
	return totals, nil
}

// GetBalance returns the current balance of a single supported currency.
func (e *Engine) GetBalance(code string) (float64, error) {
	upper := strings.ToUpper(code)
	if _, ok := e.supported[upper]; !ok {
		return 0, domain.Validationf("currency %s is not supported", upper)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.balances[upper], nil
}

// FormatAmounts renders the totals report as newline-delimited text:
// one "code: amount" line per currency, one "i-j: value" line per cross-rate
// and a final "sum: ..." line with totals formatted to 2 decimals.
func (e *Engine) FormatAmounts(ctx context.Context) (string, error) {
	report, err := e.GetTotals(ctx)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(report.Currencies)+len(report.Rates)+1)
	for _, code := range e.currencies {
		lines = append(lines, strings.ToLower(code)+": "+formatAmount(report.Currencies[code]))
	}
	for i, from := range e.currencies {
		for _, to := range e.currencies[i+1:] {
			value := report.Rates[pairKey(from, to)]
			lines = append(lines, strings.ToLower(from)+"-"+strings.ToLower(to)+": "+formatAmount(value))
		}
	}

	sums := make([]string, 0, len(e.currencies))
	for _, code := range e.currencies {
		total := report.Totals[code]
		if total == nil {
			sums = append(sums, "N/A "+strings.ToLower(code))
		} else {
			sums = append(sums, fmt.Sprintf("%.2f %s", *total, strings.ToLower(code)))
		}
	}
	lines = append(lines, "\nsum: "+strings.Join(sums, " / "))

	return strings.Join(lines, "\n"), nil
}

func (e *Engine) countMutation(op, result string) {
	e.metrics.MutationsTotal.WithLabelValues(op, result).Inc()
}

func allZero(rates map[string]float64) bool {
	for _, v := range rates {
		if v != 0 {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRates(rates map[string]float64) string {
	parts := make([]string, 0, len(rates))
	for _, code := range sortedKeys(rates) {
		value := "N/A"
		if rates[code] != 0 {
			value = formatAmount(rates[code])
		}
		parts = append(parts, strings.ToLower(code)+": "+value)
	}
	return strings.Join(parts, ", ")
}
