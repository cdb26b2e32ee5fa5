package adapters

import (
	"context"

	"fxbalance/internal/domain"
)

// RateClient calls the external rate source and returns a mapping from
// currency code to units of base currency per one unit of that currency.
type RateClient interface {
	GetDailyRates(ctx context.Context) (map[string]float64, error)
}

// RateFetcher wraps RateClient with cooldown and degraded-result semantics.
// It never fails: source unavailability is reported as an all-zero map.
type RateFetcher interface {
	Fetch(ctx context.Context) map[string]float64
}

// FailureCache keeps the most recent fetch failure for the duration of the
// cooldown window.
type FailureCache interface {
	Last() (domain.FetchFailure, bool)
	Record(failure domain.FetchFailure)
}

// BalanceService is the capability contract the HTTP handlers depend on.
type BalanceService interface {
	RefreshRates(ctx context.Context, silent bool)
	SetAmounts(amounts map[string]float64) error
	ModifyAmounts(deltas map[string]float64) error
	GetTotals(ctx context.Context) (domain.AmountsReport, error)
	GetBalance(code string) (float64, error)
	FormatAmounts(ctx context.Context) (string, error)
}
