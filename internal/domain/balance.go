package domain

import "time"

// AmountsReport is a consistent snapshot of the engine state: raw balances
// (unrounded), the pairwise cross-rate table keyed "<i>_<j>" and per-currency
// equivalent totals rounded to 2 decimals. A total is nil when no rate
// information exists for that currency.
type AmountsReport struct {
	Currencies map[string]float64  `json:"currencies"`
	Rates      map[string]float64  `json:"rates"`
	Totals     map[string]*float64 `json:"totals"`
}

// FetchFailure records the most recent rate source failure. While a failure
// is within the cooldown window no new fetch attempt is made.
type FetchFailure struct {
	At      time.Time
	Message string
}
