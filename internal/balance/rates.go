package balance

import (
	"math"
	"strings"
)

// safeInv returns 1/x, or 0 when x is zero, so that degraded or missing
// rates never produce Inf/NaN in cross-rates and totals.
func safeInv(x float64) float64 {
	if x == 0 {
		return 0
	}
	return 1 / x
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func rateOr(rates map[string]float64, code string, def float64) float64 {
	if v, ok := rates[code]; ok {
		return v
	}
	return def
}

// crossRate derives the from→to exchange rate using the base currency as
// pivot. Codes absent from the rate map count as 1.0 here; the totals path
// uses conversionRate, where they count as zero.
func crossRate(rates map[string]float64, base, from, to string) float64 {
	switch {
	case from == base:
		return rateOr(rates, to, 1.0)
	case to == base:
		return safeInv(rateOr(rates, from, 1.0))
	default:
		fromRate := rateOr(rates, from, 1.0)
		if fromRate == 0 {
			return 0
		}
		return rateOr(rates, to, 1.0) / fromRate
	}
}

// conversionRate converts one unit of held currency into target units.
func conversionRate(rates map[string]float64, base, held, target string) float64 {
	switch {
	case held == target:
		return 1
	case held == base:
		return safeInv(rateOr(rates, target, 0))
	case target == base:
		return rateOr(rates, held, 0)
	default:
		return rateOr(rates, held, 0) * safeInv(rateOr(rates, target, 0))
	}
}

func pairKey(from, to string) string {
	return strings.ToLower(from) + "_" + strings.ToLower(to)
}
