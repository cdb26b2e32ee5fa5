package balance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafeInv(t *testing.T) {
	require.Equal(t, 0.0, safeInv(0))
	require.InDelta(t, 0.5, safeInv(2), 1e-9)
	require.InDelta(t, -0.25, safeInv(-4), 1e-9)
}

func TestRound2(t *testing.T) {
	require.Equal(t, 1.11, round2(1.1111))
	require.Equal(t, 1900.0, round2(1900.004))
	require.Equal(t, 0.0, round2(0))
	require.Equal(t, 2.35, round2(2.345000001))
}

func TestCrossRate_BasePivot(t *testing.T) {
	rates := map[string]float64{"RUB": 1.0, "USD": 90.0, "EUR": 100.0}

	require.InDelta(t, 90.0, crossRate(rates, "RUB", "RUB", "USD"), 1e-9)
	require.InDelta(t, 1.0/90.0, crossRate(rates, "RUB", "USD", "RUB"), 1e-9)
	require.InDelta(t, 100.0/90.0, crossRate(rates, "RUB", "USD", "EUR"), 1e-9)
}

func TestCrossRate_ConsistentInverse(t *testing.T) {
	rates := map[string]float64{"RUB": 1.0, "USD": 90.0, "EUR": 100.0, "JPY": 0.6}
	codes := []string{"RUB", "USD", "EUR", "JPY"}

	for _, i := range codes {
		for _, j := range codes {
			if i == j {
				continue
			}
			forward := crossRate(rates, "RUB", i, j)
			backward := crossRate(rates, "RUB", j, i)
			require.InDelta(t, 1.0, forward*backward, 1e-9, "rate(%s,%s) * rate(%s,%s)", i, j, j, i)
		}
	}
}

func TestCrossRate_ZeroRateNeverInfOrNaN(t *testing.T) {
	rates := map[string]float64{"RUB": 1.0, "USD": 0.0, "EUR": 100.0}

	pairs := [][2]string{{"RUB", "USD"}, {"USD", "RUB"}, {"USD", "EUR"}, {"EUR", "USD"}}
	for _, p := range pairs {
		v := crossRate(rates, "RUB", p[0], p[1])
		require.False(t, math.IsInf(v, 0), "%s->%s", p[0], p[1])
		require.False(t, math.IsNaN(v), "%s->%s", p[0], p[1])
	}

	require.Equal(t, 0.0, crossRate(rates, "RUB", "USD", "RUB"))
	require.Equal(t, 0.0, crossRate(rates, "RUB", "USD", "EUR"))
}

func TestConversionRate(t *testing.T) {
	rates := map[string]float64{"RUB": 1.0, "USD": 90.0, "EUR": 100.0}

	require.Equal(t, 1.0, conversionRate(rates, "RUB", "USD", "USD"))
	require.InDelta(t, 90.0, conversionRate(rates, "RUB", "USD", "RUB"), 1e-9)
	require.InDelta(t, 1.0/90.0, conversionRate(rates, "RUB", "RUB", "USD"), 1e-9)
	require.InDelta(t, 100.0/90.0, conversionRate(rates, "RUB", "EUR", "USD"), 1e-9)
}

func TestConversionRate_MissingOrZeroRateContributesNothing(t *testing.T) {
	rates := map[string]float64{"RUB": 1.0, "USD": 0.0}

	require.Equal(t, 0.0, conversionRate(rates, "RUB", "USD", "RUB"))
	require.Equal(t, 0.0, conversionRate(rates, "RUB", "RUB", "USD"))
	require.Equal(t, 0.0, conversionRate(rates, "RUB", "GBP", "RUB"))
}

func TestPairKey(t *testing.T) {
	require.Equal(t, "rub_usd", pairKey("RUB", "USD"))
	require.Equal(t, "usd_eur", pairKey("USD", "EUR"))
}
