package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppConfig_Normalize_UppercasesAndDedupes(t *testing.T) {
	cfg := &AppConfig{
		Rates: Rates{
			BaseCurrency: "rub",
			Currencies:   []string{"rub", "usd", " eur ", "USD"},
		},
		InitialBalances: map[string]float64{"usd": 10, "RUB": 1000},
	}

	cfg.normalize()

	require.Equal(t, "RUB", cfg.Rates.BaseCurrency)
	require.Equal(t, []string{"RUB", "USD", "EUR"}, cfg.Rates.Currencies)
	require.Equal(t, map[string]float64{"USD": 10, "RUB": 1000}, cfg.InitialBalances)
}

func TestAppConfig_Normalize_EnsuresBaseCurrencyPresent(t *testing.T) {
	cfg := &AppConfig{
		Rates: Rates{
			BaseCurrency: "RUB",
			Currencies:   []string{"USD", "EUR"},
		},
	}

	cfg.normalize()

	require.Equal(t, []string{"RUB", "USD", "EUR"}, cfg.Rates.Currencies)
}
