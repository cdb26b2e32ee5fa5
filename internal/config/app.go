package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type Rates struct {
	SourceURL           string   `mapstructure:"source_url"`
	BaseCurrency        string   `mapstructure:"base_currency"`
	Currencies          []string `mapstructure:"currencies"`
	UpdatePeriodMinutes int      `mapstructure:"update_period_minutes"`
	CooldownSeconds     int      `mapstructure:"cooldown_seconds"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	HTTPServer      HTTPServer         `mapstructure:"http_server"`
	HTTPClient      HTTPClient         `mapstructure:"http_client"`
	Rates           Rates              `mapstructure:"rates"`
	Logging         Logging            `mapstructure:"logging"`
	Debug           bool               `mapstructure:"debug"`
	InitialBalances map[string]float64 `mapstructure:"initial_balances"`
}

func Init() (*AppConfig, error) {
	var cfg AppConfig

	_ = godotenv.Load()

	viper.SetConfigFile("config.yaml")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		// every setting has a default, a missing file is fine
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.SetDefault("http_server.port", "8000")
	viper.SetDefault("http_client.timeout_seconds", 10)
	viper.SetDefault("rates.source_url", "https://www.cbr-xml-daily.ru/daily_json.js")
	viper.SetDefault("rates.base_currency", "RUB")
	viper.SetDefault("rates.currencies", []string{"RUB", "USD", "EUR"})
	viper.SetDefault("rates.update_period_minutes", 10)
	viper.SetDefault("rates.cooldown_seconds", 60)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("debug", false)

	// http server env vars
	_ = viper.BindEnv("http_server.port", "HTTP_PORT")

	// http client env vars
	_ = viper.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// rate source env vars
	_ = viper.BindEnv("rates.source_url", "RATES_SOURCE_URL")
	_ = viper.BindEnv("rates.base_currency", "RATES_BASE_CURRENCY")
	_ = viper.BindEnv("rates.currencies", "RATES_CURRENCIES")
	_ = viper.BindEnv("rates.update_period_minutes", "RATES_UPDATE_PERIOD_MINUTES")
	_ = viper.BindEnv("rates.cooldown_seconds", "RATES_COOLDOWN_SECONDS")

	// logging env vars
	_ = viper.BindEnv("logging.level", "LOG_LEVEL")
	_ = viper.BindEnv("debug", "DEBUG")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.normalize()
	return &cfg, nil
}

// normalize upper-cases currency codes and guarantees the base currency is
// part of the supported list.
func (cfg *AppConfig) normalize() {
	cfg.Rates.BaseCurrency = strings.ToUpper(cfg.Rates.BaseCurrency)

	codes := make([]string, 0, len(cfg.Rates.Currencies))
	seen := make(map[string]struct{}, len(cfg.Rates.Currencies))
	for _, code := range cfg.Rates.Currencies {
		upper := strings.ToUpper(strings.TrimSpace(code))
		if upper == "" {
			continue
		}
		if _, ok := seen[upper]; ok {
			continue
		}
		seen[upper] = struct{}{}
		codes = append(codes, upper)
	}
	if _, ok := seen[cfg.Rates.BaseCurrency]; !ok {
		codes = append([]string{cfg.Rates.BaseCurrency}, codes...)
	}
	cfg.Rates.Currencies = codes

	balances := make(map[string]float64, len(cfg.InitialBalances))
	for code, amount := range cfg.InitialBalances {
		balances[strings.ToUpper(code)] = amount
	}
	cfg.InitialBalances = balances
}
