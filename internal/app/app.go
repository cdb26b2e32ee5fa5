package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpserver "fxbalance/internal/platform/http"

	"fxbalance/internal/adapters/cache"
	"fxbalance/internal/adapters/httpclient"
	"fxbalance/internal/api"
	"fxbalance/internal/balance"
	"fxbalance/internal/balance/handler"
	"fxbalance/internal/config"
	"fxbalance/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts the HTTP server and the
// background refresh scheduler.
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if appCfg.Debug {
		cfgLevel = "debug"
	}
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (initial rate load)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// External rate source client
	rateClient := httpclient.NewCbrClient(baseHTTPClient, appCfg.Rates.SourceURL)
	defer rateClient.Close()

	// Failure cooldown cache
	cooldown := time.Duration(appCfg.Rates.CooldownSeconds) * time.Second
	failureCache, err := cache.NewFailureCache(cooldown)
	if err != nil {
		logrus.WithError(err).Error("Failed to create failure cache")
		return err
	}
	defer failureCache.Close()

	// Core services
	fetcher := balance.NewFetcher(rateClient, failureCache, appCfg.Rates.Currencies, appCfg.Rates.BaseCurrency, logrus.StandardLogger())
	balanceMetrics := metrics.New(prometheus.DefaultRegisterer)
	engine := balance.NewEngine(fetcher, appCfg.Rates.Currencies, appCfg.Rates.BaseCurrency, appCfg.InitialBalances, logrus.StandardLogger(), balanceMetrics)

	// Initial rate load; serving totals with no usable rates is pointless
	if startErr := engine.Start(startupCtx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start balance engine")
		return startErr
	}
	logrus.Info("✅ Initial exchange rates loaded")

	// Background refresh scheduler
	refreshInterval := time.Duration(appCfg.Rates.UpdatePeriodMinutes) * time.Minute
	scheduler := balance.NewScheduler(engine, refreshInterval, logrus.StandardLogger())
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Handlers and router
	balanceHandler := handler.NewBalanceHandler(engine, appCfg.Debug)
	router := api.NewRouter(balanceHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop the scheduler and in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
