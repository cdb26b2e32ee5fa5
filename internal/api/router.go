package api

import (
	"fxbalance/internal/balance/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(balanceHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Handle("/metrics", promhttp.Handler())

	router.Get("/amount/get", balanceHandler.GetAmounts)
	router.Post("/amount/set", balanceHandler.SetAmounts)
	router.Post("/modify", balanceHandler.ModifyAmounts)
	router.Get("/{currency:[A-Za-z]{3}}/get", balanceHandler.GetCurrency)
	return router
}
