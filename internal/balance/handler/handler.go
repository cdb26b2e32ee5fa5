package handler

import (
	"encoding/json"
	"net/http"

	"fxbalance/internal/adapters"
)

type Handler struct {
	service adapters.BalanceService
	debug   bool
}

func NewBalanceHandler(service adapters.BalanceService, debug bool) *Handler {
	return &Handler{service: service, debug: debug}
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}

func writeSuccess(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(statusResponse{Status: "success"})
}
