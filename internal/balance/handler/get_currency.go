package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"fxbalance/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type GetCurrencyResponse struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// GetCurrency returns the balance held in a single currency.
func (h *Handler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "currency")))

	value, err := h.service.GetBalance(code)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusNotFound, vErr.Error())
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetCurrency", "currency": code}).Error("failed to get currency balance")
		writeError(w, http.StatusInternalServerError, "failed to get currency balance")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(GetCurrencyResponse{Name: code, Value: value})
}
