package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"fxbalance/internal/domain"

	"github.com/sirupsen/logrus"
)

// GetAmounts returns the balances, the cross-rate table and the totals.
// In debug mode the full report is returned as JSON; otherwise the
// newline-delimited text rendering is served.
func (h *Handler) GetAmounts(w http.ResponseWriter, r *http.Request) {
	if h.debug {
		report, err := h.service.GetTotals(r.Context())
		if err != nil {
			h.writeAmountsError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(report)
		return
	}

	text, err := h.service.FormatAmounts(r.Context())
	if err != nil {
		h.writeAmountsError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (h *Handler) writeAmountsError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, http.StatusBadRequest, vErr.Error())
		return
	}
	msg := "failed to get amounts"
	logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetAmounts"}).Error(msg)
	writeError(w, http.StatusInternalServerError, msg)
}
