package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"fxbalance/internal/domain"

	"github.com/sirupsen/logrus"
)

// ModifyAmounts applies signed per-currency deltas from a {"usd": -5, ...}
// body. Validation failures for individual currencies come back batched in a
// single message.
func (h *Handler) ModifyAmounts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4096)

	var deltas map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&deltas); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ModifyAmounts(deltas); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "ModifyAmounts"}).Error("failed to modify amounts")
		writeError(w, http.StatusInternalServerError, "failed to modify amounts")
		return
	}

	writeSuccess(w)
}
