package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"fxbalance/internal/domain"

	"github.com/sirupsen/logrus"
)

// SetAmounts bulk-sets absolute balances from a {"usd": 10, ...} body.
func (h *Handler) SetAmounts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4096)

	var amounts map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&amounts); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SetAmounts(amounts); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "SetAmounts"}).Error("failed to set amounts")
		writeError(w, http.StatusInternalServerError, "failed to set amounts")
		return
	}

	writeSuccess(w)
}
