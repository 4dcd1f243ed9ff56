// internal/controller/respond.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	appErrors "github.com/unclebandit/pulsecrm-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps typed errors onto the API surface: validation errors carry
// field-level detail, everything unexpected collapses to a generic message.
func writeError(w http.ResponseWriter, err error, genericMessage string) {
	var validation *appErrors.ErrValidation
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Invalid request data",
			"errors":  validation.Fields,
		})
		return
	}

	var campaignNotFound *appErrors.ErrCampaignNotFound
	var customerNotFound *appErrors.ErrCustomerNotFound
	if errors.As(err, &campaignNotFound) || errors.As(err, &customerNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": err.Error()})
		return
	}

	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": genericMessage})
}
