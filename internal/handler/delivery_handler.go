// internal/handler/delivery_handler.go
package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/unclebandit/pulsecrm-backend/internal/repository"
)

// CompletionNotifier re-checks a campaign's completion condition after one of
// its logs resolves.
type CompletionNotifier interface {
	NoteResolved(campaignID int)
}

// DeliveryHandler receives asynchronous delivery receipts from the vendor.
// Receipt processing has no idempotency guard: duplicates and out-of-order
// receipts overwrite the log row again, last write wins.
type DeliveryHandler struct {
	LogRepo  repository.CommunicationLogRepositoryInterface
	Notifier CompletionNotifier
}

func (h *DeliveryHandler) ReceiveReceipt(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MessageID     int    `json:"message_id"`
		Status        string `json:"status"`
		FailureReason string `json:"failure_reason,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MessageID == 0 {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	logRow, err := h.LogRepo.GetByID(body.MessageID)
	if err != nil {
		log.Println("⚠️ receipt: log lookup failed:", err)
		http.Error(w, "Failed to process delivery receipt", http.StatusInternalServerError)
		return
	}
	if logRow == nil {
		http.Error(w, "unknown message id", http.StatusNotFound)
		return
	}

	if err := h.LogRepo.UpdateStatus(body.MessageID, body.Status, body.FailureReason); err != nil {
		log.Println("⚠️ receipt: status update failed:", err)
		http.Error(w, "Failed to process delivery receipt", http.StatusInternalServerError)
		return
	}

	if h.Notifier != nil {
		h.Notifier.NoteResolved(logRow.CampaignID)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
