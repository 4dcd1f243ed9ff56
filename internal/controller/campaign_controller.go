// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/unclebandit/pulsecrm-backend/internal/auth"
	"github.com/unclebandit/pulsecrm-backend/internal/segment"
	"github.com/unclebandit/pulsecrm-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
}

// CreateCampaign validates the payload, creates the campaign and triggers
// delivery.
func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		return
	}

	var body service.CreateCampaignInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(identity.UserID, body)
	if err != nil {
		writeError(w, err, "Failed to create campaign")
		return
	}

	writeJSON(w, http.StatusCreated, campaign)
}

// ListCampaigns returns the caller's campaigns with aggregated delivery
// counts.
func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		return
	}

	campaigns, err := c.CampaignService.ListCampaigns(identity.UserID)
	if err != nil {
		writeError(w, err, "Failed to fetch campaigns")
		return
	}

	writeJSON(w, http.StatusOK, campaigns)
}

// AudienceSize computes the live match count for a draft rule set.
func (c *CampaignController) AudienceSize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rules []segment.RuleInput `json:"rules"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Rules == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Rules must be an array"})
		return
	}

	size, err := c.CampaignService.AudienceSize(body.Rules)
	if err != nil {
		writeError(w, err, "Failed to calculate audience size")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"size": size})
}
