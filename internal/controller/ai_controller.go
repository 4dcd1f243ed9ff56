// internal/controller/ai_controller.go
package controller

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/unclebandit/pulsecrm-backend/internal/ai"
	"github.com/unclebandit/pulsecrm-backend/internal/service"
)

type AIController struct {
	AI              *ai.Client
	CampaignService *service.CampaignService
}

// ConvertRules turns a natural language audience description into segment
// rules and reports the resulting live audience size.
func (c *AIController) ConvertRules(w http.ResponseWriter, r *http.Request) {
	var body struct {
		NaturalLanguage string `json:"natural_language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NaturalLanguage == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Natural language input is required"})
		return
	}

	rules, err := c.AI.RulesFromText(r.Context(), body.NaturalLanguage)
	if err != nil {
		log.Println("⚠️ rule conversion failed:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to convert natural language to rules"})
		return
	}

	size, err := c.CampaignService.AudienceSize(rules)
	if err != nil {
		writeError(w, err, "Failed to convert natural language to rules")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rules":         rules,
		"audience_size": size,
	})
}

// GenerateMessage produces campaign copy suggestions for an objective and
// audience description.
func (c *AIController) GenerateMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Objective           string `json:"objective"`
		AudienceDescription string `json:"audience_description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	messages, err := c.AI.MessagesFromBrief(r.Context(), body.Objective, body.AudienceDescription)
	if err != nil {
		log.Println("⚠️ message generation failed:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to generate campaign messages"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}
