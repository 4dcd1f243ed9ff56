// internal/ai/messages.go
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	appErrors "github.com/unclebandit/pulsecrm-backend/internal/errors"
)

const messagesSystemPrompt = "You are an expert marketing copywriter who creates high-converting campaign messages. Always respond with valid JSON."

const messagesPromptTemplate = `
Generate 3 different campaign message suggestions for the following:

Objective: %s
Audience: %s

Create messages that are:
1. Personalized (use {{name}} placeholder)
2. Compelling and action-oriented
3. Appropriate for the target audience
4. Varied in approach (urgency, value, appreciation, etc.)

Return a JSON object with this structure:
{"messages": [{"type": "Message category (e.g., Win-back Campaign, Urgency-based, Value-focused)",
               "message": "The actual message text with {{name}} placeholder",
               "engagement": "Estimated engagement rate as percentage (e.g., 8.2%%)"}]}

Make the messages professional, engaging, and suitable for SMS/email marketing.
`

type MessageSuggestion struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Engagement string `json:"engagement"`
}

// MessagesFromBrief asks the text-generation service for campaign copy
// suggestions with engagement estimates. Suggestions missing any field are
// dropped; an unusable response surfaces as a generation error.
func (c *Client) MessagesFromBrief(ctx context.Context, objective, audience string) ([]MessageSuggestion, error) {
	content, err := c.complete(ctx, messagesSystemPrompt, fmt.Sprintf(messagesPromptTemplate, objective, audience), 0.7)
	if err != nil {
		return nil, appErrors.NewGenerationFailed("message generation", err)
	}

	var parsed struct {
		Messages []MessageSuggestion `json:"messages"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, appErrors.NewGenerationFailed("message generation", fmt.Errorf("response is not a message object: %w", err))
	}

	suggestions := make([]MessageSuggestion, 0, len(parsed.Messages))
	for _, m := range parsed.Messages {
		if m.Type == "" || m.Message == "" || m.Engagement == "" {
			continue
		}
		suggestions = append(suggestions, m)
	}
	return suggestions, nil
}
