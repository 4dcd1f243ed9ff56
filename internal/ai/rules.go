// internal/ai/rules.go
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	appErrors "github.com/unclebandit/pulsecrm-backend/internal/errors"
	"github.com/unclebandit/pulsecrm-backend/internal/segment"
)

const rulesSystemPrompt = "You are an expert at converting natural language into structured customer segmentation rules. Respond only with valid JSON arrays."

const rulesPromptTemplate = `
Convert the following natural language description into a JSON array of segment rules:
%q

Each rule should have this exact structure:
{"field": "one of: totalSpent, visitCount, lastVisit, status, location, emailVerified",
 "operator": "one of: gt, lt, eq, gte, lte",
 "value": "the value to compare against"}

Field mappings:
- "spent", "spending", "purchase amount" -> totalSpent
- "visits", "visit count", "times visited" -> visitCount
- "last visit", "last seen", "inactive", "days ago" -> lastVisit
- "status", "tier", "vip", "premium" -> status
- "location", "city", "region" -> location
- "email verified", "verified email" -> emailVerified

Operator mappings:
- "more than", "greater than", "above", "over" -> gt
- "less than", "under", "below" -> lt
- "equal to", "equals", "is" -> eq
- "at least", "minimum" -> gte
- "at most", "maximum" -> lte

For status queries, common values are: "active", "inactive", "vip".

Return only a JSON array of rules, no other text.
`

// looseRule tolerates numeric values in the generated JSON.
type looseRule struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
	Logic    string      `json:"logic,omitempty"`
}

// RulesFromText asks the text-generation service to convert a natural
// language audience description into segment rule inputs. Malformed or
// unparseable responses surface as a generation error.
func (c *Client) RulesFromText(ctx context.Context, text string) ([]segment.RuleInput, error) {
	content, err := c.complete(ctx, rulesSystemPrompt, fmt.Sprintf(rulesPromptTemplate, text), 0.1)
	if err != nil {
		return nil, appErrors.NewGenerationFailed("rule conversion", err)
	}

	raw, err := extractRules(content)
	if err != nil {
		return nil, appErrors.NewGenerationFailed("rule conversion", err)
	}

	inputs := make([]segment.RuleInput, 0, len(raw))
	for _, r := range raw {
		if r.Field == "" || r.Operator == "" || r.Value == nil {
			continue
		}
		inputs = append(inputs, segment.RuleInput{
			Field:    r.Field,
			Operator: r.Operator,
			Value:    fmt.Sprint(r.Value),
			Logic:    r.Logic,
		})
	}
	return inputs, nil
}

// extractRules accepts a bare array, an object wrapping a "rules" array, or
// an array embedded in surrounding prose.
func extractRules(content string) ([]looseRule, error) {
	var rules []looseRule
	if err := json.Unmarshal([]byte(content), &rules); err == nil {
		return rules, nil
	}

	var wrapper struct {
		Rules []looseRule `json:"rules"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err == nil && wrapper.Rules != nil {
		return wrapper.Rules, nil
	}

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(content[start:end+1]), &rules); err == nil {
			return rules, nil
		}
	}

	return nil, fmt.Errorf("response is not a rule array")
}
