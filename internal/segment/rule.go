// internal/segment/rule.go
package segment

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Field is a closed enum of customer attributes a rule may target.
type Field string

const (
	FieldTotalSpent    Field = "totalSpent"
	FieldVisitCount    Field = "visitCount"
	FieldLastVisit     Field = "lastVisit"
	FieldStatus        Field = "status"
	FieldLocation      Field = "location"
	FieldEmailVerified Field = "emailVerified"
)

// Operator is a closed enum of supported comparisons.
type Operator string

const (
	OpGT  Operator = "gt"
	OpLT  Operator = "lt"
	OpEQ  Operator = "eq"
	OpGTE Operator = "gte"
	OpLTE Operator = "lte"
)

// RuleInput is the wire shape of a rule before validation.
type RuleInput struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
	Logic    string `json:"logic,omitempty"`
}

// Rule is a validated field/operator/value predicate. The Logic tag is
// accepted on input but never consulted: rules always combine with AND.
type Rule struct {
	Field    Field    `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
	Logic    string   `json:"logic,omitempty"`
}

// Rules is stored on campaigns as a jsonb column.
type Rules []Rule

func (r Rules) Value() (driver.Value, error) {
	if r == nil {
		r = Rules{}
	}
	return json.Marshal(r)
}

func (r *Rules) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("unsupported type for segment rules: %T", src)
	}
}

// RuleError reports which part of which rule failed validation.
type RuleError struct {
	Index  int
	Part   string // "field", "operator" or "value"
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %d: invalid %s: %s", e.Index, e.Part, e.Reason)
}

var validFields = map[Field]bool{
	FieldTotalSpent:    true,
	FieldVisitCount:    true,
	FieldLastVisit:     true,
	FieldStatus:        true,
	FieldLocation:      true,
	FieldEmailVerified: true,
}

var validOperators = map[Operator]bool{
	OpGT:  true,
	OpLT:  true,
	OpEQ:  true,
	OpGTE: true,
	OpLTE: true,
}

// ParseRules validates rule inputs at construction time. Unknown fields and
// operators are rejected outright rather than silently defaulted.
func ParseRules(inputs []RuleInput) (Rules, error) {
	rules := make(Rules, 0, len(inputs))
	for i, in := range inputs {
		f := Field(in.Field)
		if !validFields[f] {
			return nil, &RuleError{Index: i, Part: "field", Reason: fmt.Sprintf("unknown field %q", in.Field)}
		}
		op := Operator(in.Operator)
		if !validOperators[op] {
			return nil, &RuleError{Index: i, Part: "operator", Reason: fmt.Sprintf("unknown operator %q", in.Operator)}
		}
		if in.Value == "" {
			return nil, &RuleError{Index: i, Part: "value", Reason: "value is required"}
		}
		rules = append(rules, Rule{Field: f, Operator: op, Value: in.Value, Logic: in.Logic})
	}
	return rules, nil
}
