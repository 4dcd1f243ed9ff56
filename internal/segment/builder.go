// internal/segment/builder.go
package segment

import (
	"fmt"
	"strings"
)

var columns = map[Field]string{
	FieldTotalSpent:    "total_spent",
	FieldVisitCount:    "visit_count",
	FieldLastVisit:     "last_visit",
	FieldStatus:        "status",
	FieldLocation:      "location",
	FieldEmailVerified: "email_verified",
}

var comparators = map[Operator]string{
	OpGT:  ">",
	OpLT:  "<",
	OpEQ:  "=",
	OpGTE: ">=",
	OpLTE: "<=",
}

// Conditions renders rules as an AND-joined WHERE fragment over the customers
// table, with positional placeholders starting at startPos. Value coercion is
// left to Postgres: parameters are passed as text and cast by column context.
// An empty rule set returns an empty fragment; callers must treat that as
// "match nobody", never as "match everyone".
func Conditions(rules Rules, startPos int) (string, []interface{}) {
	if len(rules) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(rules))
	args := make([]interface{}, 0, len(rules))
	for _, r := range rules {
		parts = append(parts, fmt.Sprintf("%s %s $%d", columns[r.Field], comparators[r.Operator], startPos))
		args = append(args, r.Value)
		startPos++
	}
	return strings.Join(parts, " AND "), args
}
