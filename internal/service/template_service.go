// internal/service/template_service.go
package service

import (
	"strings"
)

// RenderMessage substitutes the first literal {{name}} token. No escaping,
// no other placeholders, later occurrences left alone.
func RenderMessage(template, name string) string {
	return strings.Replace(template, "{{name}}", name, 1)
}
