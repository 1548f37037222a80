// ABOUTME: Parser for the filterByFormula subset the emulator understands
// ABOUTME: Only single-field equality against a quoted string is supported
package emulator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/harperreed/reicrm/db"
)

var equalsFormula = regexp.MustCompile(`^\{([^{}]+)\}\s*=\s*"((?:[^"\\]|\\.)*)"$`)

// ParseFormula turns {Field}="value" into a record filter. An empty formula
// matches every record.
func ParseFormula(formula string) (db.Filter, error) {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return db.Filter{}, nil
	}

	m := equalsFormula.FindStringSubmatch(formula)
	if m == nil {
		return db.Filter{}, fmt.Errorf("unsupported formula: %s", formula)
	}
	return db.Filter{Field: m[1], Value: unescape(m[2])}, nil
}

func unescape(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
