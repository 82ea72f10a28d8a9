package opensearch

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/colhub/hubsync/pkg/constants"
)

// Query is one catalog search: a footprint, a date range and free-form filters.
type Query struct {
	// Footprint is a WKT geometry; empty means no spatial filter.
	Footprint string
	// Start and End bound beginPosition. Only the date part is used.
	Start time.Time
	End   time.Time
	// Kwargs are extra key:value terms, e.g. producttype or platformname.
	Kwargs map[string]any
}

// String renders the OpenSearch q parameter.
func (q Query) String() string {
	var terms []string
	if !q.Start.IsZero() || !q.End.IsZero() {
		terms = append(terms, fmt.Sprintf("beginPosition:[%s TO %s]", formatBound(q.Start), formatBound(q.End)))
	}
	if q.Footprint != "" {
		terms = append(terms, fmt.Sprintf("footprint:\"Intersects(%s)\"", q.Footprint))
	}

	keys := make([]string, 0, len(q.Kwargs))
	for k := range q.Kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		terms = append(terms, k+":"+formatValue(q.Kwargs[k]))
	}
	return strings.Join(terms, " ")
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(constants.QueryTimeLayout)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatValue(item)
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	case []string:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatValue(item)
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	case string:
		if strings.ContainsAny(val, " \t") && !isGrouped(val) {
			return `"` + val + `"`
		}
		return val
	case nil:
		return "*"
	default:
		return fmt.Sprint(val)
	}
}

// isGrouped reports whether s is already a quoted, ranged or grouped expression.
func isGrouped(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '"' && last == '"') ||
		(first == '[' && last == ']') ||
		(first == '(' && last == ')')
}
