package board

import (
	"strings"

	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
)

// Matches reports whether an opinion is visible under the given
// free-text query and filters. The query is a case-insensitive
// substring match against the title and the reference number; assignee
// and department are exact matches applied only when set. Pure, cheap
// enough to call on every keystroke.
func Matches(op domain.Opinion, query string, filters domain.Filters) bool {
	if filters.Assignee != "" && op.Assignee != filters.Assignee {
		return false
	}
	if filters.Department != "" && op.Department != filters.Department {
		return false
	}

	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(op.Title), q) ||
		strings.Contains(strings.ToLower(op.ReferenceNumber), q)
}

// Apply narrows an opinion list to those matching the query and
// filters, preserving order. The input slice is never mutated.
func Apply(opinions []domain.Opinion, query string, filters domain.Filters) []domain.Opinion {
	out := make([]domain.Opinion, 0, len(opinions))
	for _, op := range opinions {
		if Matches(op, query, filters) {
			out = append(out, op)
		}
	}
	return out
}
