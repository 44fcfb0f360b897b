// Package filter derives the displayed subset of tips from the full set plus
// filter state. It is pure: no remote calls, no side effects, no errors.
package filter

import (
	"strings"
	"time"

	"github.com/localloop/localloop-backend/internal/lifecycle"
	"github.com/localloop/localloop-backend/internal/models"
)

// Filter is the client's filter panel state.
type Filter struct {
	// Query is matched case-insensitively against description and category.
	Query string
	// Categories is the selected category set; nil means all selected.
	Categories map[string]bool
	// IncludeExpired keeps expired tips in the result (the default).
	IncludeExpired bool
}

// All returns the default filter state: every category selected, expired
// tips shown, no search text.
func All() Filter {
	return Filter{Categories: nil, IncludeExpired: true}
}

// Apply returns the tips matching f, preserving input order. With the default
// filter the input is returned unchanged. An empty (non-nil) category set
// matches nothing.
func Apply(tips []models.Tip, f Filter, now time.Time) []models.Tip {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]models.Tip, 0, len(tips))
	for _, tip := range tips {
		if query != "" &&
			!strings.Contains(strings.ToLower(tip.Description), query) &&
			!strings.Contains(strings.ToLower(tip.Category), query) {
			continue
		}
		if f.Categories != nil && !f.Categories[tip.Category] {
			continue
		}
		if !f.IncludeExpired && lifecycle.IsExpired(tip.LastConfirmedAt, now) {
			continue
		}
		out = append(out, tip)
	}
	return out
}
