package filter

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/localloop/localloop-backend/internal/models"
)

var now = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

func tip(category, description string, lastConfirmed time.Time) models.Tip {
	return models.Tip{
		ID:              uuid.New(),
		Category:        category,
		Description:     description,
		LastConfirmedAt: lastConfirmed,
	}
}

func sample() []models.Tip {
	return []models.Tip{
		tip("Hidden Gems", "Rooftop garden", now.Add(-24*time.Hour)),
		tip("Food & Drink", "Half-price dumplings after 9pm", now.Add(-48*time.Hour)),
		tip("Nature", "Heron nest by the canal", now.Add(-10*24*time.Hour)),
		tip("Shortcuts", "Alley cuts the hill climb", now.Add(-30*time.Minute)),
	}
}

func ids(tips []models.Tip) []uuid.UUID {
	out := make([]uuid.UUID, len(tips))
	for i, t := range tips {
		out[i] = t.ID
	}
	return out
}

// The default filter is the identity: same tips, same order.
func TestApplyDefaultPassthrough(t *testing.T) {
	tips := sample()
	got := Apply(tips, All(), now)

	if len(got) != len(tips) {
		t.Fatalf("got %d tips, want %d", len(got), len(tips))
	}
	want := ids(tips)
	for i, id := range ids(got) {
		if id != want[i] {
			t.Errorf("tip %d reordered", i)
		}
	}
}

func TestApplyQuery(t *testing.T) {
	tips := sample()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"description substring", "rooftop", 1},
		{"case insensitive", "ROOFTOP", 1},
		{"category substring", "food", 1},
		{"no match", "submarine", 0},
		{"whitespace only is no filter", "   ", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := All()
			f.Query = tt.query
			if got := Apply(tips, f, now); len(got) != tt.want {
				t.Errorf("query %q matched %d tips, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}

func TestApplyCategories(t *testing.T) {
	tips := sample()

	f := All()
	f.Categories = map[string]bool{"Nature": true, "Shortcuts": true}
	got := Apply(tips, f, now)
	if len(got) != 2 {
		t.Fatalf("got %d tips, want 2", len(got))
	}
	for _, tp := range got {
		if !f.Categories[tp.Category] {
			t.Errorf("unexpected category %q", tp.Category)
		}
	}

	// Empty selection yields an empty result, not an error.
	f.Categories = map[string]bool{}
	if got := Apply(tips, f, now); len(got) != 0 {
		t.Errorf("empty category set matched %d tips, want 0", len(got))
	}
}

func TestApplyExcludeExpired(t *testing.T) {
	tips := sample()

	f := All()
	f.IncludeExpired = false
	got := Apply(tips, f, now)
	if len(got) != 3 {
		t.Fatalf("got %d tips, want 3", len(got))
	}
	for _, tp := range got {
		if tp.Category == "Nature" {
			t.Error("expired tip survived the filter")
		}
	}
}

func TestApplyCombined(t *testing.T) {
	tips := sample()

	f := Filter{
		Query:          "heron",
		Categories:     map[string]bool{"Nature": true},
		IncludeExpired: false,
	}
	if got := Apply(tips, f, now); len(got) != 0 {
		t.Errorf("expired tip matched despite IncludeExpired=false, got %d", len(got))
	}

	f.IncludeExpired = true
	if got := Apply(tips, f, now); len(got) != 1 {
		t.Errorf("got %d tips, want 1", len(got))
	}
}
