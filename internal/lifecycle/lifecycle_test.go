package lifecycle

import (
	"testing"
	"time"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"just created", 0, false},
		{"three days", 72 * time.Hour, false},
		{"exactly seven days", 168 * time.Hour, false},
		{"one second past seven days", 168*time.Hour + time.Second, true},
		{"ten and a half days", 252 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExpired(base, base.Add(tt.elapsed)); got != tt.want {
				t.Errorf("IsExpired after %v = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestDaysUntilExpiration(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"just created", 0, 7},
		{"half a day", 12 * time.Hour, 7},
		{"three days", 72 * time.Hour, 4},
		{"six and a half days", 156 * time.Hour, 1},
		{"exactly seven days", 168 * time.Hour, 0},
		{"ten and a half days", 252 * time.Hour, 0},
		{"far past expiry", 1000 * time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntilExpiration(base, base.Add(tt.elapsed)); got != tt.want {
				t.Errorf("DaysUntilExpiration after %v = %d, want %d", tt.elapsed, got, tt.want)
			}
		})
	}
}

// Remaining days stay within [0, 7], and once a tip is expired the remaining
// count is always zero.
func TestDaysUntilExpirationBounds(t *testing.T) {
	for h := 0; h <= 24*14; h++ {
		now := base.Add(time.Duration(h) * time.Hour)
		days := DaysUntilExpiration(base, now)
		if days < 0 || days > 7 {
			t.Fatalf("DaysUntilExpiration at %dh = %d, out of [0,7]", h, days)
		}
		if IsExpired(base, now) && days != 0 {
			t.Fatalf("expired at %dh but %d days remaining", h, days)
		}
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    Status
	}{
		{"fresh", 24 * time.Hour, StatusFresh},
		{"four days left", 72 * time.Hour, StatusFresh},
		{"two days left", 5 * 24 * time.Hour, StatusExpiringSoon},
		{"last day", 6*24*time.Hour + 12*time.Hour, StatusExpiringSoon},
		{"expired", 8 * 24 * time.Hour, StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(base, base.Add(tt.elapsed)); got != tt.want {
				t.Errorf("StatusOf after %v = %q, want %q", tt.elapsed, got, tt.want)
			}
		})
	}
}

// Confirming at day 3 resets the clock; with no further confirmation the tip
// is expired by day 10.5 measured from the original creation.
func TestConfirmationResetsClock(t *testing.T) {
	confirmedAt := base.Add(3 * 24 * time.Hour)

	if IsExpired(confirmedAt, confirmedAt) {
		t.Fatal("tip expired immediately after confirmation")
	}

	check := base.Add(252 * time.Hour) // 10.5 days after creation
	if !IsExpired(confirmedAt, check) {
		t.Error("tip not expired 7.5 days after its last confirmation")
	}
	if days := DaysUntilExpiration(confirmedAt, check); days != 0 {
		t.Errorf("DaysUntilExpiration = %d, want 0", days)
	}
}
