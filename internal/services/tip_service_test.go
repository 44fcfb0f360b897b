package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/localloop/localloop-backend/internal/events"
	"github.com/localloop/localloop-backend/internal/identity"
	"github.com/localloop/localloop-backend/internal/lifecycle"
	"github.com/localloop/localloop-backend/internal/models"
	"github.com/localloop/localloop-backend/internal/realtime"
	"gorm.io/gorm"
)

func newTestTipService(db *gorm.DB) *TipService {
	return NewTipService(db, NewModerationService(db), realtime.NewHub(nil), events.NewPublisher(""), 5*time.Second, 5*time.Second)
}

func createTestTip(t *testing.T, db *gorm.DB, lastConfirmedAt time.Time) models.Tip {
	t.Helper()

	tip := models.Tip{
		ID:              uuid.New(),
		Lat:             40.71,
		Lng:             -74.0,
		Category:        "Other",
		Description:     "water fountain behind the kiosk",
		LastConfirmedAt: lastConfirmedAt,
	}
	if err := db.Create(&tip).Error; err != nil {
		t.Fatalf("failed to create tip: %v", err)
	}
	t.Cleanup(func() {
		db.Where("tip_id = ?", tip.ID).Delete(&models.TipConfirmation{})
		db.Delete(&models.Tip{}, "id = ?", tip.ID)
	})
	return tip
}

func TestToggleConfirmationRoundTrip(t *testing.T) {
	db := testDB(t)
	svc := newTestTipService(db)
	ctx := context.Background()

	// Ten days stale, so the first confirmation also un-expires the tip.
	tip := createTestTip(t, db, time.Now().UTC().Add(-10*24*time.Hour))
	alice := identity.Authenticated(uuid.New(), "alice@example.com", "fp-alice")

	resp, err := svc.ToggleConfirmation(ctx, alice, tip.ID)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if resp.Action != "confirmed" || resp.Confirmations != 1 {
		t.Fatalf("got (%s, %d), want (confirmed, 1)", resp.Action, resp.Confirmations)
	}

	var reloaded models.Tip
	if err := db.First(&reloaded, "id = ?", tip.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if lifecycle.IsExpired(reloaded.LastConfirmedAt, time.Now().UTC()) {
		t.Fatal("confirming must reset the expiration clock")
	}

	mine, err := svc.UserConfirmations(ctx, alice, []uuid.UUID{tip.ID})
	if err != nil {
		t.Fatalf("confirmation lookup failed: %v", err)
	}
	if !mine[tip.ID] {
		t.Fatal("membership should record the confirmation")
	}

	resp, err = svc.ToggleConfirmation(ctx, alice, tip.ID)
	if err != nil {
		t.Fatalf("unconfirm failed: %v", err)
	}
	if resp.Action != "unconfirmed" || resp.Confirmations != 0 {
		t.Fatalf("got (%s, %d), want (unconfirmed, 0)", resp.Action, resp.Confirmations)
	}

	mine, err = svc.UserConfirmations(ctx, alice, []uuid.UUID{tip.ID})
	if err != nil {
		t.Fatalf("confirmation lookup failed: %v", err)
	}
	if mine[tip.ID] {
		t.Fatal("toggling twice must leave no membership behind")
	}
}

func TestToggleConfirmationTwoIdentities(t *testing.T) {
	db := testDB(t)
	svc := newTestTipService(db)
	ctx := context.Background()

	tip := createTestTip(t, db, time.Now().UTC())
	alice := identity.Authenticated(uuid.New(), "alice@example.com", "fp-alice")
	bob := identity.Anonymous("fp-bob")

	if resp, err := svc.ToggleConfirmation(ctx, alice, tip.ID); err != nil || resp.Confirmations != 1 {
		t.Fatalf("alice confirm: resp=%+v err=%v", resp, err)
	}
	if resp, err := svc.ToggleConfirmation(ctx, bob, tip.ID); err != nil || resp.Confirmations != 2 {
		t.Fatalf("bob confirm: resp=%+v err=%v", resp, err)
	}

	resp, err := svc.ToggleConfirmation(ctx, alice, tip.ID)
	if err != nil {
		t.Fatalf("alice unconfirm failed: %v", err)
	}
	if resp.Action != "unconfirmed" || resp.Confirmations != 1 {
		t.Fatalf("got (%s, %d), want (unconfirmed, 1)", resp.Action, resp.Confirmations)
	}

	bobs, err := svc.UserConfirmations(ctx, bob, []uuid.UUID{tip.ID})
	if err != nil {
		t.Fatalf("confirmation lookup failed: %v", err)
	}
	if !bobs[tip.ID] {
		t.Fatal("alice's toggle must not touch bob's confirmation")
	}
}

func TestToggleConfirmationCounterFloor(t *testing.T) {
	db := testDB(t)
	svc := newTestTipService(db)
	ctx := context.Background()

	// A confirmation row with a counter already at zero: the delete path must
	// not drive the count negative.
	tip := createTestTip(t, db, time.Now().UTC())
	carol := identity.Anonymous("fp-carol")
	row := models.TipConfirmation{
		ID:          uuid.New(),
		TipID:       tip.ID,
		Fingerprint: carol.Fingerprint(),
		SubjectKey:  carol.Key(),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed confirmation: %v", err)
	}

	resp, err := svc.ToggleConfirmation(ctx, carol, tip.ID)
	if err != nil {
		t.Fatalf("unconfirm failed: %v", err)
	}
	if resp.Action != "unconfirmed" || resp.Confirmations != 0 {
		t.Fatalf("got (%s, %d), want (unconfirmed, 0)", resp.Action, resp.Confirmations)
	}
}
