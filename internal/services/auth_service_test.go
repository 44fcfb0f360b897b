package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/localloop/localloop-backend/internal/config"
	"github.com/localloop/localloop-backend/internal/dto"
	"github.com/localloop/localloop-backend/internal/models"
	"gorm.io/gorm"
)

func newTestAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Minute,
		JWTRefreshExpiry: time.Hour,
		MagicLinkExpiry:  15 * time.Minute,
		MutationTimeout:  5 * time.Second,
		QueryTimeout:     5 * time.Second,
	}
	return NewAuthService(db, cfg, NewMailer(cfg))
}

func cleanupUser(t *testing.T, db *gorm.DB, email string) {
	t.Helper()
	t.Cleanup(func() {
		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err == nil {
			db.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{})
			db.Delete(&user)
		}
		db.Where("email = ?", email).Delete(&models.LoginToken{})
	})
}

func TestDeleteAccountFreesEmail(t *testing.T) {
	db := testDB(t)
	svc := newTestAuthService(db)
	ctx := context.Background()

	email := "delete-" + uuid.New().String() + "@example.com"
	cleanupUser(t, db, email)

	first, err := svc.Register(ctx, &dto.RegisterRequest{Email: email, Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.DeleteAccount(ctx, first.User.ID, "hunter2hunter2"); err != nil {
		t.Fatalf("delete account failed: %v", err)
	}

	second, err := svc.Register(ctx, &dto.RegisterRequest{Email: email, Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("re-registering a deleted email must succeed, got: %v", err)
	}
	if second.User.ID == first.User.ID {
		t.Fatal("re-registration should mint a fresh account")
	}
}

func TestDeleteAccountCascadesReplies(t *testing.T) {
	db := testDB(t)
	svc := newTestAuthService(db)
	ctx := context.Background()

	email := "cascade-" + uuid.New().String() + "@example.com"
	cleanupUser(t, db, email)

	account, err := svc.Register(ctx, &dto.RegisterRequest{Email: email, Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	userID := account.User.ID

	tip := createTestTip(t, db, time.Now().UTC())

	root := models.Comment{
		ID:          uuid.New(),
		TipID:       tip.ID,
		UserID:      &userID,
		Fingerprint: "fp-owner",
		Content:     "gone since last week",
	}
	if err := db.Create(&root).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}
	reply := models.Comment{
		ID:          uuid.New(),
		TipID:       tip.ID,
		Fingerprint: "fp-neighbor",
		ParentID:    &root.ID,
		Content:     "confirmed, it's back now",
	}
	if err := db.Create(&reply).Error; err != nil {
		t.Fatalf("failed to create reply: %v", err)
	}
	bystander := createTestComment(t, db, tip.ID)
	t.Cleanup(func() {
		db.Delete(&models.Comment{}, "id IN ?", []uuid.UUID{root.ID, reply.ID})
	})

	if err := svc.DeleteAccount(ctx, userID, "hunter2hunter2"); err != nil {
		t.Fatalf("delete account failed: %v", err)
	}

	var count int64
	db.Model(&models.Comment{}).Where("id IN ?", []uuid.UUID{root.ID, reply.ID}).Count(&count)
	if count != 0 {
		t.Fatalf("expected root comment and its reply gone, %d rows remain", count)
	}

	db.Model(&models.Comment{}).Where("id = ?", bystander.ID).Count(&count)
	if count != 1 {
		t.Fatal("unrelated comments must survive the account deletion")
	}
}
