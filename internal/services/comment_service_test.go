package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/localloop/localloop-backend/internal/identity"
	"github.com/localloop/localloop-backend/internal/models"
	"github.com/localloop/localloop-backend/internal/realtime"
	"gorm.io/gorm"
)

func newTestCommentService(db *gorm.DB) *CommentService {
	return NewCommentService(db, NewModerationService(db), realtime.NewHub(nil), 5*time.Second, 5*time.Second)
}

func createTestComment(t *testing.T, db *gorm.DB, tipID uuid.UUID) models.Comment {
	t.Helper()

	comment := models.Comment{
		ID:          uuid.New(),
		TipID:       tipID,
		Fingerprint: "fp-author",
		Content:     "still there as of this morning",
	}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}
	t.Cleanup(func() {
		db.Where("comment_id = ?", comment.ID).Delete(&models.CommentLike{})
		db.Delete(&models.Comment{}, "id = ?", comment.ID)
	})
	return comment
}

func TestToggleLikeRoundTrip(t *testing.T) {
	db := testDB(t)
	svc := newTestCommentService(db)
	ctx := context.Background()

	tip := createTestTip(t, db, time.Now().UTC())
	comment := createTestComment(t, db, tip.ID)
	alice := identity.Authenticated(uuid.New(), "alice@example.com", "fp-alice")

	resp, err := svc.ToggleLike(ctx, alice, comment.ID)
	if err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if resp.Action != "liked" || resp.Likes != 1 {
		t.Fatalf("got (%s, %d), want (liked, 1)", resp.Action, resp.Likes)
	}

	liked, err := svc.UserLikedComments(ctx, alice, tip.ID)
	if err != nil {
		t.Fatalf("liked lookup failed: %v", err)
	}
	if !liked[comment.ID] {
		t.Fatal("membership should record the like")
	}

	resp, err = svc.ToggleLike(ctx, alice, comment.ID)
	if err != nil {
		t.Fatalf("unlike failed: %v", err)
	}
	if resp.Action != "unliked" || resp.Likes != 0 {
		t.Fatalf("got (%s, %d), want (unliked, 0)", resp.Action, resp.Likes)
	}
}

func TestToggleLikeCounterFloor(t *testing.T) {
	db := testDB(t)
	svc := newTestCommentService(db)
	ctx := context.Background()

	tip := createTestTip(t, db, time.Now().UTC())
	comment := createTestComment(t, db, tip.ID)
	dave := identity.Anonymous("fp-dave")

	row := models.CommentLike{
		ID:          uuid.New(),
		CommentID:   comment.ID,
		Fingerprint: dave.Fingerprint(),
		SubjectKey:  dave.Key(),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed like: %v", err)
	}

	resp, err := svc.ToggleLike(ctx, dave, comment.ID)
	if err != nil {
		t.Fatalf("unlike failed: %v", err)
	}
	if resp.Action != "unliked" || resp.Likes != 0 {
		t.Fatalf("got (%s, %d), want (unliked, 0)", resp.Action, resp.Likes)
	}
}
