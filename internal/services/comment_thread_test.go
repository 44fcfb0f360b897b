package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/localloop/localloop-backend/internal/models"
)

func comment(id uuid.UUID, parent *uuid.UUID, likes int, createdAt time.Time) models.Comment {
	return models.Comment{
		ID:        id,
		ParentID:  parent,
		Content:   "c",
		Likes:     likes,
		CreatedAt: createdAt,
	}
}

func TestBuildThreadGroupsReplies(t *testing.T) {
	now := time.Now()
	root1 := uuid.New()
	root2 := uuid.New()
	reply1 := uuid.New()
	reply2 := uuid.New()

	flat := []models.Comment{
		comment(root1, nil, 0, now),
		comment(reply1, &root1, 0, now.Add(time.Minute)),
		comment(root2, nil, 0, now.Add(2*time.Minute)),
		comment(reply2, &root1, 0, now.Add(3*time.Minute)),
	}

	roots := BuildThread(flat)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != root1 || roots[1].ID != root2 {
		t.Fatal("roots should keep input order")
	}
	if len(roots[0].Replies) != 2 {
		t.Fatalf("expected 2 replies under first root, got %d", len(roots[0].Replies))
	}
	if roots[0].Replies[0].ID != reply1 || roots[0].Replies[1].ID != reply2 {
		t.Fatal("replies should keep input order")
	}
	if len(roots[1].Replies) != 0 {
		t.Fatal("second root should have no replies")
	}
}

func TestBuildThreadDropsOrphans(t *testing.T) {
	missing := uuid.New()
	orphan := comment(uuid.New(), &missing, 0, time.Now())
	root := comment(uuid.New(), nil, 0, time.Now())

	roots := BuildThread([]models.Comment{orphan, root})
	if len(roots) != 1 {
		t.Fatalf("expected orphan dropped, got %d roots", len(roots))
	}
	if roots[0].ID != root.ID {
		t.Fatal("wrong surviving root")
	}
}

func TestBuildThreadEmpty(t *testing.T) {
	if roots := BuildThread(nil); len(roots) != 0 {
		t.Fatalf("expected no roots, got %d", len(roots))
	}
}

func TestSortCommentsNewestFirst(t *testing.T) {
	now := time.Now()
	older := comment(uuid.New(), nil, 5, now.Add(-time.Hour))
	newer := comment(uuid.New(), nil, 0, now)

	flat := []models.Comment{older, newer}
	SortComments(flat, "new")
	if flat[0].ID != newer.ID {
		t.Fatal("newest comment should come first")
	}
}

func TestSortCommentsTop(t *testing.T) {
	now := time.Now()
	popular := comment(uuid.New(), nil, 9, now.Add(-2*time.Hour))
	tiedNew := comment(uuid.New(), nil, 3, now)
	tiedOld := comment(uuid.New(), nil, 3, now.Add(-time.Hour))

	flat := []models.Comment{tiedOld, popular, tiedNew}
	SortComments(flat, "top")
	if flat[0].ID != popular.ID {
		t.Fatal("most liked comment should come first")
	}
	if flat[1].ID != tiedNew.ID {
		t.Fatal("like ties should break newest first")
	}
}
