package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/localloop/localloop-backend/internal/dto"
	"github.com/localloop/localloop-backend/internal/identity"
	"github.com/localloop/localloop-backend/internal/models"
	"github.com/localloop/localloop-backend/internal/realtime"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("comment not owned by you")
	ErrBadParent       = errors.New("parent comment not found on this tip")
)

const maxCommentLen = 500

type CommentService struct {
	db              *gorm.DB
	moderation      *ModerationService
	hub             *realtime.Hub
	mutationTimeout time.Duration
	queryTimeout    time.Duration
}

func NewCommentService(db *gorm.DB, moderation *ModerationService, hub *realtime.Hub, mutationTimeout, queryTimeout time.Duration) *CommentService {
	return &CommentService{
		db:              db,
		moderation:      moderation,
		hub:             hub,
		mutationTimeout: mutationTimeout,
		queryTimeout:    queryTimeout,
	}
}

// ListThread loads a tip's comments sorted by sortBy ("new" or "top") and
// grouped into top-level comments with replies attached.
func (s *CommentService) ListThread(ctx context.Context, tipID uuid.UUID, sortBy string) ([]*dto.CommentNode, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var comments []models.Comment
	if err := s.db.WithContext(ctx).Where("tip_id = ?", tipID).Find(&comments).Error; err != nil {
		return nil, err
	}
	SortComments(comments, sortBy)
	return BuildThread(comments), nil
}

func (s *CommentService) AddComment(ctx context.Context, ident identity.Identity, tipID uuid.UUID, req *dto.AddCommentRequest) (*models.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.mutationTimeout)
	defer cancel()

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}
	if len(content) > maxCommentLen {
		return nil, fmt.Errorf("%w: comment must be under %d characters", ErrInvalidInput, maxCommentLen)
	}
	if ok, reason := s.moderation.FilterContent(content); !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, s.moderation.GetRejectionMessage(reason))
	}

	var tipCount int64
	if err := s.db.WithContext(ctx).Model(&models.Tip{}).Where("id = ?", tipID).Count(&tipCount).Error; err != nil {
		return nil, err
	}
	if tipCount == 0 {
		return nil, ErrTipNotFound
	}

	var parentID *uuid.UUID
	if req.ParentID != "" {
		parsed, err := uuid.Parse(req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad parent id", ErrInvalidInput)
		}
		var parent models.Comment
		if err := s.db.WithContext(ctx).First(&parent, "id = ? AND tip_id = ?", parsed, tipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBadParent
			}
			return nil, err
		}
		// Replies stay one level deep; replying to a reply attaches to its
		// top-level comment.
		if parent.ParentID != nil {
			parentID = parent.ParentID
		} else {
			parentID = &parsed
		}
	}

	comment := models.Comment{
		ID:          uuid.New(),
		TipID:       tipID,
		UserID:      ident.UserIDRef(),
		UserEmail:   ident.EmailRef(),
		Fingerprint: ident.Fingerprint(),
		ParentID:    parentID,
		Content:     content,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	s.hub.Publish(ctx, realtime.ScopeTip(tipID), realtime.Change{Table: "comments", Event: "insert", TipID: tipID.String()})
	return &comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, ident identity.Identity, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*models.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.mutationTimeout)
	defer cancel()

	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if !ident.Owns(comment.UserID) {
		return nil, ErrNotCommentOwner
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}
	if len(content) > maxCommentLen {
		return nil, fmt.Errorf("%w: comment must be under %d characters", ErrInvalidInput, maxCommentLen)
	}
	if ok, reason := s.moderation.FilterContent(content); !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, s.moderation.GetRejectionMessage(reason))
	}

	if err := s.db.WithContext(ctx).Model(&comment).Update("content", content).Error; err != nil {
		return nil, err
	}
	s.hub.Publish(ctx, realtime.ScopeTip(comment.TipID), realtime.Change{Table: "comments", Event: "update", TipID: comment.TipID.String()})
	return &comment, nil
}

// DeleteComment removes a comment and, for a top-level comment, its direct
// replies with it.
func (s *CommentService) DeleteComment(ctx context.Context, ident identity.Identity, commentID uuid.UUID, isAdmin bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.mutationTimeout)
	defer cancel()

	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if !isAdmin && !ident.Owns(comment.UserID) {
		return ErrNotCommentOwner
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if comment.ParentID == nil {
			if err := tx.Where("parent_id = ?", comment.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&comment).Error
	})
	if err != nil {
		return err
	}

	s.hub.Publish(ctx, realtime.ScopeTip(comment.TipID), realtime.Change{Table: "comments", Event: "delete", TipID: comment.TipID.String()})
	return nil
}

// ToggleLike flips the acting identity's like on a comment in one
// transaction, mirroring TipService.ToggleConfirmation. The like count never
// drops below zero.
func (s *CommentService) ToggleLike(ctx context.Context, ident identity.Identity, commentID uuid.UUID) (*dto.ToggleLikeResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.mutationTimeout)
	defer cancel()

	var action string
	var likes int
	var tipID uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, "id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
		tipID = comment.TipID

		var existing models.CommentLike
		err := tx.Where("comment_id = ? AND subject_key = ?", commentID, ident.Key()).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).
				Update("likes", gorm.Expr("GREATEST(likes - 1, 0)")).Error; err != nil {
				return err
			}
			action = "unliked"

		case errors.Is(err, gorm.ErrRecordNotFound):
			like := models.CommentLike{
				ID:          uuid.New(),
				CommentID:   commentID,
				UserID:      ident.UserIDRef(),
				Fingerprint: ident.Fingerprint(),
				SubjectKey:  ident.Key(),
			}
			if err := tx.Create(&like).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					action = "liked"
					return nil
				}
				return err
			}
			if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).
				Update("likes", gorm.Expr("likes + 1")).Error; err != nil {
				return err
			}
			action = "liked"

		default:
			return err
		}

		var updated models.Comment
		if err := tx.Select("likes").First(&updated, "id = ?", commentID).Error; err != nil {
			return err
		}
		likes = updated.Likes
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ctx, realtime.ScopeTip(tipID), realtime.Change{Table: "comment_likes", Event: action, TipID: tipID.String()})
	return &dto.ToggleLikeResponse{Success: true, Action: action, Likes: likes}, nil
}

// UserLikedComments returns the IDs of a tip's comments the identity liked.
func (s *CommentService) UserLikedComments(ctx context.Context, ident identity.Identity, tipID uuid.UUID) (map[uuid.UUID]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	liked := make(map[uuid.UUID]bool)
	var rows []models.CommentLike
	if err := s.db.WithContext(ctx).
		Joins("JOIN comments ON comments.id = comment_likes.comment_id").
		Where("comments.tip_id = ? AND comment_likes.subject_key = ?", tipID, ident.Key()).
		Select("comment_likes.comment_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		liked[row.CommentID] = true
	}
	return liked, nil
}
