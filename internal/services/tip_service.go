package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/localloop/localloop-backend/internal/dto"
	"github.com/localloop/localloop-backend/internal/events"
	"github.com/localloop/localloop-backend/internal/filter"
	"github.com/localloop/localloop-backend/internal/identity"
	"github.com/localloop/localloop-backend/internal/lifecycle"
	"github.com/localloop/localloop-backend/internal/models"
	"github.com/localloop/localloop-backend/internal/realtime"
	"gorm.io/gorm"
)

var (
	ErrTipNotFound  = errors.New("tip not found")
	ErrNotTipOwner  = errors.New("tip not owned by you")
	ErrInvalidInput = errors.New("invalid input")
)

const maxDescriptionLen = 500

// TipService owns the tip lifecycle: creation, listing, confirmation
// toggling, and the derived stats. Confirmation toggling runs as a single
// transaction so concurrent togglers cannot skew the stored counter.
type TipService struct {
	db              *gorm.DB
	moderation      *ModerationService
	hub             *realtime.Hub
	publisher       *events.Publisher
	mutationTimeout time.Duration
	queryTimeout    time.Duration
}

func NewTipService(db *gorm.DB, moderation *ModerationService, hub *realtime.Hub, publisher *events.Publisher, mutationTimeout, queryTimeout time.Duration) *TipService {
	return &TipService{
		db:              db,
		moderation:      moderation,
		hub:             hub,
		publisher:       publisher,
		mutationTimeout: mutationTimeout,
		queryTimeout:    queryTimeout,
	}
}

func (s *TipService) CreateTip(ctx context.Context, ident identity.Identity, req *dto.CreateTipRequest) (*models.Tip, error) {
	ctx, cancel := context.WithTimeout(ctx, s.mutationTimeout)
	defer cancel()

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if len(description) > maxDescriptionLen {
		return nil, fmt.Errorf("%w: description must be under %d characters", ErrInvalidInput, maxDescriptionLen)
	}
	if !models.ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, req.Category)
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if ok, reason := s.moderation.FilterContent(description); !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, s.moderation.GetRejectionMessage(reason))
	}

	// A re-POSTed offline draft returns the tip it already created.
	if req.ClientRef != "" {
		var existing models.Tip
		if err := s.db.WithContext(ctx).Where("client_ref = ?", req.ClientRef).First(&existing).Error; err == nil {
			return &existing, nil
		}
	}

	now := time.Now().UTC()
	tip := models.Tip{
		ID:              uuid.New(),
		Lat:             req.Lat,
		Lng:             req.Lng,
		Category:        req.Category,
		Description:     description,
		LastConfirmedAt: now,
		CreatedAt:       now,
		UserID:          ident.UserIDRef(),
		UserEmail:       ident.EmailRef(),
	}
	if req.ImageURL != "" {
		url := req.ImageURL
		tip.ImageURL = &url
	}
	if req.ClientRef != "" {
		ref := req.ClientRef
		tip.ClientRef = &ref
	}

	if err := s.db.WithContext(ctx).Create(&tip).Error; err != nil {
		// Lost the idempotency race: another sync attempt inserted first.
		if errors.Is(err, gorm.ErrDuplicatedKey) && req.ClientRef != "" {
			var existing models.Tip
			if err := s.db.WithContext(ctx).Where("client_ref = ?", req.ClientRef).First(&existing).Error; err == nil {
				return &existing, nil
			}
		}
		return nil, fmt.Errorf("failed to create tip: %w", err)
	}

	s.hub.Publish(ctx, realtime.ScopeTips, realtime.Change{Table: "tips", Event: "insert", TipID: tip.ID.String()})
	_ = s.publisher.Publish(ctx, events.QueueTipCreated, events.TipCreated{
		TipID:       tip.ID.String(),
		Category:    tip.Category,
		Lat:         tip.Lat,
		Lng:         tip.Lng,
		Description: tip.Description,
		CreatedAt:   tip.CreatedAt,
	})

	return &tip, nil
}

// ListTips returns the filtered tip set, newest first. Filtering is applied
// in memory so its semantics stay identical to the client-side filter panel.
func (s *TipService) ListTips(ctx context.Context, f filter.Filter) ([]models.Tip, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var tips []models.Tip
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&tips).Error; err != nil {
		return nil, err
	}
	return filter.Apply(tips, f, time.Now().UTC()), nil
}

func (s *TipService) GetTip(ctx context.Context, tipID uuid.UUID) (*models.Tip, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var tip models.Tip
	if err := s.db.WithContext(ctx).First(&tip, "id = ?", tipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTipNotFound
		}
		return nil, err
	}
	return &tip, nil
}

func (s *TipService) UpdateTip(ctx context.Context, ident identity.Identity, tipID uuid.UUID, req *dto.UpdateTipRequest) (*models.Tip, error) {
	ctx, cancel := context.WithTimeout(ctx, s.mutationTimeout)
	defer cancel()

	var tip models.Tip
	if err := s.db.WithContext(ctx).First(&tip, "id = ?", tipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTipNotFound
		}
		return nil, err
	}
	if !ident.Owns(tip.UserID) {
		return nil, ErrNotTipOwner
	}

	updates := map[string]interface{}{}
	if req.Description != "" {
		description := strings.TrimSpace(req.Description)
		if len(description) > maxDescriptionLen {
			return nil, fmt.Errorf("%w: description must be under %d characters", ErrInvalidInput, maxDescriptionLen)
		}
		if ok, reason := s.moderation.FilterContent(description); !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, s.moderation.GetRejectionMessage(reason))
		}
		updates["description"] = description
	}
	if req.Category != "" {
		if !models.ValidCategory(req.Category) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, req.Category)
		}
		updates["category"] = req.Category
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&tip).Updates(updates).Error; err != nil {
			return nil, err
		}
		s.hub.Publish(ctx, realtime.ScopeTips, realtime.Change{Table: "tips", Event: "update", TipID: tip.ID.String()})
	}
	return &tip, nil
}

func (s *TipService) DeleteTip(ctx context.Context, ident identity.Identity, tipID uuid.UUID, isAdmin bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.mutationTimeout)
	defer cancel()

	var tip models.Tip
	if err := s.db.WithContext(ctx).First(&tip, "id = ?", tipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTipNotFound
		}
		return err
	}
	if !isAdmin && !ident.Owns(tip.UserID) {
		return ErrNotTipOwner
	}

	if err := s.db.WithContext(ctx).Delete(&tip).Error; err != nil {
		return err
	}
	s.hub.Publish(ctx, realtime.ScopeTips, realtime.Change{Table: "tips", Event: "delete", TipID: tip.ID.String()})
	return nil
}

// ToggleConfirmation flips the acting identity's confirmation of a tip inside
// one transaction: the membership check, the confirmation row, and the
// counter move together, so two togglers racing cannot lose an update. A
// confirmation refreshes last_confirmed_at, which also un-expires an expired
// tip. The counter never drops below zero.
func (s *TipService) ToggleConfirmation(ctx context.Context, ident identity.Identity, tipID uuid.UUID) (*dto.ToggleConfirmationResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.mutationTimeout)
	defer cancel()

	var action string
	var confirmations int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tip models.Tip
		if err := tx.First(&tip, "id = ?", tipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTipNotFound
			}
			return err
		}

		var existing models.TipConfirmation
		err := tx.Where("tip_id = ? AND subject_key = ?", tipID, ident.Key()).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Tip{}).Where("id = ?", tipID).
				Update("confirmations", gorm.Expr("GREATEST(confirmations - 1, 0)")).Error; err != nil {
				return err
			}
			action = "unconfirmed"

		case errors.Is(err, gorm.ErrRecordNotFound):
			confirmation := models.TipConfirmation{
				ID:          uuid.New(),
				TipID:       tipID,
				UserID:      ident.UserIDRef(),
				Fingerprint: ident.Fingerprint(),
				SubjectKey:  ident.Key(),
			}
			if err := tx.Create(&confirmation).Error; err != nil {
				// The same identity confirmed through another request in
				// between; treat the duplicate as already confirmed.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					action = "confirmed"
					return nil
				}
				return err
			}
			if err := tx.Model(&models.Tip{}).Where("id = ?", tipID).
				Updates(map[string]interface{}{
					"confirmations":     gorm.Expr("confirmations + 1"),
					"last_confirmed_at": time.Now().UTC(),
				}).Error; err != nil {
				return err
			}
			action = "confirmed"

		default:
			return err
		}

		var updated models.Tip
		if err := tx.Select("confirmations").First(&updated, "id = ?", tipID).Error; err != nil {
			return err
		}
		confirmations = updated.Confirmations
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ctx, realtime.ScopeTips, realtime.Change{Table: "tip_confirmations", Event: action, TipID: tipID.String()})
	if action == "confirmed" {
		_ = s.publisher.Publish(ctx, events.QueueTipConfirmed, events.TipConfirmed{
			TipID:         tipID.String(),
			Action:        action,
			Confirmations: confirmations,
			ConfirmedAt:   time.Now().UTC(),
		})
	}

	return &dto.ToggleConfirmationResponse{
		Success:       true,
		Action:        action,
		Confirmations: confirmations,
		Message:       fmt.Sprintf("Total: %d", confirmations),
	}, nil
}

// UserConfirmations returns which of tipIDs the identity has confirmed.
func (s *TipService) UserConfirmations(ctx context.Context, ident identity.Identity, tipIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	confirmed := make(map[uuid.UUID]bool, len(tipIDs))
	if len(tipIDs) == 0 {
		return confirmed, nil
	}

	var rows []models.TipConfirmation
	if err := s.db.WithContext(ctx).
		Select("tip_id").
		Where("tip_id IN ? AND subject_key = ?", tipIDs, ident.Key()).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		confirmed[row.TipID] = true
	}
	return confirmed, nil
}

func (s *TipService) Stats(ctx context.Context, ident identity.Identity) (*dto.TipStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	stats := &dto.TipStats{ByCategory: make(map[string]int64)}

	if err := s.db.WithContext(ctx).Model(&models.Tip{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().Add(-time.Duration(lifecycle.ExpirationDays * 24 * float64(time.Hour)))
	if err := s.db.WithContext(ctx).Model(&models.Tip{}).
		Where("last_confirmed_at < ?", cutoff).
		Count(&stats.Expired).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Category string
		Count    int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Tip{}).
		Select("category, count(*) as count").
		Group("category").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByCategory[row.Category] = row.Count
	}

	if userID, ok := ident.UserID(); ok {
		if err := s.db.WithContext(ctx).Model(&models.Tip{}).
			Where("user_id = ?", userID).
			Count(&stats.Mine).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// SyncTips replays an offline submission queue. Each entry either creates a
// tip, resolves to the tip an earlier replay created, or is rejected; one bad
// draft does not fail the batch.
func (s *TipService) SyncTips(ctx context.Context, ident identity.Identity, reqs []dto.CreateTipRequest) []dto.SyncTipResult {
	results := make([]dto.SyncTipResult, 0, len(reqs))
	for i := range reqs {
		req := reqs[i]
		result := dto.SyncTipResult{ClientRef: req.ClientRef}

		existedBefore := false
		if req.ClientRef != "" {
			var count int64
			s.db.WithContext(ctx).Model(&models.Tip{}).Where("client_ref = ?", req.ClientRef).Count(&count)
			existedBefore = count > 0
		}

		tip, err := s.CreateTip(ctx, ident, &req)
		switch {
		case err != nil:
			result.Status = "rejected"
			result.Message = err.Error()
		case existedBefore:
			result.Status = "duplicate"
			result.TipID = tip.ID.String()
		default:
			result.Status = "created"
			result.TipID = tip.ID.String()
		}
		results = append(results, result)
	}
	return results
}
