package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/localloop/localloop-backend/internal/config"
	"github.com/localloop/localloop-backend/internal/dto"
	"github.com/localloop/localloop-backend/internal/filter"
	"github.com/localloop/localloop-backend/internal/lifecycle"
	"github.com/localloop/localloop-backend/internal/middleware"
	"github.com/localloop/localloop-backend/internal/models"
	"github.com/localloop/localloop-backend/internal/services"
	"gorm.io/gorm"
)

type TipHandler struct {
	tipService *services.TipService
	db         *gorm.DB
	cfg        *config.Config
}

func NewTipHandler(tipService *services.TipService, db *gorm.DB, cfg *config.Config) *TipHandler {
	return &TipHandler{tipService: tipService, db: db, cfg: cfg}
}

// List returns tips newest first, decorated with lifecycle fields and the
// caller's confirmation state. Query params: q (search text), categories
// (comma-separated), include_expired (default false).
func (h *TipHandler) List(c *fiber.Ctx) error {
	tips, err := h.tipService.ListTips(c.Context(), listFilter(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load tips",
		})
	}

	ident := middleware.CurrentIdentity(c)
	tipIDs := make([]uuid.UUID, len(tips))
	for i := range tips {
		tipIDs[i] = tips[i].ID
	}
	confirmed, err := h.tipService.UserConfirmations(c.Context(), ident, tipIDs)
	if err != nil {
		confirmed = map[uuid.UUID]bool{}
	}

	now := time.Now().UTC()
	views := make([]dto.TipView, len(tips))
	for i := range tips {
		views[i] = tipView(tips[i], confirmed[tips[i].ID], now)
	}
	return c.JSON(views)
}

func (h *TipHandler) Get(c *fiber.Ctx) error {
	tipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid tip id",
		})
	}

	tip, err := h.tipService.GetTip(c.Context(), tipID)
	if err != nil {
		return tipError(c, err)
	}

	ident := middleware.CurrentIdentity(c)
	confirmed, err := h.tipService.UserConfirmations(c.Context(), ident, []uuid.UUID{tip.ID})
	if err != nil {
		confirmed = map[uuid.UUID]bool{}
	}

	view := tipView(*tip, confirmed[tip.ID], time.Now().UTC())
	return c.JSON(view)
}

func (h *TipHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	tip, err := h.tipService.CreateTip(c.Context(), middleware.CurrentIdentity(c), &req)
	if err != nil {
		return tipError(c, err)
	}

	view := tipView(*tip, false, time.Now().UTC())
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *TipHandler) Update(c *fiber.Ctx) error {
	tipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid tip id",
		})
	}

	var req dto.UpdateTipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	tip, err := h.tipService.UpdateTip(c.Context(), middleware.CurrentIdentity(c), tipID, &req)
	if err != nil {
		return tipError(c, err)
	}
	return c.JSON(tip)
}

func (h *TipHandler) Delete(c *fiber.Ctx) error {
	tipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid tip id",
		})
	}

	isAdmin := middleware.IsAdmin(c, h.db, h.cfg)
	if err := h.tipService.DeleteTip(c.Context(), middleware.CurrentIdentity(c), tipID, isAdmin); err != nil {
		return tipError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *TipHandler) ToggleConfirmation(c *fiber.Ctx) error {
	tipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid tip id",
		})
	}

	resp, err := h.tipService.ToggleConfirmation(c.Context(), middleware.CurrentIdentity(c), tipID)
	if err != nil {
		return tipError(c, err)
	}
	return c.JSON(resp)
}

func (h *TipHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.tipService.Stats(c.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load stats",
		})
	}
	return c.JSON(stats)
}

// Sync replays a batch of offline drafts. The response carries a per-draft
// status so the client can clear its queue entry by entry.
func (h *TipHandler) Sync(c *fiber.Ctx) error {
	var req dto.SyncTipsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if len(req.Tips) == 0 {
		return c.JSON([]dto.SyncTipResult{})
	}
	if len(req.Tips) > 50 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Too many drafts in one batch",
		})
	}

	results := h.tipService.SyncTips(c.Context(), middleware.CurrentIdentity(c), req.Tips)
	return c.JSON(results)
}

// listFilter builds the filter state from query params. The defaults match
// an untouched filter panel: all categories, expired tips shown, no search.
func listFilter(c *fiber.Ctx) filter.Filter {
	f := filter.Filter{
		Query:          c.Query("q"),
		IncludeExpired: c.QueryBool("include_expired", true),
	}
	if raw := c.Query("categories"); raw != "" {
		f.Categories = make(map[string]bool)
		for _, category := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(category); trimmed != "" {
				f.Categories[trimmed] = true
			}
		}
	}
	return f
}

func tipView(tip models.Tip, confirmedByMe bool, now time.Time) dto.TipView {
	return dto.TipView{
		Tip:                 tip,
		Expired:             lifecycle.IsExpired(tip.LastConfirmedAt, now),
		DaysUntilExpiration: lifecycle.DaysUntilExpiration(tip.LastConfirmedAt, now),
		Status:              lifecycle.StatusOf(tip.LastConfirmedAt, now),
		ConfirmedByMe:       confirmedByMe,
	}
}

func tipError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTipNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotTipOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
