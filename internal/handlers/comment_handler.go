package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/localloop/localloop-backend/internal/config"
	"github.com/localloop/localloop-backend/internal/dto"
	"github.com/localloop/localloop-backend/internal/middleware"
	"github.com/localloop/localloop-backend/internal/services"
	"gorm.io/gorm"
)

type CommentHandler struct {
	commentService *services.CommentService
	db             *gorm.DB
	cfg            *config.Config
}

func NewCommentHandler(commentService *services.CommentService, db *gorm.DB, cfg *config.Config) *CommentHandler {
	return &CommentHandler{commentService: commentService, db: db, cfg: cfg}
}

// ListThread returns a tip's comments as top-level nodes with replies,
// sorted per the sort query param ("new" or "top"), plus the IDs the caller
// has liked.
func (h *CommentHandler) ListThread(c *fiber.Ctx) error {
	tipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid tip id",
		})
	}

	thread, err := h.commentService.ListThread(c.Context(), tipID, c.Query("sort", "new"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load comments",
		})
	}

	liked, err := h.commentService.UserLikedComments(c.Context(), middleware.CurrentIdentity(c), tipID)
	if err != nil {
		liked = map[uuid.UUID]bool{}
	}
	likedIDs := make([]uuid.UUID, 0, len(liked))
	for id := range liked {
		likedIDs = append(likedIDs, id)
	}

	return c.JSON(fiber.Map{
		"comments":    thread,
		"liked_by_me": likedIDs,
	})
}

func (h *CommentHandler) Add(c *fiber.Ctx) error {
	tipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid tip id",
		})
	}

	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	comment, err := h.commentService.AddComment(c.Context(), middleware.CurrentIdentity(c), tipID, &req)
	if err != nil {
		return commentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid comment id",
		})
	}

	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	comment, err := h.commentService.UpdateComment(c.Context(), middleware.CurrentIdentity(c), commentID, &req)
	if err != nil {
		return commentError(c, err)
	}
	return c.JSON(comment)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid comment id",
		})
	}

	isAdmin := middleware.IsAdmin(c, h.db, h.cfg)
	if err := h.commentService.DeleteComment(c.Context(), middleware.CurrentIdentity(c), commentID, isAdmin); err != nil {
		return commentError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *CommentHandler) ToggleLike(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid comment id",
		})
	}

	resp, err := h.commentService.ToggleLike(c.Context(), middleware.CurrentIdentity(c), commentID)
	if err != nil {
		return commentError(c, err)
	}
	return c.JSON(resp)
}

func commentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCommentNotFound), errors.Is(err, services.ErrTipNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotCommentOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrBadParent), errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
