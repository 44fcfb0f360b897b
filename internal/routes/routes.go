package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/localloop/localloop-backend/internal/config"
	"github.com/localloop/localloop-backend/internal/handlers"
	"github.com/localloop/localloop-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	tipHandler *handlers.TipHandler,
	commentHandler *handlers.CommentHandler,
	uploadHandler *handlers.UploadHandler,
	eventsHandler *handlers.EventsHandler,
	moderationHandler *handlers.ModerationHandler,
	legalHandler *handlers.LegalHandler,
	configHandler *handlers.ConfigHandler,
) {
	// Tip photos are served straight off disk.
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Client boot config (public)
	api.Get("/config", configHandler.GetConfig)

	// Legal pages
	api.Get("/legal/privacy", legalHandler.PrivacyPolicy)
	api.Get("/legal/terms", legalHandler.TermsOfService)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/magic-link", authHandler.RequestMagicLink)
	auth.Post("/verify", authHandler.VerifyMagicLink)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Tips and comments work for anonymous visitors too, so the JWT is
	// optional: a valid token attributes the action, a missing one falls
	// back to the client fingerprint.
	tips := api.Group("/tips", middleware.OptionalJWT(cfg))
	tips.Get("/", tipHandler.List)
	tips.Post("/", tipHandler.Create)
	tips.Get("/stats", tipHandler.Stats)
	tips.Post("/sync", tipHandler.Sync)
	tips.Get("/:id", tipHandler.Get)
	tips.Put("/:id", tipHandler.Update)
	tips.Delete("/:id", tipHandler.Delete)
	tips.Post("/:id/confirm", tipHandler.ToggleConfirmation)

	tips.Get("/:id/comments", commentHandler.ListThread)
	tips.Post("/:id/comments", commentHandler.Add)
	tips.Put("/:id/comments/:commentId", commentHandler.Update)
	tips.Delete("/:id/comments/:commentId", commentHandler.Delete)
	tips.Post("/:id/comments/:commentId/like", commentHandler.ToggleLike)

	// Change feeds (SSE)
	api.Get("/events", eventsHandler.StreamTips)
	tips.Get("/:id/events", eventsHandler.StreamTip)

	// Photo upload
	api.Post("/uploads", middleware.OptionalJWT(cfg), uploadHandler.UploadImage)

	// Moderation — user endpoints (protected)
	api.Post("/reports", middleware.JWTProtected(cfg), moderationHandler.CreateReport)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/moderation/reports", moderationHandler.ListReports)
	admin.Put("/moderation/reports/:id", moderationHandler.ActionReport)
	admin.Put("/config/:key", configHandler.SetConfigKey)
	admin.Delete("/config/:key", configHandler.DeleteConfigKey)
}
