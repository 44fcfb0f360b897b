package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/localloop/localloop-backend/internal/identity"
)

// CurrentIdentity resolves who is acting on a request. A valid JWT yields an
// authenticated identity; otherwise the caller is anonymous, keyed by the
// client-supplied fingerprint header with a header-derived fallback so
// fingerprint-less clients still get a stable-ish key.
func CurrentIdentity(c *fiber.Ctx) identity.Identity {
	fingerprint := c.Get("X-Client-Fingerprint")
	if fingerprint == "" {
		fingerprint = identity.DeriveFingerprint(c.Get("User-Agent"), c.Get("Accept-Language"))
	}

	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return identity.Anonymous(fingerprint)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity.Anonymous(fingerprint)
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return identity.Anonymous(fingerprint)
	}
	email, _ := claims["email"].(string)

	return identity.Authenticated(userID, email, fingerprint)
}

// CurrentUserID returns the authenticated user's ID, if any.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	return CurrentIdentity(c).UserID()
}
