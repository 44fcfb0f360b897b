// Package identity models the acting identity of a request as a tagged
// union: an authenticated user or an anonymous browser fingerprint. The
// fingerprint is a weak, collidable deduplication hint supplied by the
// client, never a security boundary.
package identity

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// Identity is either authenticated (user id + email) or anonymous
// (fingerprint only). Authenticated identities still carry the client
// fingerprint so rows record both, matching the stored data model.
type Identity struct {
	userID      *uuid.UUID
	email       string
	fingerprint string
}

// Authenticated builds the identity of a signed-in user.
func Authenticated(userID uuid.UUID, email, fingerprint string) Identity {
	id := userID
	return Identity{userID: &id, email: email, fingerprint: fingerprint}
}

// Anonymous builds a fingerprint-only identity.
func Anonymous(fingerprint string) Identity {
	return Identity{fingerprint: fingerprint}
}

func (i Identity) IsAuthenticated() bool { return i.userID != nil }

// UserID returns the authenticated user id, or false for anonymous callers.
func (i Identity) UserID() (uuid.UUID, bool) {
	if i.userID == nil {
		return uuid.Nil, false
	}
	return *i.userID, true
}

// UserIDRef returns a pointer suited for nullable columns, nil if anonymous.
func (i Identity) UserIDRef() *uuid.UUID {
	if i.userID == nil {
		return nil
	}
	id := *i.userID
	return &id
}

// EmailRef returns the email for nullable columns, nil if anonymous.
func (i Identity) EmailRef() *string {
	if i.userID == nil || i.email == "" {
		return nil
	}
	email := i.email
	return &email
}

func (i Identity) Email() string       { return i.email }
func (i Identity) Fingerprint() string { return i.fingerprint }

// Key is the uniqueness subject for per-identity constraints (one
// confirmation or like per tip/comment per identity).
func (i Identity) Key() string {
	if i.userID != nil {
		return "user:" + i.userID.String()
	}
	return "anon:" + i.fingerprint
}

// Owns reports whether the identity owns a row attributed to ownerID.
// Anonymous identities own nothing; ownership is user-id based only.
func (i Identity) Owns(ownerID *uuid.UUID) bool {
	if i.userID == nil || ownerID == nil {
		return false
	}
	return *i.userID == *ownerID
}

// DeriveFingerprint is the server-side fallback when the client sends no
// fingerprint header: a best-effort hash over request traits.
func DeriveFingerprint(userAgent, acceptLanguage string) string {
	sum := sha256.Sum256([]byte(userAgent + "|" + acceptLanguage))
	return hex.EncodeToString(sum[:])[:16]
}
