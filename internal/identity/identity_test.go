package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestKeyDistinguishesVariants(t *testing.T) {
	userID := uuid.New()
	auth := Authenticated(userID, "sam@example.com", "abc123")
	anon := Anonymous("abc123")

	if auth.Key() == anon.Key() {
		t.Error("authenticated and anonymous identities share a key")
	}
	if anon.Key() != "anon:abc123" {
		t.Errorf("anon key = %q", anon.Key())
	}
	if auth.Key() != "user:"+userID.String() {
		t.Errorf("auth key = %q", auth.Key())
	}
}

func TestAnonymousHasNoUser(t *testing.T) {
	anon := Anonymous("fp")
	if anon.IsAuthenticated() {
		t.Error("anonymous identity reports authenticated")
	}
	if _, ok := anon.UserID(); ok {
		t.Error("anonymous identity has a user id")
	}
	if anon.UserIDRef() != nil || anon.EmailRef() != nil {
		t.Error("anonymous identity has non-nil user refs")
	}
}

func TestOwns(t *testing.T) {
	mine := uuid.New()
	theirs := uuid.New()
	auth := Authenticated(mine, "sam@example.com", "fp")

	if !auth.Owns(&mine) {
		t.Error("identity does not own its own row")
	}
	if auth.Owns(&theirs) {
		t.Error("identity owns another user's row")
	}
	if auth.Owns(nil) {
		t.Error("identity owns an anonymous row")
	}
	if Anonymous("fp").Owns(&mine) {
		t.Error("anonymous identity owns a user row")
	}
}

func TestDeriveFingerprintStable(t *testing.T) {
	a := DeriveFingerprint("Mozilla/5.0", "en-US")
	b := DeriveFingerprint("Mozilla/5.0", "en-US")
	c := DeriveFingerprint("Mozilla/5.0", "de-DE")

	if a != b {
		t.Error("fingerprint not stable for identical traits")
	}
	if a == c {
		t.Error("fingerprint identical for differing traits")
	}
	if len(a) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(a))
	}
}
