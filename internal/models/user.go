package models

import (
	"time"

	"github.com/google/uuid"
)

// User is issued by the auth subsystem. Password is empty for accounts that
// only ever signed in through a magic link. Deletion is a hard delete so the
// email is free to register again.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255" json:"-"`
	Role      string    `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
