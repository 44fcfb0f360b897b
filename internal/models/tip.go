package models

import (
	"time"

	"github.com/google/uuid"
)

// Tip is a geotagged piece of local knowledge dropped on the map.
type Tip struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Lat             float64    `gorm:"not null" json:"lat"`
	Lng             float64    `gorm:"not null" json:"lng"`
	Category        string     `gorm:"type:varchar(50);not null;index" json:"category"`
	Description     string     `gorm:"type:varchar(500);not null" json:"description"`
	Confirmations   int        `gorm:"default:0" json:"confirmations"`
	LastConfirmedAt time.Time  `gorm:"not null" json:"last_confirmed_at"`
	UserID          *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	UserEmail       *string    `gorm:"size:255" json:"user_email,omitempty"`
	ImageURL        *string    `gorm:"size:500" json:"image_url,omitempty"`
	// ClientRef is the idempotency key of the offline submission queue; a
	// retried sync re-POST with the same ref returns the already created tip.
	ClientRef *string   `gorm:"size:64;uniqueIndex" json:"client_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TipConfirmation is a single identity's vote that a tip is still accurate.
type TipConfirmation struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TipID  uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_tip_confirmations_subject" json:"tip_id"`
	UserID *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	// Fingerprint is the weak anonymous pseudo-identity supplied by the client.
	Fingerprint string `gorm:"size:64;not null" json:"user_fingerprint"`
	// SubjectKey collapses the (user | fingerprint) identity union into one
	// column so the per-identity uniqueness invariant holds at the store.
	SubjectKey string    `gorm:"size:100;not null;uniqueIndex:idx_tip_confirmations_subject" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	Tip        Tip       `gorm:"foreignKey:TipID;constraint:OnDelete:CASCADE" json:"-"`
}

// Fixed category set shared with the client.
var TipCategories = []string{
	"Shortcuts", "Free Stuff", "Hidden Gems", "Food & Drink", "Shopping",
	"Nature", "Entertainment", "Services", "Events", "Other",
}

// CategoryColors is the marker palette served through the client config.
var CategoryColors = map[string]string{
	"Shortcuts":     "#3b82f6",
	"Free Stuff":    "#22c55e",
	"Hidden Gems":   "#a855f7",
	"Food & Drink":  "#f97316",
	"Shopping":      "#ec4899",
	"Nature":        "#10b981",
	"Entertainment": "#eab308",
	"Services":      "#6366f1",
	"Events":        "#ef4444",
	"Other":         "#6b7280",
}

func ValidCategory(category string) bool {
	for _, c := range TipCategories {
		if c == category {
			return true
		}
	}
	return false
}
