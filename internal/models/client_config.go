package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ClientConfig is a key/value pair the PWA client reads at boot (category
// palette, expiration window, default map center, feature flags).
type ClientConfig struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Key       string         `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
