package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a threaded comment on a tip. Threading is one level deep in
// practice: replies carry the ParentID of a root comment on the same tip.
type Comment struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TipID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"tip_id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	UserEmail   *string    `gorm:"size:255" json:"user_email,omitempty"`
	Fingerprint string     `gorm:"size:64;not null" json:"user_fingerprint"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Content     string     `gorm:"type:varchar(500);not null" json:"content"`
	Likes       int        `gorm:"default:0" json:"likes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Tip         Tip        `gorm:"foreignKey:TipID;constraint:OnDelete:CASCADE" json:"-"`
}

// CommentLike tracks which identity liked a comment.
type CommentLike struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CommentID   uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_comment_likes_subject" json:"comment_id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Fingerprint string     `gorm:"size:64;not null" json:"user_fingerprint"`
	SubjectKey  string     `gorm:"size:100;not null;uniqueIndex:idx_comment_likes_subject" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	Comment     Comment    `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}
