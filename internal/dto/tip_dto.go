package dto

import (
	"github.com/localloop/localloop-backend/internal/lifecycle"
	"github.com/localloop/localloop-backend/internal/models"
)

type CreateTipRequest struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url,omitempty"`
	// ClientRef is the offline queue's idempotency key; retried submissions
	// with the same ref return the originally created tip.
	ClientRef string `json:"client_ref,omitempty"`
}

type UpdateTipRequest struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// TipView decorates a stored tip with its derived freshness.
type TipView struct {
	models.Tip
	Expired             bool             `json:"expired"`
	DaysUntilExpiration int              `json:"days_until_expiration"`
	Status              lifecycle.Status `json:"status"`
	ConfirmedByMe       bool             `json:"confirmed_by_me"`
}

type ToggleConfirmationResponse struct {
	Success       bool   `json:"success"`
	Action        string `json:"action"`
	Confirmations int    `json:"confirmations"`
	Message       string `json:"message,omitempty"`
}

type TipStats struct {
	Total      int64            `json:"total"`
	Expired    int64            `json:"expired"`
	ByCategory map[string]int64 `json:"by_category"`
	Mine       int64            `json:"mine"`
}

type SyncTipsRequest struct {
	Tips []CreateTipRequest `json:"tips"`
}

type SyncTipResult struct {
	ClientRef string `json:"client_ref"`
	Status    string `json:"status"` // created, duplicate, rejected
	TipID     string `json:"tip_id,omitempty"`
	Message   string `json:"message,omitempty"`
}
