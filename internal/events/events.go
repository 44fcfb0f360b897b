// Package events publishes domain events to RabbitMQ for the push
// notification worker. Publishing is best effort: failures are logged and
// returned but never interrupt the request that produced the event.
package events

import (
	"time"
)

// TipCreated is published when a new tip lands on the map.
type TipCreated struct {
	TipID       string    `json:"tip_id"`
	Category    string    `json:"category"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TipConfirmed is published on every successful confirmation toggle.
type TipConfirmed struct {
	TipID         string    `json:"tip_id"`
	Action        string    `json:"action"`
	Confirmations int       `json:"confirmations"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

const (
	QueueTipCreated   = "tip.created"
	QueueTipConfirmed = "tip.confirmed"
)
