package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all stored rows.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Flash categories for transient status messages.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a categorized transient status message accompanying a redirect.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}
