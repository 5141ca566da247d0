package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for persisted models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Date and time layouts used on the wire. All values are shop-local wall clock.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)
