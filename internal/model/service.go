package model

import (
	"github.com/google/uuid"
)

type Service struct {
	Base
	ShopID      uuid.UUID `db:"shop_id" json:"shop_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Duration    int       `db:"duration" json:"duration"` // in minutes
	Price       float64   `db:"price" json:"price"`
	IsActive    bool      `db:"is_active" json:"is_active"`
}
