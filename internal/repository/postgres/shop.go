package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
)

func (r *shopRepository) Get(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	query := `
		SELECT id, name, address, phone, operating_hours, is_active, created_at, updated_at
		FROM shops
		WHERE id = $1
	`
	var shop model.Shop
	if err := r.db.GetContext(ctx, &shop, query, id); err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", notFound(err))
	}
	return &shop, nil
}
