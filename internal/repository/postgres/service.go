package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
)

func (r *serviceRepository) Get(ctx context.Context, id, shopID uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, shop_id, name, description, duration, price, is_active, created_at, updated_at
		FROM services
		WHERE id = $1 AND shop_id = $2
	`
	var service model.Service
	if err := r.db.GetContext(ctx, &service, query, id, shopID); err != nil {
		return nil, fmt.Errorf("failed to get service: %w", notFound(err))
	}
	return &service, nil
}
