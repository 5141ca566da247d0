package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
)

func (r *staffRepository) Get(ctx context.Context, id model.StaffID, shopID uuid.UUID) (*model.Staff, error) {
	query := `
		SELECT id, shop_id, name, is_active
		FROM staff
		WHERE id = $1 AND shop_id = $2
	`
	var staff model.Staff
	if err := r.db.GetContext(ctx, &staff, query, id, shopID); err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", notFound(err))
	}
	return &staff, nil
}

const activeStaffQuery = `
		SELECT id, shop_id, name, is_active
		FROM staff
		WHERE shop_id = $1 AND is_active = TRUE
	`

func (r *staffRepository) ListActive(ctx context.Context, shopID uuid.UUID) ([]*model.Staff, error) {
	return r.selectStaff(ctx, activeStaffQuery+" ORDER BY name ASC, id ASC", shopID)
}

func (r *staffRepository) ListActiveByIDs(ctx context.Context, shopID uuid.UUID, ids []model.StaffID) ([]*model.Staff, error) {
	if len(ids) == 0 {
		return []*model.Staff{}, nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	query := activeStaffQuery + " AND id::text = ANY($2) ORDER BY name ASC, id ASC"
	return r.selectStaff(ctx, query, shopID, pq.Array(strs))
}

func (r *staffRepository) selectStaff(ctx context.Context, query string, args ...interface{}) ([]*model.Staff, error) {
	var staff []*model.Staff
	if err := r.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (r *staffRepository) ListMappingsByService(ctx context.Context, serviceID uuid.UUID) ([]*model.StaffService, error) {
	query := `
		SELECT staff_id, service_id
		FROM staff_services
		WHERE service_id = $1
		ORDER BY staff_id
	`
	var mappings []*model.StaffService
	if err := r.db.SelectContext(ctx, &mappings, query, serviceID); err != nil {
		return nil, fmt.Errorf("failed to list staff service mappings: %w", err)
	}
	return mappings, nil
}

func (r *staffRepository) HasMapping(ctx context.Context, staffID model.StaffID, serviceID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM staff_services
			WHERE staff_id = $1 AND service_id = $2
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, staffID, serviceID); err != nil {
		return false, fmt.Errorf("failed to check staff service mapping: %w", err)
	}
	return exists, nil
}
