package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository"
)

const bookingColumns = `
	id, shop_id, service_id, staff_id, customer_name, customer_phone, customer_email,
	booking_date::text AS booking_date, to_char(booking_time, 'HH24:MI') AS booking_time,
	duration, price, discount, total, status, notes, cancel_reason, created_at, updated_at`

const listLimit = 500

func activeStatuses() interface{} {
	out := make([]string, len(model.ActiveBookingStatuses))
	for i, s := range model.ActiveBookingStatuses {
		out[i] = string(s)
	}
	return pq.Array(out)
}

// bookingStore runs against either the pool or an open transaction.
type bookingStore struct {
	ext sqlx.ExtContext
}

func (s *bookingStore) ListActiveForStaff(ctx context.Context, staffID model.StaffID, date string, excludeID *uuid.UUID) ([]*model.Booking, error) {
	// Serialises concurrent writers for the same staff and day until commit,
	// including inserts that row locks alone would miss.
	if _, err := s.ext.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, staffID.String()+":"+date); err != nil {
		return nil, fmt.Errorf("failed to lock staff schedule: %w", err)
	}

	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE staff_id = $1 AND booking_date = $2 AND status = ANY($3)`
	args := []interface{}{staffID, date, activeStatuses()}

	if excludeID != nil {
		query += " AND id <> $4"
		args = append(args, *excludeID)
	}
	query += " ORDER BY booking_time FOR UPDATE"

	var bookings []*model.Booking
	if err := sqlx.SelectContext(ctx, s.ext, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list staff bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingStore) Create(ctx context.Context, b *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, shop_id, service_id, staff_id, customer_name, customer_phone, customer_email,
			booking_date, booking_time, duration, price, discount, total, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := s.ext.ExecContext(ctx, query,
		b.ID,
		b.ShopID,
		b.ServiceID,
		b.StaffID,
		b.CustomerName,
		b.CustomerPhone,
		b.CustomerEmail,
		b.BookingDate,
		b.BookingTime,
		b.Duration,
		b.Price,
		b.Discount,
		b.Total,
		b.Status,
		b.Notes,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (s *bookingStore) Update(ctx context.Context, b *model.Booking) error {
	query := `
		UPDATE bookings
		SET staff_id = $1, booking_date = $2, booking_time = $3, status = $4,
			notes = $5, cancel_reason = $6, updated_at = $7
		WHERE id = $8
	`
	b.UpdatedAt = time.Now()

	result, err := s.ext.ExecContext(ctx, query,
		b.StaffID,
		b.BookingDate,
		b.BookingTime,
		b.Status,
		b.Notes,
		b.CancelReason,
		b.UpdatedAt,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to update booking: %w", repository.ErrNotFound)
	}
	return nil
}

func (s *bookingStore) AppendEvent(ctx context.Context, evt *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (id, aggregate_id, event_type, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if evt.ID == uuid.Nil {
		evt.ID = uuid.New()
	}
	evt.CreatedAt = time.Now()

	_, err := s.ext.ExecContext(ctx, query,
		evt.ID,
		evt.AggregateID,
		evt.EventType,
		string(evt.Payload),
		evt.Status,
		evt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append outbox event: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b model.Booking
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", notFound(err))
	}
	return &b, nil
}

func (r *bookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filter.ShopID != nil {
		query += fmt.Sprintf(" AND shop_id = $%d", argCount)
		args = append(args, *filter.ShopID)
		argCount++
	}
	if filter.CustomerPhone != "" {
		query += fmt.Sprintf(" AND customer_phone = $%d", argCount)
		args = append(args, filter.CustomerPhone)
		argCount++
	}
	if filter.CustomerEmail != "" {
		query += fmt.Sprintf(" AND lower(customer_email) = lower($%d)", argCount)
		args = append(args, filter.CustomerEmail)
		argCount++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
		argCount++
	}
	if filter.Date != "" {
		query += fmt.Sprintf(" AND booking_date = $%d", argCount)
		args = append(args, filter.Date)
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY booking_date DESC, booking_time DESC, created_at DESC LIMIT $%d", argCount)
	args = append(args, listLimit)

	bookings := []*model.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ShopBookingsForDate(ctx context.Context, shopID uuid.UUID, date string) ([]model.BusyBooking, error) {
	query := `
		SELECT staff_id, booking_time::text AS booking_time, duration AS service_duration
		FROM bookings
		WHERE shop_id = $1 AND booking_date = $2 AND status = ANY($3)
	`
	var rows []model.BusyBooking
	if err := r.db.SelectContext(ctx, &rows, query, shopID, date, activeStatuses()); err != nil {
		return nil, fmt.Errorf("failed to get shop bookings: %w", err)
	}
	return rows, nil
}

func (r *bookingRepository) RunInTx(ctx context.Context, fn func(repository.BookingStore) error) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return fn(&bookingStore{ext: tx})
	})
}
