package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
)

// ErrNotFound is returned by single-record lookups that match no row.
var ErrNotFound = errors.New("record not found")

// All repository interfaces in one file
type (
	ShopRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Shop, error)
	}

	// ServiceRepository looks up services scoped to their shop.
	ServiceRepository interface {
		Get(ctx context.Context, id, shopID uuid.UUID) (*model.Service, error)
	}

	StaffRepository interface {
		Get(ctx context.Context, id model.StaffID, shopID uuid.UUID) (*model.Staff, error)
		// ListActive returns every active staff member of the shop ordered by name.
		ListActive(ctx context.Context, shopID uuid.UUID) ([]*model.Staff, error)
		// ListActiveByIDs is ListActive limited to the given ids.
		ListActiveByIDs(ctx context.Context, shopID uuid.UUID, ids []model.StaffID) ([]*model.Staff, error)
		ListMappingsByService(ctx context.Context, serviceID uuid.UUID) ([]*model.StaffService, error)
		HasMapping(ctx context.Context, staffID model.StaffID, serviceID uuid.UUID) (bool, error)
	}

	// BookingStore is the part of booking persistence that runs inside the
	// write transaction.
	BookingStore interface {
		// ListActiveForStaff returns pending and confirmed bookings of the
		// staff member on date, skipping excludeID when set. Implementations
		// lock the returned rows.
		ListActiveForStaff(ctx context.Context, staffID model.StaffID, date string, excludeID *uuid.UUID) ([]*model.Booking, error)
		Create(ctx context.Context, b *model.Booking) error
		Update(ctx context.Context, b *model.Booking) error
		AppendEvent(ctx context.Context, evt *model.OutboxEvent) error
	}

	BookingRepository interface {
		BookingStore
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error)
		// ShopBookingsForDate returns the minimal projection of every
		// pending or confirmed booking of the shop on date.
		ShopBookingsForDate(ctx context.Context, shopID uuid.UUID, date string) ([]model.BusyBooking, error)
		RunInTx(ctx context.Context, fn func(BookingStore) error) error
	}

	OutboxRepository interface {
		// ClaimPending marks up to limit due events as processing and
		// returns them. Events stuck in processing longer than staleAfter
		// are claimed again.
		ClaimPending(ctx context.Context, limit int, staleAfter time.Duration) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkRetry(ctx context.Context, id uuid.UUID, errMsg string, retryAt time.Time) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
