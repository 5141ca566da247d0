package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository"
)

var bookingRowColumns = []string{
	"id", "shop_id", "service_id", "staff_id", "customer_name", "customer_phone", "customer_email",
	"booking_date", "booking_time", "duration", "price", "discount", "total", "status", "notes",
	"cancel_reason", "created_at", "updated_at",
}

func TestBookingRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	id, shopID, serviceID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(bookingRowColumns).
		AddRow(id.String(), shopID.String(), serviceID.String(), nil, "Mia", "5550101", "",
			"2025-06-02", "10:30", 60, 40.0, 5.0, 35.0, "pending", "", nil, now, now)
	mock.ExpectQuery("FROM bookings WHERE id = \\$1").WithArgs(id).WillReturnRows(rows)

	b, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, b.StaffID)
	assert.Equal(t, "10:30", b.BookingTime)
	assert.Equal(t, model.BookingStatusPending, b.Status)
	assert.Equal(t, 35.0, b.Total)

	mock.ExpectQuery("FROM bookings WHERE id").WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBookingRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery(`AND customer_phone = \$1 AND status = \$2 ORDER BY .* LIMIT \$3`).
		WithArgs("5550101", "confirmed", listLimit).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	bookings, err := repo.List(context.Background(), model.BookingFilter{
		CustomerPhone: "5550101",
		Status:        model.BookingStatusConfirmed,
	})
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
}

func TestBookingRepository_ShopBookingsForDate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	shopID := uuid.New()
	staffID := uuid.New()

	rows := sqlmock.NewRows([]string{"staff_id", "booking_time", "service_duration"}).
		AddRow(staffID.String(), "11:00:00", 60).
		AddRow(nil, "12:00:00", 30)
	mock.ExpectQuery("SELECT staff_id, booking_time::text").
		WithArgs(shopID, "2025-06-02", sqlmock.AnyArg()).
		WillReturnRows(rows)

	busy, err := repo.ShopBookingsForDate(context.Background(), shopID, "2025-06-02")
	require.NoError(t, err)
	require.Len(t, busy, 2)
	require.NotNil(t, busy[0].StaffID)
	assert.Equal(t, model.StaffID(staffID), *busy[0].StaffID)
	assert.Equal(t, "11:00:00", busy[0].BookingTime)
	assert.Nil(t, busy[1].StaffID)
}

func TestBookingRepository_RunInTx(t *testing.T) {
	staffID := model.StaffID(uuid.New())
	booking := &model.Booking{
		ShopID:      uuid.New(),
		ServiceID:   uuid.New(),
		StaffID:     &staffID,
		BookingDate: "2025-06-02",
		BookingTime: "10:00",
		Duration:    60,
		Status:      model.BookingStatusPending,
	}

	t.Run("commits guard, insert and event together", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("pg_advisory_xact_lock").
			WithArgs(staffID.String() + ":2025-06-02").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`FROM bookings\s+WHERE staff_id = \$1 AND booking_date = \$2 AND status = ANY\(\$3\) ORDER BY booking_time FOR UPDATE`).
			WithArgs(staffID, "2025-06-02", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns))
		mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO outbox_events").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.RunInTx(context.Background(), func(store repository.BookingStore) error {
			existing, err := store.ListActiveForStaff(context.Background(), staffID, "2025-06-02", nil)
			if err != nil {
				return err
			}
			assert.Empty(t, existing)
			if err := store.Create(context.Background(), booking); err != nil {
				return err
			}
			evt, err := model.NewBookingEvent(model.EventBookingCreated, booking)
			if err != nil {
				return err
			}
			return store.AppendEvent(context.Background(), evt)
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, booking.ID)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)
		exclude := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec("pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`AND id <> \$4`).
			WithArgs(staffID, "2025-06-02", sqlmock.AnyArg(), exclude).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns))
		mock.ExpectRollback()

		conflict := errors.New("conflict")
		err := repo.RunInTx(context.Background(), func(store repository.BookingStore) error {
			if _, err := store.ListActiveForStaff(context.Background(), staffID, "2025-06-02", &exclude); err != nil {
				return err
			}
			return conflict
		})
		assert.ErrorIs(t, err, conflict)
	})
}

func TestBookingRepository_UpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.Booking{ID: uuid.New(), Status: model.BookingStatusConfirmed})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
