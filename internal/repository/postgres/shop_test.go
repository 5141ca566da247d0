package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository"
)

func TestShopRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewShopRepository(db)
	id := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "name", "address", "phone", "operating_hours", "is_active", "created_at", "updated_at"}).
		AddRow(id.String(), "Studio One", "1 High St", "555-0100",
			[]byte(`{"monday":{"open":"09:00","close":"17:00"},"sunday":null}`), true, now, now)
	mock.ExpectQuery("FROM shops").WithArgs(id).WillReturnRows(rows)

	shop, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, shop.ID)
	assert.True(t, shop.IsActive)

	hours, ok := shop.OperatingHours.For(time.Monday)
	require.True(t, ok)
	assert.Equal(t, "09:00", hours.Open)
	assert.Equal(t, "17:00", hours.Close)

	_, ok = shop.OperatingHours.For(time.Sunday)
	assert.False(t, ok)
	_, ok = shop.OperatingHours.For(time.Tuesday)
	assert.False(t, ok)
}

func TestShopRepository_GetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewShopRepository(db)

	mock.ExpectQuery("FROM shops").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestServiceRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewServiceRepository(db)
	id, shopID := uuid.New(), uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "shop_id", "name", "description", "duration", "price", "is_active", "created_at", "updated_at"}).
		AddRow(id.String(), shopID.String(), "Haircut", "", 45, 30.0, true, now, now)
	mock.ExpectQuery("FROM services").WithArgs(id, shopID).WillReturnRows(rows)

	svc, err := repo.Get(context.Background(), id, shopID)
	require.NoError(t, err)
	assert.Equal(t, 45, svc.Duration)
	assert.Equal(t, shopID, svc.ShopID)

	mock.ExpectQuery("FROM services").WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(context.Background(), id, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
