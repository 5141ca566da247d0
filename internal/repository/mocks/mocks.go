// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository"
)

type ShopRepository struct {
	mock.Mock
}

func (m *ShopRepository) Get(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shop), args.Error(1)
}

type ServiceRepository struct {
	mock.Mock
}

func (m *ServiceRepository) Get(ctx context.Context, id, shopID uuid.UUID) (*model.Service, error) {
	args := m.Called(ctx, id, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Service), args.Error(1)
}

type StaffRepository struct {
	mock.Mock
}

func (m *StaffRepository) Get(ctx context.Context, id model.StaffID, shopID uuid.UUID) (*model.Staff, error) {
	args := m.Called(ctx, id, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Staff), args.Error(1)
}

func (m *StaffRepository) ListActive(ctx context.Context, shopID uuid.UUID) ([]*model.Staff, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Staff), args.Error(1)
}

func (m *StaffRepository) ListActiveByIDs(ctx context.Context, shopID uuid.UUID, ids []model.StaffID) ([]*model.Staff, error) {
	args := m.Called(ctx, shopID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Staff), args.Error(1)
}

func (m *StaffRepository) ListMappingsByService(ctx context.Context, serviceID uuid.UUID) ([]*model.StaffService, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.StaffService), args.Error(1)
}

func (m *StaffRepository) HasMapping(ctx context.Context, staffID model.StaffID, serviceID uuid.UUID) (bool, error) {
	args := m.Called(ctx, staffID, serviceID)
	return args.Bool(0), args.Error(1)
}

// BookingRepository runs RunInTx callbacks against itself.
type BookingRepository struct {
	mock.Mock
}

func (m *BookingRepository) ListActiveForStaff(ctx context.Context, staffID model.StaffID, date string, excludeID *uuid.UUID) ([]*model.Booking, error) {
	args := m.Called(ctx, staffID, date, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Booking), args.Error(1)
}

func (m *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BookingRepository) Update(ctx context.Context, b *model.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BookingRepository) AppendEvent(ctx context.Context, evt *model.OutboxEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *BookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Booking), args.Error(1)
}

func (m *BookingRepository) ShopBookingsForDate(ctx context.Context, shopID uuid.UUID, date string) ([]model.BusyBooking, error) {
	args := m.Called(ctx, shopID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BusyBooking), args.Error(1)
}

func (m *BookingRepository) RunInTx(ctx context.Context, fn func(repository.BookingStore) error) error {
	return fn(m)
}

type OutboxRepository struct {
	mock.Mock
}

func (m *OutboxRepository) ClaimPending(ctx context.Context, limit int, staleAfter time.Duration) ([]*model.OutboxEvent, error) {
	args := m.Called(ctx, limit, staleAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.OutboxEvent), args.Error(1)
}

func (m *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *OutboxRepository) MarkRetry(ctx context.Context, id uuid.UUID, errMsg string, retryAt time.Time) error {
	return m.Called(ctx, id, errMsg, retryAt).Error(0)
}

func (m *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return m.Called(ctx, id, errMsg).Error(0)
}

func (m *OutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}
