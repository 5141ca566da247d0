package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository"
)

type shopRepository struct {
	db *sqlx.DB
}

type serviceRepository struct {
	db *sqlx.DB
}

type staffRepository struct {
	db *sqlx.DB
}

type bookingRepository struct {
	BaseRepository
	bookingStore
}

type outboxRepository struct {
	BaseRepository
}

func NewShopRepository(db *sqlx.DB) repository.ShopRepository {
	return &shopRepository{db: db}
}

func NewServiceRepository(db *sqlx.DB) repository.ServiceRepository {
	return &serviceRepository{db: db}
}

func NewStaffRepository(db *sqlx.DB) repository.StaffRepository {
	return &staffRepository{db: db}
}

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{
		BaseRepository: NewBaseRepository(db),
		bookingStore:   bookingStore{ext: db},
	}
}

func NewOutboxRepository(base BaseRepository) repository.OutboxRepository {
	return &outboxRepository{base}
}
