package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// ActiveBookingStatuses are the statuses that occupy a staff member's time.
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted,
		BookingStatusCancelled, BookingStatusRejected, BookingStatusNoShow:
		return true
	}
	return false
}

// Active reports whether a booking in this status blocks its time slot.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// Final reports whether the booking can no longer be modified.
func (s BookingStatus) Final() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

type Booking struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	ShopID        uuid.UUID     `db:"shop_id" json:"shop_id"`
	ServiceID     uuid.UUID     `db:"service_id" json:"service_id"`
	StaffID       *StaffID      `db:"staff_id" json:"staff_id"`
	CustomerName  string        `db:"customer_name" json:"customer_name"`
	CustomerPhone string        `db:"customer_phone" json:"customer_phone"`
	CustomerEmail string        `db:"customer_email" json:"customer_email,omitempty"`
	BookingDate   string        `db:"booking_date" json:"booking_date"`
	BookingTime   string        `db:"booking_time" json:"booking_time"`
	Duration      int           `db:"duration" json:"duration"`
	Price         float64       `db:"price" json:"price"`
	Discount      float64       `db:"discount" json:"discount"`
	Total         float64       `db:"total" json:"total"`
	Status        BookingStatus `db:"status" json:"status"`
	Notes         string        `db:"notes" json:"notes,omitempty"`
	CancelReason  *string       `db:"cancel_reason" json:"cancel_reason,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// BusyBooking is the minimal projection of a non-terminal booking used to
// build busy intervals. It carries no customer data.
type BusyBooking struct {
	StaffID     *StaffID `db:"staff_id"`
	BookingTime string   `db:"booking_time"`
	Duration    int      `db:"service_duration"`
}

type CreateBookingRequest struct {
	ShopID        string  `json:"shop_id" binding:"required,uuid"`
	ServiceID     string  `json:"service_id" binding:"required,uuid"`
	StaffID       string  `json:"staff_id" binding:"omitempty,uuid"`
	CustomerName  string  `json:"customer_name" binding:"required,max=100"`
	CustomerPhone string  `json:"customer_phone" binding:"required,min=6,max=20"`
	CustomerEmail string  `json:"customer_email" binding:"omitempty,email"`
	BookingDate   string  `json:"booking_date" binding:"required,isodate"`
	BookingTime   string  `json:"booking_time" binding:"required,hhmm"`
	Discount      float64 `json:"discount" binding:"gte=0"`
	Notes         string  `json:"notes" binding:"max=1000"`
}

type UpdateBookingRequest struct {
	BookingID    string         `json:"booking_id" binding:"omitempty,uuid"`
	StaffID      *string        `json:"staff_id" binding:"omitempty,uuid|len=0"`
	BookingDate  *string        `json:"booking_date" binding:"omitempty,isodate"`
	BookingTime  *string        `json:"booking_time" binding:"omitempty,hhmm"`
	Status       *BookingStatus `json:"status" binding:"omitempty,oneof=pending confirmed completed cancelled rejected no_show"`
	Notes        *string        `json:"notes" binding:"omitempty,max=1000"`
	CancelReason *string        `json:"cancel_reason" binding:"omitempty,max=500"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// BookingFilter selects bookings for lookup. At least one of the fields
// must be set.
type BookingFilter struct {
	ShopID        *uuid.UUID
	CustomerPhone string
	CustomerEmail string
	Status        BookingStatus
	Date          string
}

func (f BookingFilter) Empty() bool {
	return f.ShopID == nil && f.CustomerPhone == "" && f.CustomerEmail == ""
}
