package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/schedule"
	apperrors "github.com/shubhammalhotra1708/booking-app-sub000/pkg/errors"
)

const MsgSlotTaken = "Time slot is already booked"

// CheckConflict fails with a Conflict error when [start, start+duration)
// overlaps any pending or confirmed booking of staffID on date. excludeID
// skips the booking being rescheduled. It must run inside the write
// transaction so the rows it reads stay locked until commit.
func CheckConflict(ctx context.Context, store repository.BookingStore, staffID model.StaffID, date string, start string, duration int, excludeID *uuid.UUID) error {
	want, err := schedule.NewInterval(start, duration)
	if err != nil {
		return apperrors.Internal(err)
	}

	existing, err := store.ListActiveForStaff(ctx, staffID, date, excludeID)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("load staff bookings: %w", err))
	}

	for _, b := range existing {
		held, err := schedule.NewInterval(b.BookingTime, b.Duration)
		if err != nil {
			return apperrors.Internal(fmt.Errorf("booking %s: %w", b.ID, err))
		}
		if want.Overlaps(held) {
			return apperrors.Conflict(MsgSlotTaken, nil)
		}
	}
	return nil
}
