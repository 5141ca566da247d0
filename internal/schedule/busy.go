package schedule

import (
	"fmt"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
)

// BusyIndex holds the occupied intervals of each staff member for one day.
type BusyIndex map[model.StaffID][]Interval

// BuildBusyIndex groups active bookings by staff. Unassigned bookings are
// skipped since they cannot block any specific person.
func BuildBusyIndex(rows []model.BusyBooking) (BusyIndex, error) {
	idx := make(BusyIndex)
	for _, r := range rows {
		if r.StaffID == nil {
			continue
		}
		iv, err := NewInterval(r.BookingTime, r.Duration)
		if err != nil {
			return nil, fmt.Errorf("booking for staff %s: %w", r.StaffID, err)
		}
		idx[*r.StaffID] = append(idx[*r.StaffID], iv)
	}
	return idx, nil
}

// Busy reports whether the staff member has any interval overlapping iv.
func (b BusyIndex) Busy(id model.StaffID, iv Interval) bool {
	for _, busy := range b[id] {
		if busy.Overlaps(iv) {
			return true
		}
	}
	return false
}
