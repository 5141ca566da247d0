package schedule

import (
	"errors"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
)

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBlocked   SlotStatus = "blocked"

	ReasonStaffBooked = "staff booked"
)

var ErrInvalidDuration = errors.New("service duration must be positive")

type BlockedStaff struct {
	ID     model.StaffID `json:"id"`
	Name   string        `json:"name"`
	Reason string        `json:"reason"`
}

type Slot struct {
	Time           string           `json:"time"`
	EndTime        string           `json:"endTime"`
	Duration       int              `json:"duration"`
	AvailableStaff []model.StaffRef `json:"availableStaff"`
	BlockedStaff   []BlockedStaff   `json:"blockedStaff"`
	IsAvailable    bool             `json:"isAvailable"`
	Status         SlotStatus       `json:"status"`

	start int
}

// Start returns the slot start in minutes since midnight.
func (s Slot) Start() int { return s.start }

// Params are the inputs of Generate. Open and Close are "HH:MM".
type Params struct {
	Open     string
	Close    string
	Duration int
	Cadence  int
	Roster   []model.StaffRef
	Busy     BusyIndex
}

// Generate lays candidate starts every Cadence minutes from Open while the
// service still fits before Close and classifies each roster member per slot.
// Blocked slots are part of the output.
func Generate(p Params) ([]Slot, error) {
	if p.Duration <= 0 {
		return nil, ErrInvalidDuration
	}
	cadence := p.Cadence
	if cadence <= 0 {
		cadence = SlotCadence
	}
	open, err := ParseMinutes(Normalize(p.Open))
	if err != nil {
		return nil, err
	}
	closing, err := ParseMinutes(Normalize(p.Close))
	if err != nil {
		return nil, err
	}

	slots := make([]Slot, 0)
	for t := open; t <= closing-p.Duration; t += cadence {
		iv := Interval{Start: t, End: t + p.Duration}
		slot := Slot{
			Time:           FormatMinutes(t),
			EndTime:        FormatMinutes(iv.End),
			Duration:       p.Duration,
			AvailableStaff: make([]model.StaffRef, 0, len(p.Roster)),
			BlockedStaff:   make([]BlockedStaff, 0),
			start:          t,
		}
		for _, st := range p.Roster {
			if p.Busy.Busy(st.ID, iv) {
				slot.BlockedStaff = append(slot.BlockedStaff, BlockedStaff{ID: st.ID, Name: st.Name, Reason: ReasonStaffBooked})
				continue
			}
			slot.AvailableStaff = append(slot.AvailableStaff, st)
		}
		slot.refresh()
		slots = append(slots, slot)
	}
	return slots, nil
}

func (s *Slot) refresh() {
	s.IsAvailable = len(s.AvailableStaff) > 0
	if s.IsAvailable {
		s.Status = SlotAvailable
	} else {
		s.Status = SlotBlocked
	}
}

// Narrow returns a copy of the slot restricted to a single staff member.
func (s Slot) Narrow(id model.StaffID) Slot {
	out := s
	out.AvailableStaff = make([]model.StaffRef, 0, 1)
	out.BlockedStaff = make([]BlockedStaff, 0, 1)
	for _, st := range s.AvailableStaff {
		if st.ID == id {
			out.AvailableStaff = append(out.AvailableStaff, st)
		}
	}
	for _, st := range s.BlockedStaff {
		if st.ID == id {
			out.BlockedStaff = append(out.BlockedStaff, st)
		}
	}
	out.refresh()
	return out
}

// Partition splits slots into available and blocked, keeping order.
func Partition(slots []Slot) (available, blocked []Slot) {
	available = make([]Slot, 0, len(slots))
	blocked = make([]Slot, 0)
	for _, s := range slots {
		if s.IsAvailable {
			available = append(available, s)
		} else {
			blocked = append(blocked, s)
		}
	}
	return available, blocked
}
