package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/schedule"
	apperrors "github.com/shubhammalhotra1708/booking-app-sub000/pkg/errors"
	"github.com/shubhammalhotra1708/booking-app-sub000/pkg/metrics"
)

const (
	MsgRetrieved = "Availability retrieved successfully"
	MsgClosed    = "Shop is closed on this day"
	MsgNoStaff   = "No staff available for this service"
)

type Query struct {
	ShopID    uuid.UUID
	ServiceID uuid.UUID
	Date      string
	StaffID   *model.StaffID
}

type ServiceInfo struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Duration int       `json:"duration"`
	Price    float64   `json:"price"`
}

type ShopInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Summary struct {
	TotalSlots     int `json:"totalSlots"`
	AvailableSlots int `json:"availableSlots"`
	BlockedSlots   int `json:"blockedSlots"`
	StaffCount     int `json:"staffCount"`
}

// Result is advisory: the booking write path re-checks conflicts at commit.
type Result struct {
	Date           string          `json:"date"`
	Day            string          `json:"day"`
	Service        ServiceInfo     `json:"service"`
	Shop           ShopInfo        `json:"shop"`
	Staff          *model.StaffRef `json:"staff"`
	AllSlots       []schedule.Slot `json:"allSlots"`
	AvailableSlots []schedule.Slot `json:"availableSlots"`
	BlockedSlots   []schedule.Slot `json:"blockedSlots"`
	Summary        Summary         `json:"summary"`

	Message string `json:"-"`
}

type Service struct {
	shops    repository.ShopRepository
	services repository.ServiceRepository
	staff    repository.StaffRepository
	bookings repository.BookingRepository
	logger   *zerolog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(
	shops repository.ShopRepository,
	services repository.ServiceRepository,
	staff repository.StaffRepository,
	bookings repository.BookingRepository,
	logger *zerolog.Logger,
	m *metrics.Metrics,
) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{
		shops:    shops,
		services: services,
		staff:    staff,
		bookings: bookings,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock used for same-day filtering.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) GetAvailability(ctx context.Context, q Query) (*Result, error) {
	date, err := schedule.ParseDate(q.Date)
	if err != nil {
		return nil, apperrors.Validation("Validation failed", map[string]string{"date": "must be a date in YYYY-MM-DD format"})
	}

	svc, err := s.services.Get(ctx, q.ServiceID, q.ShopID)
	if err != nil {
		return nil, s.lookupError("Service", err)
	}
	if !svc.IsActive {
		return nil, apperrors.NotFound("Service", nil)
	}

	shop, err := s.shops.Get(ctx, q.ShopID)
	if err != nil {
		return nil, s.lookupError("Shop", err)
	}
	if !shop.IsActive {
		return nil, apperrors.NotFound("Shop", nil)
	}

	res := &Result{
		Date:           q.Date,
		Day:            strings.ToLower(date.Weekday().String()),
		Service:        ServiceInfo{ID: svc.ID, Name: svc.Name, Duration: svc.Duration, Price: svc.Price},
		Shop:           ShopInfo{ID: shop.ID, Name: shop.Name},
		AllSlots:       []schedule.Slot{},
		AvailableSlots: []schedule.Slot{},
		BlockedSlots:   []schedule.Slot{},
		Message:        MsgRetrieved,
	}

	hours, open := shop.OperatingHours.For(date.Weekday())
	if !open {
		res.Message = MsgClosed
		s.metrics.AvailabilityQuery("closed", 0)
		return res, nil
	}

	roster, err := s.roster(ctx, shop.ID, svc.ID, q.StaffID)
	if err != nil {
		return nil, err
	}
	if q.StaffID != nil {
		ref := roster[0]
		res.Staff = &ref
	}
	res.Summary.StaffCount = len(roster)
	if len(roster) == 0 {
		res.Message = MsgNoStaff
		s.metrics.AvailabilityQuery("no_staff", 0)
		return res, nil
	}

	rows, err := s.bookings.ShopBookingsForDate(ctx, shop.ID, q.Date)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("load shop bookings: %w", err))
	}
	busy, err := schedule.BuildBusyIndex(rows)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	slots, err := schedule.Generate(schedule.Params{
		Open:     hours.Open,
		Close:    hours.Close,
		Duration: svc.Duration,
		Roster:   roster,
		Busy:     busy,
	})
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generate slots: %w", err))
	}

	if now := s.now(); schedule.SameDate(date, now) {
		upcoming := slots[:0]
		for _, slot := range slots {
			if !schedule.IsPastBuffered(slot.Start(), now, schedule.LeadBuffer) {
				upcoming = append(upcoming, slot)
			}
		}
		slots = upcoming
	}

	if q.StaffID != nil {
		for i := range slots {
			slots[i] = slots[i].Narrow(*q.StaffID)
		}
	}

	available, blocked := schedule.Partition(slots)
	res.AllSlots = slots
	res.AvailableSlots = available
	res.BlockedSlots = blocked
	res.Summary.TotalSlots = len(slots)
	res.Summary.AvailableSlots = len(available)
	res.Summary.BlockedSlots = len(blocked)

	if res.Staff != nil && len(available) == 0 {
		res.Message = fmt.Sprintf("%s is fully booked on this day", res.Staff.Name)
	}

	s.metrics.AvailabilityQuery("ok", len(slots))
	s.logger.Debug().
		Str("shop_id", shop.ID.String()).
		Str("service_id", svc.ID.String()).
		Str("date", q.Date).
		Int("slots", len(slots)).
		Int("available", len(available)).
		Msg("availability computed")

	return res, nil
}

// roster resolves the staff that may take the service, in display order.
func (s *Service) roster(ctx context.Context, shopID, serviceID uuid.UUID, staffID *model.StaffID) ([]model.StaffRef, error) {
	if staffID != nil {
		st, err := s.staff.Get(ctx, *staffID, shopID)
		if err != nil {
			return nil, s.lookupError("Staff", err)
		}
		if !st.IsActive {
			return nil, apperrors.NotFound("Staff", nil)
		}
		ok, err := s.staff.HasMapping(ctx, st.ID, serviceID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if !ok {
			return nil, apperrors.StaffCannotPerformService()
		}
		return []model.StaffRef{st.Ref()}, nil
	}

	mappings, err := s.staff.ListMappingsByService(ctx, serviceID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	var members []*model.Staff
	if e := schedule.ResolveEligibility(mappings); e.Restricted {
		members, err = s.staff.ListActiveByIDs(ctx, shopID, e.StaffIDs)
	} else {
		members, err = s.staff.ListActive(ctx, shopID)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	roster := make([]model.StaffRef, 0, len(members))
	for _, m := range members {
		roster = append(roster, m.Ref())
	}
	return roster, nil
}

func (s *Service) lookupError(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Debug().Err(err).Str("resource", resource).Msg("lookup returned no rows")
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Internal(fmt.Errorf("get %s: %w", strings.ToLower(resource), err))
}
