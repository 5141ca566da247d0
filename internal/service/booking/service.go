package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/lock"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/schedule"
	apperrors "github.com/shubhammalhotra1708/booking-app-sub000/pkg/errors"
	"github.com/shubhammalhotra1708/booking-app-sub000/pkg/metrics"
)

const (
	MsgLockBusy    = "Another booking for this staff member is in progress, please retry"
	MsgEmptyFilter = "At least one of shop_id, booking_id, customer_phone or customer_email is required"
)

type Service struct {
	shops    repository.ShopRepository
	services repository.ServiceRepository
	staff    repository.StaffRepository
	bookings repository.BookingRepository
	locker   lock.Locker
	logger   *zerolog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(
	shops repository.ShopRepository,
	services repository.ServiceRepository,
	staff repository.StaffRepository,
	bookings repository.BookingRepository,
	locker lock.Locker,
	logger *zerolog.Logger,
	m *metrics.Metrics,
) *Service {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{
		shops:    shops,
		services: services,
		staff:    staff,
		bookings: bookings,
		locker:   locker,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock used to reject past bookings.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	shopID, serviceID, staffID, err := parseCreateIDs(req)
	if err != nil {
		return nil, err
	}
	start, err := s.validateSchedule(req.BookingDate, req.BookingTime)
	if err != nil {
		return nil, err
	}

	shop, err := s.shops.Get(ctx, shopID)
	if err != nil {
		return nil, s.lookupError("Shop", err)
	}
	if !shop.IsActive {
		return nil, apperrors.ShopInactive()
	}

	svc, err := s.services.Get(ctx, serviceID, shopID)
	if err != nil {
		return nil, s.lookupError("Service", err)
	}
	if !svc.IsActive {
		return nil, apperrors.NotFound("Service", nil)
	}

	details := map[string]string{}
	if start+svc.Duration > schedule.MinutesPerDay {
		details["booking_time"] = "service must finish by midnight"
	}
	if req.Discount > svc.Price {
		details["discount"] = "must not exceed the service price"
	}
	if len(details) > 0 {
		return nil, apperrors.Validation("Validation failed", details)
	}

	if staffID != nil {
		if err := s.checkStaff(ctx, *staffID, shopID, serviceID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	b := &model.Booking{
		ID:            uuid.New(),
		ShopID:        shopID,
		ServiceID:     serviceID,
		StaffID:       staffID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		BookingDate:   req.BookingDate,
		BookingTime:   schedule.FormatMinutes(start),
		Duration:      svc.Duration,
		Price:         svc.Price,
		Discount:      req.Discount,
		Total:         svc.Price - req.Discount,
		Status:        model.BookingStatusPending,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.write(ctx, "create", staffID, b.BookingDate, func(store repository.BookingStore) error {
		if b.StaffID != nil {
			if err := CheckConflict(ctx, store, *b.StaffID, b.BookingDate, b.BookingTime, b.Duration, nil); err != nil {
				return err
			}
		}
		if err := store.Create(ctx, b); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		return appendEvent(ctx, store, model.EventBookingCreated, b)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("booking_id", b.ID.String()).
		Str("shop_id", b.ShopID.String()).
		Str("date", b.BookingDate).
		Str("time", b.BookingTime).
		Msg("booking created")
	return b, nil
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, s.lookupError("Booking", err)
	}
	return b, nil
}

// ListBookings returns bookings matching filter, newest first.
func (s *Service) ListBookings(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	if filter.Empty() {
		return nil, apperrors.Validation(MsgEmptyFilter, nil)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Validation("Validation failed", map[string]string{"status": "is not a known booking status"})
	}
	list, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("list bookings: %w", err))
	}
	if list == nil {
		list = []*model.Booking{}
	}
	return list, nil
}

// UpdateBooking applies the set fields of req. Moving the booking to another
// staff member, date or time, or reactivating it, re-runs the conflict guard
// against every other booking of the staff member that day.
func (s *Service) UpdateBooking(ctx context.Context, id uuid.UUID, req *model.UpdateBookingRequest) (*model.Booking, error) {
	current, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, s.lookupError("Booking", err)
	}
	if current.Status.Final() {
		return nil, apperrors.Immutable(string(current.Status))
	}

	next := *current
	moved := false

	if req.StaffID != nil {
		staffID, err := s.resolveStaff(ctx, *req.StaffID, current)
		if err != nil {
			return nil, err
		}
		if !sameStaff(staffID, current.StaffID) {
			next.StaffID = staffID
			moved = true
		}
	}
	if req.BookingDate != nil && *req.BookingDate != current.BookingDate {
		next.BookingDate = *req.BookingDate
		moved = true
	}
	if req.BookingTime != nil && schedule.Normalize(*req.BookingTime) != schedule.Normalize(current.BookingTime) {
		next.BookingTime = schedule.Normalize(*req.BookingTime)
		moved = true
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperrors.Validation("Validation failed", map[string]string{"status": "is not a known booking status"})
		}
		next.Status = *req.Status
	}
	if req.Notes != nil {
		next.Notes = *req.Notes
	}
	if req.CancelReason != nil {
		reason := *req.CancelReason
		next.CancelReason = &reason
	}

	if req.BookingDate != nil || req.BookingTime != nil {
		start, err := s.validateSchedule(next.BookingDate, next.BookingTime)
		if err != nil {
			return nil, err
		}
		if start+next.Duration > schedule.MinutesPerDay {
			return nil, apperrors.Validation("Validation failed", map[string]string{"booking_time": "service must finish by midnight"})
		}
	}

	reactivated := !current.Status.Active() && next.Status.Active()
	guarded := (moved || reactivated) && next.Status.Active() && next.StaffID != nil

	var lockStaff *model.StaffID
	if guarded {
		lockStaff = next.StaffID
	}

	eventType := model.EventBookingUpdated
	if next.Status == model.BookingStatusCancelled {
		eventType = model.EventBookingCancelled
	}
	next.UpdatedAt = s.now()

	err = s.write(ctx, "update", lockStaff, next.BookingDate, func(store repository.BookingStore) error {
		if guarded {
			if err := CheckConflict(ctx, store, *next.StaffID, next.BookingDate, next.BookingTime, next.Duration, &next.ID); err != nil {
				return err
			}
		}
		if err := store.Update(ctx, &next); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		return appendEvent(ctx, store, eventType, &next)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("booking_id", next.ID.String()).
		Str("status", string(next.Status)).
		Bool("rescheduled", moved).
		Msg("booking updated")
	return &next, nil
}

// CancelBooking moves the booking to cancelled. Bookings are never deleted.
func (s *Service) CancelBooking(ctx context.Context, id uuid.UUID, reason string) (*model.Booking, error) {
	status := model.BookingStatusCancelled
	req := &model.UpdateBookingRequest{Status: &status}
	if reason = strings.TrimSpace(reason); reason != "" {
		req.CancelReason = &reason
	}
	return s.UpdateBooking(ctx, id, req)
}

// write runs fn in one transaction. When staffID is set the per-staff, per-day
// lock is held around the transaction.
func (s *Service) write(ctx context.Context, op string, staffID *model.StaffID, date string, fn func(repository.BookingStore) error) error {
	if staffID != nil {
		started := time.Now()
		release, err := s.locker.Acquire(ctx, lock.StaffDayKey(*staffID, date))
		s.metrics.ObserveLockWait(time.Since(started))
		if err != nil {
			if errors.Is(err, lock.ErrLockBusy) {
				s.metrics.BookingWrite(op, "lock_busy")
				return apperrors.Conflict(MsgLockBusy, err)
			}
			s.metrics.BookingWrite(op, "error")
			return apperrors.Internal(fmt.Errorf("acquire schedule lock: %w", err))
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn().Err(err).Str("staff_id", staffID.String()).Str("date", date).Msg("failed to release schedule lock")
			}
		}()
	}

	err := s.bookings.RunInTx(ctx, fn)
	switch {
	case err == nil:
		s.metrics.BookingWrite(op, "ok")
		return nil
	case apperrors.HasCode(err, apperrors.ErrConflict):
		s.metrics.BookingWrite(op, "conflict")
		return err
	}

	s.metrics.BookingWrite(op, "error")
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.Internal(err)
}

func appendEvent(ctx context.Context, store repository.BookingStore, eventType string, b *model.Booking) error {
	evt, err := model.NewBookingEvent(eventType, b)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}
	if err := store.AppendEvent(ctx, evt); err != nil {
		return fmt.Errorf("append %s event: %w", eventType, err)
	}
	return nil
}

// validateSchedule checks date and time are well formed and not in the past.
// It returns the start in minutes since midnight.
func (s *Service) validateSchedule(date, at string) (int, error) {
	details := map[string]string{}
	day, err := schedule.ParseDate(date)
	if err != nil {
		details["booking_date"] = "must be a date in YYYY-MM-DD format"
	}
	start, err := schedule.ParseMinutes(schedule.Normalize(at))
	if err != nil {
		details["booking_time"] = "must be a time in HH:MM format"
	}
	if len(details) > 0 {
		return 0, apperrors.Validation("Validation failed", details)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case day.Before(today):
		details["booking_date"] = "must not be in the past"
	case day.Equal(today) && schedule.IsPastBuffered(start, now, 0):
		details["booking_time"] = "must not be in the past"
	}
	if len(details) > 0 {
		return 0, apperrors.Validation("Validation failed", details)
	}
	return start, nil
}

// checkStaff requires an active staff member of the shop who is eligible for the service.
func (s *Service) checkStaff(ctx context.Context, staffID model.StaffID, shopID, serviceID uuid.UUID) error {
	st, err := s.staff.Get(ctx, staffID, shopID)
	if err != nil {
		return s.lookupError("Staff", err)
	}
	if !st.IsActive {
		return apperrors.NotFound("Staff", nil)
	}
	mappings, err := s.staff.ListMappingsByService(ctx, serviceID)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("list staff mappings: %w", err))
	}
	if !schedule.ResolveEligibility(mappings).Allows(staffID) {
		return apperrors.StaffCannotPerformService()
	}
	return nil
}

// resolveStaff parses the requested staff id. An empty string unassigns.
func (s *Service) resolveStaff(ctx context.Context, raw string, b *model.Booking) (*model.StaffID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := model.ParseStaffID(raw)
	if err != nil {
		return nil, apperrors.Validation("Validation failed", map[string]string{"staff_id": "must be a valid UUID"})
	}
	if sameStaff(&id, b.StaffID) {
		return &id, nil
	}
	if err := s.checkStaff(ctx, id, b.ShopID, b.ServiceID); err != nil {
		return nil, err
	}
	return &id, nil
}

func sameStaff(a, b *model.StaffID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func parseCreateIDs(req *model.CreateBookingRequest) (shopID, serviceID uuid.UUID, staffID *model.StaffID, err error) {
	details := map[string]string{}
	if shopID, err = uuid.Parse(req.ShopID); err != nil {
		details["shop_id"] = "must be a valid UUID"
	}
	if serviceID, err = uuid.Parse(req.ServiceID); err != nil {
		details["service_id"] = "must be a valid UUID"
	}
	if req.StaffID != "" {
		id, perr := model.ParseStaffID(req.StaffID)
		if perr != nil {
			details["staff_id"] = "must be a valid UUID"
		} else {
			staffID = &id
		}
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		details["customer_name"] = "is required"
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		details["customer_phone"] = "is required"
	}
	if req.Discount < 0 {
		details["discount"] = "must not be negative"
	}
	if len(details) > 0 {
		return uuid.Nil, uuid.Nil, nil, apperrors.Validation("Validation failed", details)
	}
	return shopID, serviceID, staffID, nil
}

func (s *Service) lookupError(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Debug().Err(err).Str("resource", resource).Msg("lookup returned no rows")
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Internal(fmt.Errorf("get %s: %w", strings.ToLower(resource), err))
}
