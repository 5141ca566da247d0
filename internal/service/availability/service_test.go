package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository/mocks"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/schedule"
	apperrors "github.com/shubhammalhotra1708/booking-app-sub000/pkg/errors"
)

// 2025-06-02 is a Monday.
const monday = "2025-06-02"

type fixture struct {
	shops    *mocks.ShopRepository
	services *mocks.ServiceRepository
	staff    *mocks.StaffRepository
	bookings *mocks.BookingRepository
	svc      *Service

	shop    *model.Shop
	service *model.Service
	asha    *model.Staff
	ravi    *model.Staff
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	f := &fixture{
		shops:    new(mocks.ShopRepository),
		services: new(mocks.ServiceRepository),
		staff:    new(mocks.StaffRepository),
		bookings: new(mocks.BookingRepository),
	}
	shopID := uuid.New()
	f.shop = &model.Shop{
		Base:     model.Base{ID: shopID},
		Name:     "Studio One",
		IsActive: true,
		OperatingHours: model.OperatingHours{
			"monday":  {Open: "10:00", Close: "18:00"},
			"tuesday": {Open: "09:00", Close: "12:00"},
		},
	}
	f.service = &model.Service{Base: model.Base{ID: uuid.New()}, ShopID: shopID, Name: "Cut", Duration: 60, Price: 40, IsActive: true}
	f.asha = &model.Staff{ID: model.StaffID(uuid.New()), ShopID: shopID, Name: "Asha", IsActive: true}
	f.ravi = &model.Staff{ID: model.StaffID(uuid.New()), ShopID: shopID, Name: "Ravi", IsActive: true}

	logger := zerolog.Nop()
	f.svc = NewService(f.shops, f.services, f.staff, f.bookings, &logger, nil).
		WithClock(func() time.Time { return now })
	t.Cleanup(func() {
		f.shops.AssertExpectations(t)
		f.services.AssertExpectations(t)
		f.staff.AssertExpectations(t)
		f.bookings.AssertExpectations(t)
	})
	return f
}

func (f *fixture) query(date string, staffID *model.StaffID) Query {
	return Query{ShopID: f.shop.ID, ServiceID: f.service.ID, Date: date, StaffID: staffID}
}

func (f *fixture) expectMetadata() {
	f.services.On("Get", mock.Anything, f.service.ID, f.shop.ID).Return(f.service, nil)
	f.shops.On("Get", mock.Anything, f.shop.ID).Return(f.shop, nil)
}

func sunday() time.Time {
	return time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)
}

func slotByTime(slots []schedule.Slot, at string) schedule.Slot {
	for _, s := range slots {
		if s.Time == at {
			return s
		}
	}
	return schedule.Slot{}
}

func TestGetAvailability_AllStaff(t *testing.T) {
	f := newFixture(t, sunday())
	f.expectMetadata()
	f.staff.On("ListMappingsByService", mock.Anything, f.service.ID).Return([]*model.StaffService{}, nil)
	f.staff.On("ListActive", mock.Anything, f.shop.ID).Return([]*model.Staff{f.asha, f.ravi}, nil)
	f.bookings.On("ShopBookingsForDate", mock.Anything, f.shop.ID, monday).Return([]model.BusyBooking{
		{StaffID: &f.asha.ID, BookingTime: "11:00:00", Duration: 60},
		{StaffID: nil, BookingTime: "12:00:00", Duration: 60},
	}, nil)

	res, err := f.svc.GetAvailability(context.Background(), f.query(monday, nil))
	require.NoError(t, err)

	assert.Equal(t, "monday", res.Day)
	assert.Equal(t, MsgRetrieved, res.Message)
	assert.Nil(t, res.Staff)
	require.Len(t, res.AllSlots, 15)
	assert.Equal(t, 15, res.Summary.TotalSlots)
	assert.Equal(t, 15, res.Summary.AvailableSlots, "ravi keeps every slot open")
	assert.Equal(t, 2, res.Summary.StaffCount)

	assert.Len(t, slotByTime(res.AllSlots, "10:00").AvailableStaff, 2)
	assert.Len(t, slotByTime(res.AllSlots, "10:30").BlockedStaff, 1)
	assert.Len(t, slotByTime(res.AllSlots, "11:00").BlockedStaff, 1)
	assert.Empty(t, slotByTime(res.AllSlots, "12:00").BlockedStaff)
}

func TestGetAvailability_SingleStaffView(t *testing.T) {
	f := newFixture(t, sunday())
	f.expectMetadata()
	f.staff.On("Get", mock.Anything, f.asha.ID, f.shop.ID).Return(f.asha, nil)
	f.staff.On("HasMapping", mock.Anything, f.asha.ID, f.service.ID).Return(true, nil)
	f.bookings.On("ShopBookingsForDate", mock.Anything, f.shop.ID, monday).Return([]model.BusyBooking{
		{StaffID: &f.asha.ID, BookingTime: "11:00", Duration: 60},
	}, nil)

	res, err := f.svc.GetAvailability(context.Background(), f.query(monday, &f.asha.ID))
	require.NoError(t, err)

	require.NotNil(t, res.Staff)
	assert.Equal(t, "Asha", res.Staff.Name)
	assert.Equal(t, 15, res.Summary.TotalSlots)
	assert.Equal(t, 3, res.Summary.BlockedSlots)
	assert.Equal(t, 12, res.Summary.AvailableSlots)

	assert.True(t, slotByTime(res.AllSlots, "10:00").IsAvailable)
	for _, at := range []string{"10:30", "11:00", "11:30"} {
		s := slotByTime(res.AllSlots, at)
		assert.False(t, s.IsAvailable, at)
		assert.Equal(t, schedule.SlotBlocked, s.Status, at)
	}
	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, []string{res.BlockedSlots[0].Time, res.BlockedSlots[1].Time, res.BlockedSlots[2].Time})
}

func TestGetAvailability_FullyBookedStaff(t *testing.T) {
	f := newFixture(t, sunday())
	f.expectMetadata()
	f.staff.On("Get", mock.Anything, f.asha.ID, f.shop.ID).Return(f.asha, nil)
	f.staff.On("HasMapping", mock.Anything, f.asha.ID, f.service.ID).Return(true, nil)
	f.bookings.On("ShopBookingsForDate", mock.Anything, f.shop.ID, monday).Return([]model.BusyBooking{
		{StaffID: &f.asha.ID, BookingTime: "10:00", Duration: 480},
	}, nil)

	res, err := f.svc.GetAvailability(context.Background(), f.query(monday, &f.asha.ID))
	require.NoError(t, err)
	assert.Equal(t, "Asha is fully booked on this day", res.Message)
	assert.Empty(t, res.AvailableSlots)
	assert.Len(t, res.BlockedSlots, 15)
}

func TestGetAvailability_RestrictedRoster(t *testing.T) {
	f := newFixture(t, sunday())
	f.expectMetadata()
	f.staff.On("ListMappingsByService", mock.Anything, f.service.ID).Return([]*model.StaffService{
		{StaffID: f.ravi.ID, ServiceID: f.service.ID},
	}, nil)
	f.staff.On("ListActiveByIDs", mock.Anything, f.shop.ID, []model.StaffID{f.ravi.ID}).Return([]*model.Staff{f.ravi}, nil)
	f.bookings.On("ShopBookingsForDate", mock.Anything, f.shop.ID, monday).Return([]model.BusyBooking{}, nil)

	res, err := f.svc.GetAvailability(context.Background(), f.query(monday, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.StaffCount)
	for _, s := range res.AllSlots {
		assert.Equal(t, []model.StaffRef{f.ravi.Ref()}, s.AvailableStaff)
	}
}

func TestGetAvailability_EmptyResults(t *testing.T) {
	t.Run("closed day", func(t *testing.T) {
		f := newFixture(t, sunday())
		f.expectMetadata()

		res, err := f.svc.GetAvailability(context.Background(), f.query("2025-06-04", nil))
		require.NoError(t, err)
		assert.Equal(t, MsgClosed, res.Message)
		assert.Equal(t, "wednesday", res.Day)
		assert.NotNil(t, res.AllSlots)
		assert.Empty(t, res.AllSlots)
	})

	t.Run("no eligible staff", func(t *testing.T) {
		f := newFixture(t, sunday())
		f.expectMetadata()
		f.staff.On("ListMappingsByService", mock.Anything, f.service.ID).Return([]*model.StaffService{}, nil)
		f.staff.On("ListActive", mock.Anything, f.shop.ID).Return([]*model.Staff{}, nil)

		res, err := f.svc.GetAvailability(context.Background(), f.query(monday, nil))
		require.NoError(t, err)
		assert.Equal(t, MsgNoStaff, res.Message)
		assert.Empty(t, res.AllSlots)
	})
}

func TestGetAvailability_TodayDropsPastSlots(t *testing.T) {
	now := time.Date(2025, 6, 2, 17, 55, 0, 0, time.Local)
	f := newFixture(t, now)
	f.shop.OperatingHours["monday"] = &model.DayHours{Open: "17:00", Close: "19:00"}
	f.service.Duration = 10
	f.expectMetadata()
	f.staff.On("ListMappingsByService", mock.Anything, f.service.ID).Return([]*model.StaffService{}, nil)
	f.staff.On("ListActive", mock.Anything, f.shop.ID).Return([]*model.Staff{f.asha}, nil)
	f.bookings.On("ShopBookingsForDate", mock.Anything, f.shop.ID, monday).Return([]model.BusyBooking{}, nil)

	res, err := f.svc.GetAvailability(context.Background(), f.query(monday, nil))
	require.NoError(t, err)

	times := make([]string, 0, len(res.AllSlots))
	for _, s := range res.AllSlots {
		times = append(times, s.Time)
	}
	assert.Equal(t, []string{"18:30"}, times, "18:00 falls inside the lead buffer")
}

func TestGetAvailability_LeadBufferBoundary(t *testing.T) {
	now := time.Date(2025, 6, 2, 17, 55, 0, 0, time.Local)
	f := newFixture(t, now)
	f.shop.OperatingHours["monday"] = &model.DayHours{Open: "17:40", Close: "19:00"}
	f.service.Duration = 30
	f.expectMetadata()
	f.staff.On("ListMappingsByService", mock.Anything, f.service.ID).Return([]*model.StaffService{}, nil)
	f.staff.On("ListActive", mock.Anything, f.shop.ID).Return([]*model.Staff{f.asha}, nil)
	f.bookings.On("ShopBookingsForDate", mock.Anything, f.shop.ID, monday).Return([]model.BusyBooking{}, nil)

	res, err := f.svc.GetAvailability(context.Background(), f.query(monday, nil))
	require.NoError(t, err)

	times := make([]string, 0, len(res.AllSlots))
	for _, s := range res.AllSlots {
		times = append(times, s.Time)
	}
	assert.Equal(t, []string{"18:10"}, times)
}

func TestGetAvailability_Errors(t *testing.T) {
	t.Run("invalid date", func(t *testing.T) {
		f := newFixture(t, sunday())
		_, err := f.svc.GetAvailability(context.Background(), f.query("02-06-2025", nil))
		assert.True(t, apperrors.HasCode(err, apperrors.ErrValidation))
	})

	t.Run("service not found", func(t *testing.T) {
		f := newFixture(t, sunday())
		f.services.On("Get", mock.Anything, f.service.ID, f.shop.ID).Return(nil, repository.ErrNotFound)

		_, err := f.svc.GetAvailability(context.Background(), f.query(monday, nil))
		require.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
		assert.Contains(t, err.Error(), "Service not found")
	})

	t.Run("inactive service", func(t *testing.T) {
		f := newFixture(t, sunday())
		f.service.IsActive = false
		f.services.On("Get", mock.Anything, f.service.ID, f.shop.ID).Return(f.service, nil)

		_, err := f.svc.GetAvailability(context.Background(), f.query(monday, nil))
		assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
	})

	t.Run("inactive shop", func(t *testing.T) {
		f := newFixture(t, sunday())
		f.shop.IsActive = false
		f.expectMetadata()

		_, err := f.svc.GetAvailability(context.Background(), f.query(monday, nil))
		require.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
		assert.Contains(t, err.Error(), "Shop not found")
	})

	t.Run("staff cannot perform service", func(t *testing.T) {
		f := newFixture(t, sunday())
		f.expectMetadata()
		f.staff.On("Get", mock.Anything, f.asha.ID, f.shop.ID).Return(f.asha, nil)
		f.staff.On("HasMapping", mock.Anything, f.asha.ID, f.service.ID).Return(false, nil)

		_, err := f.svc.GetAvailability(context.Background(), f.query(monday, &f.asha.ID))
		assert.True(t, apperrors.HasCode(err, apperrors.ErrStaffCannotPerformService))
	})

	t.Run("unknown staff", func(t *testing.T) {
		f := newFixture(t, sunday())
		f.expectMetadata()
		f.staff.On("Get", mock.Anything, f.asha.ID, f.shop.ID).Return(nil, repository.ErrNotFound)

		_, err := f.svc.GetAvailability(context.Background(), f.query(monday, &f.asha.ID))
		require.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
		assert.Contains(t, err.Error(), "Staff not found")
	})

	t.Run("malformed booking time", func(t *testing.T) {
		f := newFixture(t, sunday())
		f.expectMetadata()
		f.staff.On("ListMappingsByService", mock.Anything, f.service.ID).Return([]*model.StaffService{}, nil)
		f.staff.On("ListActive", mock.Anything, f.shop.ID).Return([]*model.Staff{f.asha}, nil)
		f.bookings.On("ShopBookingsForDate", mock.Anything, f.shop.ID, monday).Return([]model.BusyBooking{
			{StaffID: &f.asha.ID, BookingTime: "xx:yy", Duration: 30},
		}, nil)

		_, err := f.svc.GetAvailability(context.Background(), f.query(monday, nil))
		require.True(t, apperrors.HasCode(err, apperrors.ErrInternal))
		assert.ErrorIs(t, err, schedule.ErrMalformedTime)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t, sunday())
		f.services.On("Get", mock.Anything, f.service.ID, f.shop.ID).Return(nil, errors.New("connection reset"))

		_, err := f.svc.GetAvailability(context.Background(), f.query(monday, nil))
		assert.True(t, apperrors.HasCode(err, apperrors.ErrInternal))
	})
}
