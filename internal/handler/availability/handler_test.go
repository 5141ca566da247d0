package availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/middleware"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/schedule"
	availabilityService "github.com/shubhammalhotra1708/booking-app-sub000/internal/service/availability"
	apperrors "github.com/shubhammalhotra1708/booking-app-sub000/pkg/errors"
)

type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) GetAvailability(ctx context.Context, q availabilityService.Query) (*availabilityService.Result, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*availabilityService.Result), args.Error(1)
}

func setupRouter(svc AvailabilityServicer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func get(r http.Handler, params url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?"+params.Encode(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetAvailability(t *testing.T) {
	svc := new(MockAvailabilityService)
	shopID, serviceID := uuid.New(), uuid.New()
	staffID := model.StaffID(uuid.New())

	res := &availabilityService.Result{
		Date:           "2030-06-03",
		Day:            "monday",
		Staff:          &model.StaffRef{ID: staffID, Name: "Asha"},
		AllSlots:       []schedule.Slot{{Time: "10:00", EndTime: "11:00", Duration: 60, IsAvailable: true, Status: schedule.SlotAvailable}},
		AvailableSlots: []schedule.Slot{},
		BlockedSlots:   []schedule.Slot{},
		Summary:        availabilityService.Summary{TotalSlots: 1, AvailableSlots: 1, StaffCount: 1},
		Message:        availabilityService.MsgRetrieved,
	}
	svc.On("GetAvailability", mock.Anything, availabilityService.Query{
		ShopID:    shopID,
		ServiceID: serviceID,
		Date:      "2030-06-03",
		StaffID:   &staffID,
	}).Return(res, nil)

	w := get(setupRouter(svc), url.Values{
		"shop_id":    {shopID.String()},
		"service_id": {serviceID.String()},
		"date":       {"2030-06-03"},
		"staff_id":   {staffID.String()},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Day      string `json:"day"`
			AllSlots []struct {
				Time        string `json:"time"`
				EndTime     string `json:"endTime"`
				IsAvailable bool   `json:"isAvailable"`
			} `json:"allSlots"`
			Summary struct {
				TotalSlots int `json:"totalSlots"`
			} `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, availabilityService.MsgRetrieved, body.Message)
	assert.Equal(t, "monday", body.Data.Day)
	require.Len(t, body.Data.AllSlots, 1)
	assert.Equal(t, "11:00", body.Data.AllSlots[0].EndTime)
	assert.Equal(t, 1, body.Data.Summary.TotalSlots)
	assert.NotContains(t, w.Body.String(), "Message\"")
	svc.AssertExpectations(t)
}

func TestGetAvailability_BadQuery(t *testing.T) {
	svc := new(MockAvailabilityService)

	w := get(setupRouter(svc), url.Values{
		"shop_id":    {"nope"},
		"service_id": {uuid.NewString()},
		"date":       {"2030-13-40"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Details, "shop_id")
	assert.Contains(t, body.Details, "date")
	svc.AssertNotCalled(t, "GetAvailability", mock.Anything, mock.Anything)
}

func TestGetAvailability_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"service not found", apperrors.NotFound("Service", nil), http.StatusNotFound},
		{"staff cannot perform", apperrors.StaffCannotPerformService(), http.StatusBadRequest},
		{"store failure", apperrors.Internal(assert.AnError), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAvailabilityService)
			svc.On("GetAvailability", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := get(setupRouter(svc), url.Values{
				"shop_id":    {uuid.NewString()},
				"service_id": {uuid.NewString()},
				"date":       {"2030-06-03"},
			})
			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, w.Body.String(), assert.AnError.Error())
		})
	}
}
