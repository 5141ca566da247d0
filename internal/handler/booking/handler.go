package booking

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/handler"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
	apperrors "github.com/shubhammalhotra1708/booking-app-sub000/pkg/errors"
)

type BookingServicer interface {
	CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListBookings(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error)
	UpdateBooking(ctx context.Context, id uuid.UUID, req *model.UpdateBookingRequest) (*model.Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID, reason string) (*model.Booking, error)
}

type Handler struct {
	service BookingServicer
}

func NewHandler(service BookingServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.PUT("", h.UpdateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.DELETE("/:id", h.CancelBooking)
	}
}

type listQuery struct {
	BookingID     string `form:"booking_id" binding:"omitempty,uuid"`
	ShopID        string `form:"shop_id" binding:"omitempty,uuid"`
	CustomerPhone string `form:"customer_phone" binding:"omitempty,max=20"`
	CustomerEmail string `form:"customer_email" binding:"omitempty,email"`
	Status        string `form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled rejected no_show"`
	Date          string `form:"date" binding:"omitempty,isodate"`
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, handler.BindError(err))
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusCreated, b, "Booking created successfully")
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := bookingID(c, c.Param("id"))
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, b, "Booking retrieved successfully")
}

// ListBookings looks bookings up by booking_id, shop_id, customer_phone or
// customer_email. A booking_id lookup returns a one element list.
func (h *Handler) ListBookings(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.RespondError(c, handler.BindError(err))
		return
	}

	if q.BookingID != "" {
		b, err := h.service.GetBooking(c.Request.Context(), uuid.MustParse(q.BookingID))
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		handler.RespondSuccess(c, http.StatusOK, []*model.Booking{b}, "Bookings retrieved successfully")
		return
	}

	filter := model.BookingFilter{
		CustomerPhone: q.CustomerPhone,
		CustomerEmail: q.CustomerEmail,
		Status:        model.BookingStatus(q.Status),
		Date:          q.Date,
	}
	if q.ShopID != "" {
		shopID := uuid.MustParse(q.ShopID)
		filter.ShopID = &shopID
	}

	list, err := h.service.ListBookings(c.Request.Context(), filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, list, "Bookings retrieved successfully")
}

// UpdateBooking serves both PUT /bookings/:id and PUT /bookings with the id
// in the body.
func (h *Handler) UpdateBooking(c *gin.Context) {
	var req model.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, handler.BindError(err))
		return
	}

	raw := c.Param("id")
	if raw == "" {
		raw = req.BookingID
	}
	if raw == "" {
		handler.RespondError(c, apperrors.Validation("Validation failed", map[string]string{"booking_id": "is required"}))
		return
	}
	id, ok := bookingID(c, raw)
	if !ok {
		return
	}

	b, err := h.service.UpdateBooking(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, b, "Booking updated successfully")
}

// CancelBooking sets the status to cancelled. The body is optional.
func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := bookingID(c, c.Param("id"))
	if !ok {
		return
	}

	var req model.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			handler.RespondError(c, handler.BindError(err))
			return
		}
	}

	b, err := h.service.CancelBooking(c.Request.Context(), id, req.Reason)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, b, "Booking cancelled successfully")
}

func bookingID(c *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		handler.RespondError(c, apperrors.Validation("Validation failed", map[string]string{"booking_id": "must be a valid UUID"}))
		return uuid.Nil, false
	}
	return id, true
}
