package availability

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/handler"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
	availabilityService "github.com/shubhammalhotra1708/booking-app-sub000/internal/service/availability"
)

type AvailabilityServicer interface {
	GetAvailability(ctx context.Context, q availabilityService.Query) (*availabilityService.Result, error)
}

type Handler struct {
	service AvailabilityServicer
}

func NewHandler(service AvailabilityServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/availability", h.GetAvailability)
}

type availabilityQuery struct {
	ShopID    string `form:"shop_id" binding:"required,uuid"`
	ServiceID string `form:"service_id" binding:"required,uuid"`
	Date      string `form:"date" binding:"required,isodate"`
	StaffID   string `form:"staff_id" binding:"omitempty,uuid"`
}

func (h *Handler) GetAvailability(c *gin.Context) {
	var req availabilityQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		handler.RespondError(c, handler.BindError(err))
		return
	}

	q := availabilityService.Query{
		ShopID:    uuid.MustParse(req.ShopID),
		ServiceID: uuid.MustParse(req.ServiceID),
		Date:      req.Date,
	}
	if req.StaffID != "" {
		staffID, err := model.ParseStaffID(req.StaffID)
		if err != nil {
			handler.RespondError(c, handler.BindError(err))
			return
		}
		q.StaffID = &staffID
	}

	res, err := h.service.GetAvailability(c.Request.Context(), q)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, res, res.Message)
}
