package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	apperrors "github.com/shubhammalhotra1708/booking-app-sub000/pkg/errors"
)

// Response is the success envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Status  int               `json:"status"`
	Details map[string]string `json:"details,omitempty"`
}

var fieldMessages = map[string]string{
	"required": "is required",
	"uuid":     "must be a valid UUID",
	"email":    "must be a valid email address",
	"min":      "is too short",
	"max":      "is too long",
	"gte":      "must not be negative",
	"oneof":    "is not an allowed value",
	"hhmm":     "must be a time in HH:MM format",
	"isodate":  "must be a date in YYYY-MM-DD format",
}

func RespondSuccess(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// RespondError writes the error envelope. Errors that are not AppErrors are
// reported as internal errors without leaking their text.
func RespondError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	status := appErr.HTTPStatus()

	logger := zerolog.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	} else {
		logger.Debug().Err(err).Str("path", c.FullPath()).Msg("request rejected")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Code.String(),
		Status:  status,
		Details: appErr.Details,
	})
}

// BindError converts a binding failure into a ValidationFailed error with
// per-field details keyed by JSON name.
func BindError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			msg, ok := fieldMessages[fe.Tag()]
			if !ok {
				msg = "is invalid"
			}
			details[fe.Field()] = msg
		}
		return apperrors.Validation("Validation failed", details)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return apperrors.Validation("Validation failed", map[string]string{typeErr.Field: "has the wrong type"})
	case errors.As(err, &syntaxErr):
		return apperrors.Validation("Invalid request body", nil)
	}
	return apperrors.Validation("Invalid request", map[string]string{"request": err.Error()})
}
