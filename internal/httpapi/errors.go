package httpapi

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/logger"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondError maps err onto 400, 404 or 500. Store errors are logged and
// their message returned as is.
func respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	var fe validator.ValidationErrors
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, errorResponse{Error: ve.Error(), Field: ve.Field})
	case errors.As(err, &fe) && len(fe) > 0:
		c.JSON(http.StatusBadRequest, errorResponse{Error: fe[0].Field() + ": " + validationMessage(fe[0]), Field: fe[0].Field()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		_ = c.Error(err)
		logger.FromGin(c).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// badRequest reports a malformed body or query.
func badRequest(c *gin.Context, err error) {
	var fe validator.ValidationErrors
	if errors.As(err, &fe) {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of: " + e.Param()
	case "datetime":
		return "must be a date like " + e.Param()
	case "gte":
		return "must be at least " + e.Param()
	case "lte":
		return "must be at most " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	default:
		return "is invalid"
	}
}
