package api

import (
	"errors"
	"net/http"

	apperrors "github.com/M-A-Yakout/Booking-Flight/pkg/app_errors"
	"github.com/gin-gonic/gin"
)

// writeError maps taxonomy errors onto HTTP statuses. Anything unexpected is
// a 500 with a generic message, never the raw driver error.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrFlightNotFound),
		errors.Is(err, apperrors.ErrBookingNotFound),
		errors.Is(err, apperrors.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": apperrors.ErrForbidden.Error()})
	case errors.Is(err, apperrors.ErrBookingDenied),
		errors.Is(err, apperrors.ErrAlreadyCancelled),
		errors.Is(err, apperrors.ErrFlightExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUserResolutionFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPersistenceFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrPersistenceFailed.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
