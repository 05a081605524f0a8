package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/Freeeeeet/office_hours/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": validationMessages(err)})
}

// fail maps service errors onto responses. Unknown errors are logged and
// answered with 500.
func (h *Handler) fail(c *gin.Context, err error) {
	var (
		overlap *service.AvailabilityOverlapError
		outside *service.OutsideAvailabilityError
	)

	switch {
	case errors.As(err, &overlap):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":            overlap.Error(),
			"conflictingSlots": overlap.Conflicting,
		})
	case errors.As(err, &outside):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":               outside.Error(),
			"thisWindow":          outside.ThisWindow,
			"allAvailableWindows": outside.AllWindows,
		})
	case errors.Is(err, service.ErrInvalidInterval),
		errors.Is(err, service.ErrPastInterval),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidRecurrence):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotAppointmentOwner),
		errors.Is(err, service.ErrNotRecurringOwner):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrProfessorNotFound),
		errors.Is(err, service.ErrSlotNotFound),
		errors.Is(err, service.ErrAppointmentNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRecurringNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrReservationBusy):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, context.Canceled):
		c.Abort()
	default:
		_ = c.Error(err)
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
