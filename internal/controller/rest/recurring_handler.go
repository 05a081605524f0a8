package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateRecurring POST /availability/recurring
func (h *Handler) CreateRecurring(c *gin.Context) {
	var req recurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	group, err := h.recurring.CreateGroup(c.Request.Context(), currentIdentity(c).ID, req.Weekdays, req.Times, req.DurationMinutes)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// ListRecurring GET /availability/recurring
func (h *Handler) ListRecurring(c *gin.Context) {
	templates, err := h.recurring.ListByProfessor(c.Request.Context(), currentIdentity(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// DeactivateRecurring DELETE /availability/recurring/:groupId
func (h *Handler) DeactivateRecurring(c *gin.Context) {
	groupID, ok := uuidParam(c, "groupId")
	if !ok {
		return
	}

	if err := h.recurring.DeactivateGroup(c.Request.Context(), currentIdentity(c).ID, groupID); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recurring availability deactivated"})
}
