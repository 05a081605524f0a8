package rest

import (
	"net/http"

	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/gin-gonic/gin"
)

type slotView struct {
	ID           string               `json:"id"`
	StartTime    string               `json:"startTime"`
	EndTime      string               `json:"endTime"`
	Appointments []*model.Appointment `json:"appointments"`
}

func slotViews(slots []*model.AvailabilitySlot) []slotView {
	views := make([]slotView, 0, len(slots))
	for _, slot := range slots {
		appointments := slot.Appointments
		if appointments == nil {
			appointments = []*model.Appointment{}
		}
		views = append(views, slotView{
			ID:           slot.ID.String(),
			StartTime:    slot.StartTime.UTC().Format(DateTimeLayout),
			EndTime:      slot.EndTime.UTC().Format(DateTimeLayout),
			Appointments: appointments,
		})
	}
	return views
}

// ListSlots GET /availability
func (h *Handler) ListSlots(c *gin.Context) {
	slots, err := h.booking.ListSlots(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// GetSlot GET /availability/id/:id
func (h *Handler) GetSlot(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	slot, err := h.booking.GetSlot(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// MySlots GET /availability/professor/timeSlots
func (h *Handler) MySlots(c *gin.Context) {
	slots, err := h.booking.ListProfessorSlots(c.Request.Context(), currentIdentity(c).ID, false)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeSlots": slotViews(slots)})
}

// MyActiveSlots GET /availability/professor/timeSlots/active
func (h *Handler) MyActiveSlots(c *gin.Context) {
	slots, err := h.booking.ListProfessorSlots(c.Request.Context(), currentIdentity(c).ID, true)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activeTimeSlots": slotViews(slots)})
}

// ProfessorActiveSlots GET /availability/student/activeTimeSlots/:professorId
func (h *Handler) ProfessorActiveSlots(c *gin.Context) {
	professorID, ok := uuidParam(c, "professorId")
	if !ok {
		return
	}

	slots, err := h.booking.ListProfessorSlots(c.Request.Context(), professorID, true)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeSlots": slotViews(slots)})
}

// CreateSlot POST /availability/new
func (h *Handler) CreateSlot(c *gin.Context) {
	var req timeRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	interval, err := req.interval()
	if err != nil {
		badRequest(c, err)
		return
	}

	slot, err := h.booking.CreateAvailability(c.Request.Context(), currentIdentity(c).ID, interval)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "New slot created successfully",
		"slot":    slot,
	})
}
