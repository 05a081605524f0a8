package rest

import (
	"net/http"

	"github.com/Freeeeeet/office_hours/internal/service"
	"github.com/gin-gonic/gin"
)

// ListAppointments GET /appointment
func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.booking.ListAppointments(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// GetAppointment GET /appointment/id/:id
func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	appointment, err := h.booking.GetAppointment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// MyAppointments GET /appointments/all
func (h *Handler) MyAppointments(c *gin.Context) {
	h.myAppointments(c, false)
}

// MyUpcomingAppointments GET /appointments/upComing
func (h *Handler) MyUpcomingAppointments(c *gin.Context) {
	h.myAppointments(c, true)
}

func (h *Handler) myAppointments(c *gin.Context, upcomingOnly bool) {
	identity := currentIdentity(c)

	appointments, err := h.booking.ListMyAppointments(c.Request.Context(), identity.ID, identity.Role, upcomingOnly)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// RequestAppointment POST /appointment/professor/:professorId/availability/:availabilityId
//
// A clear request is booked as PENDING (201). Soft conflicts are returned
// with 200 and nothing is written.
func (h *Handler) RequestAppointment(c *gin.Context) {
	professorID, ok := uuidParam(c, "professorId")
	if !ok {
		return
	}
	availabilityID, ok := uuidParam(c, "availabilityId")
	if !ok {
		return
	}

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

	outcome, err := h.booking.CreateAppointment(c.Request.Context(), service.AppointmentCandidate{
		StudentID:      currentIdentity(c).ID,
		ProfessorID:    professorID,
		AvailabilityID: availabilityID,
		Interval:       interval,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	if !outcome.Booked() {
		c.JSON(http.StatusOK, gin.H{
			"message":   service.ConflictReportMessage,
			"conflicts": outcome.Conflicts.Conflicts,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Appointment request has been sent",
		"appointment": outcome.Appointment,
	})
}

// UpdateAppointmentStatus PATCH /appointment/professor/:appointmentId
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	appointmentID, ok := uuidParam(c, "appointmentId")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	change, err := h.booking.UpdateAppointmentStatus(c.Request.Context(), appointmentID, req.Status, currentIdentity(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     change.Message,
		"appointment": change.Appointment,
	})
}
