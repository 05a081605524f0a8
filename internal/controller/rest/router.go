package rest

import (
	"net/http"

	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires every route under /api/v1. Everything except registration
// and the health check requires a token.
func NewRouter(h *Handler, logger *zap.Logger) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Logger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	professor := RequireRole(model.RoleProfessor)
	student := RequireRole(model.RoleStudent)

	v1 := r.Group("/api/v1")
	v1.POST("/users/register", h.Register)

	authorized := v1.Group("")
	authorized.Use(Authenticate(h.tokens, h.tokenName))
	{
		authorized.GET("/users/me", h.Me)
		authorized.GET("/professors", h.ListProfessors)

		availability := authorized.Group("/availability")
		{
			availability.GET("", h.ListSlots)
			availability.GET("/id/:id", h.GetSlot)
			availability.GET("/professor/timeSlots", professor, h.MySlots)
			availability.GET("/professor/timeSlots/active", professor, h.MyActiveSlots)
			availability.GET("/student/activeTimeSlots/:professorId", student, h.ProfessorActiveSlots)
			availability.POST("/new", professor, h.CreateSlot)

			availability.POST("/recurring", professor, h.CreateRecurring)
			availability.GET("/recurring", professor, h.ListRecurring)
			availability.DELETE("/recurring/:groupId", professor, h.DeactivateRecurring)
		}

		authorized.GET("/appointment", h.ListAppointments)
		authorized.GET("/appointment/id/:id", h.GetAppointment)
		authorized.GET("/appointments/all", h.MyAppointments)
		authorized.GET("/appointments/upComing", h.MyUpcomingAppointments)
		authorized.POST("/appointment/professor/:professorId/availability/:availabilityId", student, h.RequestAppointment)
		authorized.PATCH("/appointment/professor/:appointmentId", professor, h.UpdateAppointmentStatus)
	}

	return r, nil
}
