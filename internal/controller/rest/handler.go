// Package rest exposes the office hours services over HTTP.
package rest

import (
	"context"
	"net/http"

	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/Freeeeeet/office_hours/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingAPI interface {
	CreateAvailability(ctx context.Context, professorID uuid.UUID, interval model.Interval) (*model.AvailabilitySlot, error)
	CreateAppointment(ctx context.Context, candidate service.AppointmentCandidate) (*service.BookingOutcome, error)
	UpdateAppointmentStatus(ctx context.Context, appointmentID uuid.UUID, requested model.AppointmentStatus, actingProfessorID uuid.UUID) (*service.StatusChange, error)
	ListSlots(ctx context.Context) ([]*model.AvailabilitySlot, error)
	GetSlot(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error)
	ListProfessorSlots(ctx context.Context, professorID uuid.UUID, activeOnly bool) ([]*model.AvailabilitySlot, error)
	ListAppointments(ctx context.Context) ([]*model.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	ListMyAppointments(ctx context.Context, callerID uuid.UUID, role model.Role, upcomingOnly bool) ([]*model.Appointment, error)
}

type UserAPI interface {
	Register(ctx context.Context, name, email string, role model.Role, telegramChatID *int64) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListProfessors(ctx context.Context) ([]*model.User, error)
}

type RecurringAPI interface {
	CreateGroup(ctx context.Context, professorID uuid.UUID, weekdays []int, times []service.TimeOfDay, durationMinutes int) (*service.RecurringGroup, error)
	ListByProfessor(ctx context.Context, professorID uuid.UUID) ([]*model.RecurringAvailability, error)
	DeactivateGroup(ctx context.Context, professorID, groupID uuid.UUID) error
}

type Handler struct {
	booking   BookingAPI
	users     UserAPI
	recurring RecurringAPI
	tokens    *TokenManager
	tokenName string
	logger    *zap.Logger
}

func NewHandler(booking BookingAPI, users UserAPI, recurring RecurringAPI, tokens *TokenManager, tokenName string, logger *zap.Logger) *Handler {
	return &Handler{
		booking:   booking,
		users:     users,
		recurring: recurring,
		tokens:    tokens,
		tokenName: tokenName,
		logger:    logger,
	}
}

// uuidParam parses a path parameter, answering 400 when it is not a uuid.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
