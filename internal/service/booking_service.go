package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/office_hours/internal/clock"
	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/Freeeeeet/office_hours/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingOutcome is either a created appointment or a conflict report, never both.
type BookingOutcome struct {
	Appointment *model.Appointment
	Conflicts   *ConflictReport
}

func (o *BookingOutcome) Booked() bool {
	return o.Appointment != nil
}

// StatusChange describes the result of a status update. Changed is false for
// a repeated request, in which case nothing was written.
type StatusChange struct {
	Appointment *model.Appointment
	Changed     bool
	Message     string
}

// BookingService sequences the conflict checks before every write and owns
// appointment status transitions.
type BookingService struct {
	users               UserStore
	slots               SlotStore
	appointments        AppointmentStore
	availabilityChecker *AvailabilityChecker
	appointmentChecker  *AppointmentChecker
	reserver            Reserver
	notifier            Notifier
	clock               clock.Clock
	logger              *zap.Logger
}

func NewBookingService(
	users UserStore,
	slots SlotStore,
	appointments AppointmentStore,
	reserver Reserver,
	notifier Notifier,
	clk clock.Clock,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		users:               users,
		slots:               slots,
		appointments:        appointments,
		availabilityChecker: NewAvailabilityChecker(slots, clk),
		appointmentChecker:  NewAppointmentChecker(users, slots, appointments, clk),
		reserver:            reserver,
		notifier:            notifier,
		clock:               clk,
		logger:              logger,
	}
}

// CreateAvailability publishes a new slot for the professor unless it
// overlaps one of their existing slots.
func (s *BookingService) CreateAvailability(ctx context.Context, professorID uuid.UUID, interval model.Interval) (*model.AvailabilitySlot, error) {
	release, err := s.reserver.Reserve(ctx, professorKey(professorID))
	if err != nil {
		return nil, fmt.Errorf("reserve professor schedule: %w", err)
	}
	defer release()

	overlap, err := s.availabilityChecker.CheckSlotOverlap(ctx, professorID, interval)
	if err != nil {
		return nil, err
	}

	if !overlap.Clear() {
		s.logger.Debug("Availability rejected, overlaps existing slots",
			zap.String("professor_id", professorID.String()),
			zap.Time("start_time", interval.Start),
			zap.Int("conflicts", len(overlap.Conflicting)),
		)
		return nil, &AvailabilityOverlapError{Conflicting: model.Windows(overlap.Conflicting)}
	}

	slot := &model.AvailabilitySlot{
		ProfessorID: professorID,
		StartTime:   interval.Start,
		EndTime:     interval.End,
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	s.logger.Info("Availability slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("professor_id", professorID.String()),
		zap.Time("start_time", slot.StartTime),
		zap.Time("end_time", slot.EndTime),
	)

	return slot, nil
}

// CreateAppointment books a PENDING appointment when the candidate is clear.
// Soft conflicts come back in the outcome with nothing written.
func (s *BookingService) CreateAppointment(ctx context.Context, candidate AppointmentCandidate) (*BookingOutcome, error) {
	release, err := s.reserver.Reserve(ctx, availabilityKey(candidate.AvailabilityID))
	if err != nil {
		return nil, fmt.Errorf("reserve availability slot: %w", err)
	}
	defer release()

	report, err := s.appointmentChecker.CheckAppointmentOverlap(ctx, candidate)
	if err != nil {
		return nil, err
	}

	if !report.Clear() {
		s.logger.Info("Appointment not booked, conflicts reported",
			zap.String("student_id", candidate.StudentID.String()),
			zap.String("availability_id", candidate.AvailabilityID.String()),
			zap.Int("conflicts", len(report.Conflicts)),
		)
		return &BookingOutcome{Conflicts: report}, nil
	}

	appointment := &model.Appointment{
		AvailabilityID: candidate.AvailabilityID,
		StudentID:      candidate.StudentID,
		ProfessorID:    candidate.ProfessorID,
		StartTime:      candidate.Interval.Start,
		EndTime:        candidate.Interval.End,
		Status:         model.AppointmentStatusPending,
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	// Notifying can be slow; other requests for the slot need not wait on it.
	release()

	s.logger.Info("Appointment requested",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("student_id", appointment.StudentID.String()),
		zap.String("professor_id", appointment.ProfessorID.String()),
		zap.Time("start_time", appointment.StartTime),
	)

	s.notifyRequested(ctx, appointment)

	return &BookingOutcome{Appointment: appointment}, nil
}

// UpdateAppointmentStatus moves the appointment to requested. Any status may
// follow any other; only the owning professor may change it.
func (s *BookingService) UpdateAppointmentStatus(ctx context.Context, appointmentID uuid.UUID, requested model.AppointmentStatus, actingProfessorID uuid.UUID) (*StatusChange, error) {
	if !requested.Valid() {
		return nil, ErrInvalidStatus
	}

	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if appointment.ProfessorID != actingProfessorID {
		return nil, ErrNotAppointmentOwner
	}

	if appointment.Status == requested {
		return &StatusChange{
			Appointment: appointment,
			Message:     fmt.Sprintf("Appointment already %s", requested),
		}, nil
	}

	if err := s.appointments.UpdateStatus(ctx, appointmentID, requested); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	previous := appointment.Status
	appointment.Status = requested
	appointment.UpdatedAt = s.clock.Now()

	s.logger.Info("Appointment status changed",
		zap.String("appointment_id", appointmentID.String()),
		zap.String("professor_id", actingProfessorID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(requested)),
	)

	s.notifyStatusChanged(ctx, appointment)

	return &StatusChange{
		Appointment: appointment,
		Changed:     true,
		Message:     fmt.Sprintf("Appointment is %s", requested),
	}, nil
}

// ListSlots returns every slot with its appointments.
func (s *BookingService) ListSlots(ctx context.Context) ([]*model.AvailabilitySlot, error) {
	slots, err := s.slots.Find(ctx, repository.SlotFilter{})
	if err != nil {
		return nil, fmt.Errorf("find slots: %w", err)
	}
	if err := s.attachAppointments(ctx, slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *BookingService) GetSlot(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if err := s.attachAppointments(ctx, []*model.AvailabilitySlot{slot}); err != nil {
		return nil, err
	}
	return slot, nil
}

// ListProfessorSlots returns the professor's slots; activeOnly keeps those
// that have not ended yet.
func (s *BookingService) ListProfessorSlots(ctx context.Context, professorID uuid.UUID, activeOnly bool) ([]*model.AvailabilitySlot, error) {
	filter := repository.SlotFilter{ProfessorID: &professorID}
	if activeOnly {
		now := s.clock.Now()
		filter.EndAfter = &now
	}

	slots, err := s.slots.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find professor slots: %w", err)
	}
	if err := s.attachAppointments(ctx, slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *BookingService) ListAppointments(ctx context.Context) ([]*model.Appointment, error) {
	appointments, err := s.appointments.Find(ctx, repository.AppointmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("find appointments: %w", err)
	}
	return appointments, nil
}

func (s *BookingService) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// ListMyAppointments returns the caller's appointments as professor or as
// student depending on role; upcomingOnly keeps those that have not ended.
func (s *BookingService) ListMyAppointments(ctx context.Context, callerID uuid.UUID, role model.Role, upcomingOnly bool) ([]*model.Appointment, error) {
	var filter repository.AppointmentFilter
	switch role {
	case model.RoleProfessor:
		filter.ProfessorID = &callerID
	case model.RoleStudent:
		filter.StudentID = &callerID
	default:
		return nil, ErrInvalidRole
	}

	if upcomingOnly {
		now := s.clock.Now()
		filter.EndAfter = &now
	}

	appointments, err := s.appointments.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find my appointments: %w", err)
	}
	return appointments, nil
}

func (s *BookingService) attachAppointments(ctx context.Context, slots []*model.AvailabilitySlot) error {
	if len(slots) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(slots))
	bySlot := make(map[uuid.UUID]*model.AvailabilitySlot, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.ID)
		bySlot[slot.ID] = slot
		slot.Appointments = []*model.Appointment{}
	}

	appointments, err := s.appointments.Find(ctx, repository.AppointmentFilter{AvailabilityIDs: ids})
	if err != nil {
		return fmt.Errorf("find slot appointments: %w", err)
	}

	for _, appointment := range appointments {
		if slot, ok := bySlot[appointment.AvailabilityID]; ok {
			slot.Appointments = append(slot.Appointments, appointment)
		}
	}

	return nil
}

// Notifications run after the write is committed; failures are only logged.

func (s *BookingService) notifyRequested(ctx context.Context, appointment *model.Appointment) {
	professor, student, err := s.participants(ctx, appointment)
	if err != nil {
		s.logger.Warn("Failed to load appointment participants", zap.Error(err))
		return
	}

	if err := s.notifier.AppointmentRequested(ctx, professor, student, appointment); err != nil {
		s.logger.Warn("Failed to notify professor about appointment request",
			zap.String("appointment_id", appointment.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *BookingService) notifyStatusChanged(ctx context.Context, appointment *model.Appointment) {
	professor, student, err := s.participants(ctx, appointment)
	if err != nil {
		s.logger.Warn("Failed to load appointment participants", zap.Error(err))
		return
	}

	if err := s.notifier.AppointmentStatusChanged(ctx, student, professor, appointment); err != nil {
		s.logger.Warn("Failed to notify student about status change",
			zap.String("appointment_id", appointment.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *BookingService) participants(ctx context.Context, appointment *model.Appointment) (professor, student *model.User, err error) {
	users, err := s.users.GetByIDs(ctx, []uuid.UUID{appointment.ProfessorID, appointment.StudentID})
	if err != nil {
		return nil, nil, fmt.Errorf("get participants: %w", err)
	}

	for _, user := range users {
		switch user.ID {
		case appointment.ProfessorID:
			professor = user
		case appointment.StudentID:
			student = user
		}
	}

	if professor == nil || student == nil {
		return nil, nil, ErrUserNotFound
	}

	return professor, student, nil
}
