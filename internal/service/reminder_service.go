package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/office_hours/internal/clock"
	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/Freeeeeet/office_hours/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReminderService reminds both participants of confirmed appointments that
// start within lead of now. Each run covers the start times after the
// previous run's horizon, so an appointment is reminded once per process.
type ReminderService struct {
	appointments AppointmentStore
	users        UserStore
	notifier     Notifier
	clock        clock.Clock
	lead         time.Duration
	logger       *zap.Logger

	mu      sync.Mutex
	horizon time.Time
}

func NewReminderService(appointments AppointmentStore, users UserStore, notifier Notifier, clk clock.Clock, lead time.Duration, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		appointments: appointments,
		users:        users,
		notifier:     notifier,
		clock:        clk,
		lead:         lead,
		logger:       logger,
	}
}

// SendUpcoming notifies about confirmed appointments starting in
// (horizon, now+lead] and returns how many appointments were covered.
func (s *ReminderService) SendUpcoming(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	from := now
	if s.horizon.After(from) {
		from = s.horizon
	}
	until := now.Add(s.lead)
	if !until.After(from) {
		return 0, nil
	}

	status := model.AppointmentStatusConfirmed
	// Stored timestamps have microsecond precision; StartFrom is inclusive.
	after := from.Add(time.Microsecond)
	before := until.Add(time.Microsecond)

	appointments, err := s.appointments.Find(ctx, repository.AppointmentFilter{
		Status:      &status,
		StartFrom:   &after,
		StartBefore: &before,
	})
	if err != nil {
		return 0, fmt.Errorf("find upcoming appointments: %w", err)
	}

	if len(appointments) == 0 {
		s.horizon = until
		return 0, nil
	}

	users, err := s.loadUsers(ctx, appointments)
	if err != nil {
		return 0, err
	}

	// Only advance once recipients are known, so a failed run is retried.
	s.horizon = until

	for _, appointment := range appointments {
		professor, student := users[appointment.ProfessorID], users[appointment.StudentID]
		if professor == nil || student == nil {
			s.logger.Warn("Skipping reminder, participant missing",
				zap.String("appointment_id", appointment.ID.String()),
			)
			continue
		}

		s.remind(ctx, professor, student, appointment)
		s.remind(ctx, student, professor, appointment)
	}

	s.logger.Info("Appointment reminders sent",
		zap.Int("appointments", len(appointments)),
		zap.Time("until", until),
	)

	return len(appointments), nil
}

func (s *ReminderService) remind(ctx context.Context, recipient, counterpart *model.User, appointment *model.Appointment) {
	if err := s.notifier.AppointmentReminder(ctx, recipient, counterpart, appointment); err != nil {
		s.logger.Warn("Failed to send appointment reminder",
			zap.String("appointment_id", appointment.ID.String()),
			zap.String("user_id", recipient.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *ReminderService) loadUsers(ctx context.Context, appointments []*model.Appointment) (map[uuid.UUID]*model.User, error) {
	ids := make([]uuid.UUID, 0, len(appointments)*2)
	seen := make(map[uuid.UUID]bool, len(appointments)*2)
	for _, appointment := range appointments {
		for _, id := range []uuid.UUID{appointment.ProfessorID, appointment.StudentID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get reminder recipients: %w", err)
	}

	byID := make(map[uuid.UUID]*model.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	return byID, nil
}
