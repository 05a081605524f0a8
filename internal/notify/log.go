package notify

import (
	"context"

	"github.com/Freeeeeet/office_hours/internal/model"
	"go.uber.org/zap"
)

// Log records notifications instead of delivering them. Used when no
// telegram token is configured.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) AppointmentRequested(_ context.Context, professor, _ *model.User, appointment *model.Appointment) error {
	l.record("requested", professor, appointment)
	return nil
}

func (l *Log) AppointmentStatusChanged(_ context.Context, student, _ *model.User, appointment *model.Appointment) error {
	l.record("status_changed", student, appointment)
	return nil
}

func (l *Log) AppointmentReminder(_ context.Context, recipient, _ *model.User, appointment *model.Appointment) error {
	l.record("reminder", recipient, appointment)
	return nil
}

func (l *Log) record(kind string, recipient *model.User, appointment *model.Appointment) {
	l.logger.Info("Notification",
		zap.String("kind", kind),
		zap.String("user_id", recipient.ID.String()),
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("status", string(appointment.Status)),
	)
}
