package service

import (
	"context"

	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/Freeeeeet/office_hours/internal/repository"
	"github.com/google/uuid"
)

// Stores return nil, nil for a missing row.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByIDAndRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*model.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
}

type SlotStore interface {
	Create(ctx context.Context, slot *model.AvailabilitySlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error)
	GetByIDAndProfessor(ctx context.Context, id, professorID uuid.UUID) (*model.AvailabilitySlot, error)
	Find(ctx context.Context, filter repository.SlotFilter) ([]*model.AvailabilitySlot, error)
}

type AppointmentStore interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Find(ctx context.Context, filter repository.AppointmentFilter) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
}

type RecurringStore interface {
	Create(ctx context.Context, template *model.RecurringAvailability) error
	GetByProfessorID(ctx context.Context, professorID uuid.UUID) ([]*model.RecurringAvailability, error)
	GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*model.RecurringAvailability, error)
	GetAllActive(ctx context.Context) ([]*model.RecurringAvailability, error)
	DeactivateByGroupID(ctx context.Context, groupID uuid.UUID) error
}

// Reserver serializes overlap-check-then-insert for one key. Reserve blocks
// until the key is free or ctx ends; release must be called exactly once.
type Reserver interface {
	Reserve(ctx context.Context, key string) (release func(), err error)
}

// Notifier delivers best-effort messages about appointment changes.
type Notifier interface {
	AppointmentRequested(ctx context.Context, professor, student *model.User, appointment *model.Appointment) error
	AppointmentStatusChanged(ctx context.Context, student, professor *model.User, appointment *model.Appointment) error
	AppointmentReminder(ctx context.Context, recipient, counterpart *model.User, appointment *model.Appointment) error
}

func professorKey(id uuid.UUID) string {
	return "professor:" + id.String()
}

func availabilityKey(id uuid.UUID) string {
	return "availability:" + id.String()
}
