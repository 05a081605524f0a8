package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/Freeeeeet/office_hours/internal/clock"
	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/Freeeeeet/office_hours/internal/repository"
	"github.com/google/uuid"
)

const ConflictReportMessage = "Conflicts found during the requested time slot."

// AppointmentCandidate is a student's booking request against one slot.
type AppointmentCandidate struct {
	StudentID      uuid.UUID
	ProfessorID    uuid.UUID
	AvailabilityID uuid.UUID
	Interval       model.Interval
}

// Conflict is one soft finding; Status is the severity.
type Conflict struct {
	Status      model.AppointmentStatus `json:"status"`
	Message     string                  `json:"message"`
	Appointment *model.Appointment      `json:"details"`
}

// ConflictReport is informational: a non-empty report does not forbid the
// booking by itself, it is handed back to the caller instead of writing.
type ConflictReport struct {
	Conflicts []Conflict
}

func (r *ConflictReport) Clear() bool {
	return len(r.Conflicts) == 0
}

// AppointmentChecker validates a booking request against the slot it targets
// and the student's existing appointments in that slot.
type AppointmentChecker struct {
	users        UserStore
	slots        SlotStore
	appointments AppointmentStore
	clock        clock.Clock
}

func NewAppointmentChecker(users UserStore, slots SlotStore, appointments AppointmentStore, clk clock.Clock) *AppointmentChecker {
	return &AppointmentChecker{
		users:        users,
		slots:        slots,
		appointments: appointments,
		clock:        clk,
	}
}

// CheckAppointmentOverlap returns an error for hard failures (bad interval,
// unknown professor or slot, interval outside the slot) and a report, possibly
// clear, otherwise.
func (c *AppointmentChecker) CheckAppointmentOverlap(ctx context.Context, candidate AppointmentCandidate) (*ConflictReport, error) {
	if err := candidate.Interval.Validate(c.clock.Now()); err != nil {
		return nil, err
	}

	professor, err := c.users.GetByIDAndRole(ctx, candidate.ProfessorID, model.RoleProfessor)
	if err != nil {
		return nil, fmt.Errorf("get professor: %w", err)
	}
	if professor == nil {
		return nil, ErrProfessorNotFound
	}

	slot, err := c.slots.GetByIDAndProfessor(ctx, candidate.AvailabilityID, candidate.ProfessorID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	if !candidate.Interval.Within(slot.Interval()) {
		windows, err := c.slots.Find(ctx, repository.SlotFilter{ProfessorID: &candidate.ProfessorID})
		if err != nil {
			return nil, fmt.Errorf("find professor slots: %w", err)
		}
		return nil, &OutsideAvailabilityError{
			ThisWindow: slot.Window(),
			AllWindows: model.Windows(windows),
		}
	}

	// Scoped to this slot and student only; see DESIGN.md open questions.
	existing, err := c.appointments.Find(ctx, repository.AppointmentFilter{
		AvailabilityID: &candidate.AvailabilityID,
		StudentID:      &candidate.StudentID,
		Overlapping:    &candidate.Interval,
	})
	if err != nil {
		return nil, fmt.Errorf("find overlapping appointments: %w", err)
	}

	return &ConflictReport{Conflicts: classifyConflicts(existing, candidate.ProfessorID)}, nil
}

func classifyConflicts(existing []*model.Appointment, professorID uuid.UUID) []Conflict {
	conflicts := []Conflict{}
	for _, appointment := range existing {
		var message string
		switch {
		case appointment.ProfessorID == professorID:
			message = fmt.Sprintf("A %s appointment already exists with this professor during the requested time.", appointment.Status)
		case appointment.Status == model.AppointmentStatusConfirmed:
			message = "A CONFIRMED appointment with another professor during this time is already confirmed."
		case appointment.Status == model.AppointmentStatusPending:
			message = "This is a PENDING appointment with another professor at the same time."
		default:
			// cancelled or completed with someone else: not a live conflict
			continue
		}
		conflicts = append(conflicts, Conflict{
			Status:      appointment.Status,
			Message:     message,
			Appointment: appointment,
		})
	}

	slices.SortStableFunc(conflicts, func(a, b Conflict) int {
		return severityRank(a.Status) - severityRank(b.Status)
	})

	return conflicts
}

// CONFIRMED findings come first, everything else keeps query order.
func severityRank(status model.AppointmentStatus) int {
	if status == model.AppointmentStatusConfirmed {
		return 0
	}
	return 1
}
