package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/Freeeeeet/office_hours/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AppointmentFilter narrows appointment lookups. Zero fields are ignored.
type AppointmentFilter struct {
	AvailabilityID  *uuid.UUID
	AvailabilityIDs []uuid.UUID
	StudentID       *uuid.UUID
	ProfessorID     *uuid.UUID
	Status          *model.AppointmentStatus
	Overlapping     *model.Interval
	EndAfter        *time.Time
	StartFrom       *time.Time // inclusive
	StartBefore     *time.Time // exclusive
}

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(b *base.Repository) *AppointmentRepository {
	return &AppointmentRepository{Repository: b}
}

// Create inserts a new appointment
func (r *AppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (availability_id, student_id, professor_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		appointment.AvailabilityID,
		appointment.StudentID,
		appointment.ProfessorID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
	).Scan(&appointment.ID, &appointment.CreatedAt, &appointment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := appointmentSelect + ` WHERE a.id = $1`

	appointment, err := scanAppointment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return appointment, nil
}

// Find returns the appointments matching filter ordered by start time,
// each with its professor's name and role attached
func (r *AppointmentRepository) Find(ctx context.Context, filter AppointmentFilter) ([]*model.Appointment, error) {
	var w base.Where
	if filter.AvailabilityID != nil {
		w.And("a.availability_id = " + w.Arg(*filter.AvailabilityID))
	}
	if len(filter.AvailabilityIDs) > 0 {
		w.And("a.availability_id = ANY(" + w.Arg(uuidStrings(filter.AvailabilityIDs)) + "::uuid[])")
	}
	if filter.StudentID != nil {
		w.And("a.student_id = " + w.Arg(*filter.StudentID))
	}
	if filter.ProfessorID != nil {
		w.And("a.professor_id = " + w.Arg(*filter.ProfessorID))
	}
	if filter.Status != nil {
		w.And("a.status = " + w.Arg(*filter.Status))
	}
	if filter.Overlapping != nil {
		w.Overlapping("a", filter.Overlapping.Start, filter.Overlapping.End)
	}
	if filter.EndAfter != nil {
		w.And("a.end_time > " + w.Arg(*filter.EndAfter))
	}
	if filter.StartFrom != nil {
		w.And("a.start_time >= " + w.Arg(*filter.StartFrom))
	}
	if filter.StartBefore != nil {
		w.And("a.start_time < " + w.Arg(*filter.StartBefore))
	}

	query := appointmentSelect + ` ` + w.SQL() + ` ORDER BY a.start_time`

	rows, err := r.Query(ctx, query, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("find appointments: %w", err)
	}
	defer rows.Close()

	appointments := []*model.Appointment{}
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return appointments, nil
}

// UpdateStatus sets the status and bumps updated_at
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = now()
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

const appointmentSelect = `
	SELECT a.id, a.availability_id, a.student_id, a.professor_id, a.start_time, a.end_time,
	       a.status, a.created_at, a.updated_at, p.name, p.role
	FROM appointments a
	JOIN users p ON p.id = a.professor_id`

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var (
		appointment model.Appointment
		professor   model.User
	)
	err := row.Scan(
		&appointment.ID,
		&appointment.AvailabilityID,
		&appointment.StudentID,
		&appointment.ProfessorID,
		&appointment.StartTime,
		&appointment.EndTime,
		&appointment.Status,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
		&professor.Name,
		&professor.Role,
	)
	if err != nil {
		return nil, err
	}
	professor.ID = appointment.ProfessorID
	appointment.Professor = &professor
	return &appointment, nil
}
