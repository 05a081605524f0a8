package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/Freeeeeet/office_hours/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const recurringColumns = `id, group_id, professor_id, weekday, start_hour, start_minute, duration_minutes, is_active, created_at, updated_at`

// RecurringAvailabilityRepository stores weekly availability templates
type RecurringAvailabilityRepository struct {
	*base.Repository
}

func NewRecurringAvailabilityRepository(b *base.Repository) *RecurringAvailabilityRepository {
	return &RecurringAvailabilityRepository{Repository: b}
}

func (r *RecurringAvailabilityRepository) Create(ctx context.Context, template *model.RecurringAvailability) error {
	query := `
		INSERT INTO recurring_availability (group_id, professor_id, weekday, start_hour, start_minute, duration_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx,
		query,
		template.GroupID,
		template.ProfessorID,
		template.Weekday,
		template.StartHour,
		template.StartMinute,
		template.DurationMinutes,
		template.IsActive,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create recurring availability: %w", err)
	}

	return nil
}

func (r *RecurringAvailabilityRepository) GetByProfessorID(ctx context.Context, professorID uuid.UUID) ([]*model.RecurringAvailability, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_availability
		WHERE professor_id = $1
		ORDER BY weekday, start_hour, start_minute
	`

	rows, err := r.Query(ctx, query, professorID)
	if err != nil {
		return nil, fmt.Errorf("get recurring availability by professor: %w", err)
	}

	return collectRecurring(rows)
}

func (r *RecurringAvailabilityRepository) GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*model.RecurringAvailability, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_availability
		WHERE group_id = $1
		ORDER BY weekday, start_hour, start_minute
	`

	rows, err := r.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("get recurring availability by group_id: %w", err)
	}

	return collectRecurring(rows)
}

// GetAllActive returns every active template, for the periodic generator
func (r *RecurringAvailabilityRepository) GetAllActive(ctx context.Context) ([]*model.RecurringAvailability, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_availability
		WHERE is_active = true
		ORDER BY professor_id, weekday, start_hour, start_minute
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all active recurring availability: %w", err)
	}

	return collectRecurring(rows)
}

func (r *RecurringAvailabilityRepository) DeactivateByGroupID(ctx context.Context, groupID uuid.UUID) error {
	query := `
		UPDATE recurring_availability
		SET is_active = false, updated_at = now()
		WHERE group_id = $1
	`

	_, err := r.ExecAffected(ctx, query, groupID)
	if err != nil {
		return fmt.Errorf("deactivate recurring availability group: %w", err)
	}

	return nil
}

func collectRecurring(rows pgx.Rows) ([]*model.RecurringAvailability, error) {
	defer rows.Close()

	templates := []*model.RecurringAvailability{}
	for rows.Next() {
		template := &model.RecurringAvailability{}
		err := rows.Scan(
			&template.ID,
			&template.GroupID,
			&template.ProfessorID,
			&template.Weekday,
			&template.StartHour,
			&template.StartMinute,
			&template.DurationMinutes,
			&template.IsActive,
			&template.CreatedAt,
			&template.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan recurring availability: %w", err)
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring availability: %w", err)
	}

	return templates, nil
}
