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

const slotColumns = `id, professor_id, start_time, end_time, created_at`

// SlotFilter narrows availability slot lookups. Zero fields are ignored.
type SlotFilter struct {
	ProfessorID *uuid.UUID
	Overlapping *model.Interval
	EndAfter    *time.Time
}

type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(b *base.Repository) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: b}
}

// Create inserts a new availability slot
func (r *AvailabilityRepository) Create(ctx context.Context, slot *model.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots (professor_id, start_time, end_time)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.ProfessorID,
		slot.StartTime,
		slot.EndTime,
	).Scan(&slot.ID, &slot.CreatedAt)

	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE id = $1`

	slot, err := scanSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// GetByIDAndProfessor finds the slot only when it belongs to professorID
func (r *AvailabilityRepository) GetByIDAndProfessor(ctx context.Context, id, professorID uuid.UUID) (*model.AvailabilitySlot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE id = $1 AND professor_id = $2`

	slot, err := scanSlot(r.QueryRow(ctx, query, id, professorID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id and professor: %w", err)
	}

	return slot, nil
}

// Find returns the slots matching filter ordered by start time
func (r *AvailabilityRepository) Find(ctx context.Context, filter SlotFilter) ([]*model.AvailabilitySlot, error) {
	var w base.Where
	if filter.ProfessorID != nil {
		w.And("professor_id = " + w.Arg(*filter.ProfessorID))
	}
	if filter.Overlapping != nil {
		w.Overlapping("", filter.Overlapping.Start, filter.Overlapping.End)
	}
	if filter.EndAfter != nil {
		w.And("end_time > " + w.Arg(*filter.EndAfter))
	}

	query := `SELECT ` + slotColumns + ` FROM availability_slots ` + w.SQL() + ` ORDER BY start_time`

	rows, err := r.Query(ctx, query, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("find slots: %w", err)
	}
	defer rows.Close()

	slots := []*model.AvailabilitySlot{}
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}

func scanSlot(row pgx.Row) (*model.AvailabilitySlot, error) {
	var slot model.AvailabilitySlot
	err := row.Scan(
		&slot.ID,
		&slot.ProfessorID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
