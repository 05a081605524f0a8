package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/office_hours/internal/clock"
	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/Freeeeeet/office_hours/internal/repository"
	"github.com/google/uuid"
)

// SlotOverlap lists the professor's slots that a candidate interval overlaps.
type SlotOverlap struct {
	Conflicting []*model.AvailabilitySlot
}

func (o *SlotOverlap) Clear() bool {
	return len(o.Conflicting) == 0
}

// AvailabilityChecker decides whether a professor may publish a new window.
// It only reads.
type AvailabilityChecker struct {
	slots SlotStore
	clock clock.Clock
}

func NewAvailabilityChecker(slots SlotStore, clk clock.Clock) *AvailabilityChecker {
	return &AvailabilityChecker{slots: slots, clock: clk}
}

// CheckSlotOverlap validates candidate and returns the professor's slots it
// overlaps, ordered by start time.
func (c *AvailabilityChecker) CheckSlotOverlap(ctx context.Context, professorID uuid.UUID, candidate model.Interval) (*SlotOverlap, error) {
	if err := candidate.Validate(c.clock.Now()); err != nil {
		return nil, err
	}

	slots, err := c.slots.Find(ctx, repository.SlotFilter{
		ProfessorID: &professorID,
		Overlapping: &candidate,
	})
	if err != nil {
		return nil, fmt.Errorf("find overlapping slots: %w", err)
	}

	return &SlotOverlap{Conflicting: slots}, nil
}
