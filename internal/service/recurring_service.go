package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/office_hours/internal/clock"
	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxRecurringDuration = 24 * 60

// TimeOfDay is a UTC wall-clock start time inside a weekly template.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// SlotPublisher creates availability slots through the overlap check.
type SlotPublisher interface {
	CreateAvailability(ctx context.Context, professorID uuid.UUID, interval model.Interval) (*model.AvailabilitySlot, error)
}

// GenerationStats counts the outcome of expanding templates into slots.
// Skipped covers occurrences in the past and those overlapping existing slots.
type GenerationStats struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

func (g *GenerationStats) add(o GenerationStats) {
	g.Created += o.Created
	g.Skipped += o.Skipped
}

// RecurringGroup is the set of templates created by one request.
type RecurringGroup struct {
	GroupID   uuid.UUID                      `json:"groupId"`
	Templates []*model.RecurringAvailability `json:"templates"`
	Generated GenerationStats                `json:"generated"`
}

// RecurringService manages weekly availability templates and expands them
// into concrete slots.
type RecurringService struct {
	recurring  RecurringStore
	publisher  SlotPublisher
	clock      clock.Clock
	weeksAhead int
	logger     *zap.Logger
}

func NewRecurringService(recurring RecurringStore, publisher SlotPublisher, clk clock.Clock, weeksAhead int, logger *zap.Logger) *RecurringService {
	return &RecurringService{
		recurring:  recurring,
		publisher:  publisher,
		clock:      clk,
		weeksAhead: weeksAhead,
		logger:     logger,
	}
}

// CreateGroup stores one template per weekday and start time, all sharing a
// new group id, and generates their first weeks of slots.
// weekdays use 0 = Sunday through 6 = Saturday.
func (s *RecurringService) CreateGroup(ctx context.Context, professorID uuid.UUID, weekdays []int, times []TimeOfDay, durationMinutes int) (*RecurringGroup, error) {
	if err := validateRecurrence(weekdays, times, durationMinutes); err != nil {
		return nil, err
	}

	group := &RecurringGroup{
		GroupID:   uuid.New(),
		Templates: make([]*model.RecurringAvailability, 0, len(weekdays)*len(times)),
	}

	for _, weekday := range weekdays {
		for _, at := range times {
			template := &model.RecurringAvailability{
				GroupID:         group.GroupID,
				ProfessorID:     professorID,
				Weekday:         weekday,
				StartHour:       at.Hour,
				StartMinute:     at.Minute,
				DurationMinutes: durationMinutes,
				IsActive:        true,
			}

			if err := s.recurring.Create(ctx, template); err != nil {
				return nil, fmt.Errorf("create recurring availability: %w", err)
			}
			group.Templates = append(group.Templates, template)
		}
	}

	for _, template := range group.Templates {
		stats, err := s.generate(ctx, template, s.weeksAhead)
		if err != nil {
			s.logger.Error("Failed to generate initial slots",
				zap.Error(err),
				zap.String("recurring_id", template.ID.String()),
			)
			continue
		}
		group.Generated.add(stats)
	}

	s.logger.Info("Recurring availability group created",
		zap.String("group_id", group.GroupID.String()),
		zap.String("professor_id", professorID.String()),
		zap.Int("templates", len(group.Templates)),
		zap.Int("slots_created", group.Generated.Created),
		zap.Int("slots_skipped", group.Generated.Skipped),
	)

	return group, nil
}

func (s *RecurringService) ListByProfessor(ctx context.Context, professorID uuid.UUID) ([]*model.RecurringAvailability, error) {
	templates, err := s.recurring.GetByProfessorID(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("list recurring availability: %w", err)
	}
	return templates, nil
}

// DeactivateGroup stops future generation for the group. Slots already
// generated stay published.
func (s *RecurringService) DeactivateGroup(ctx context.Context, professorID, groupID uuid.UUID) error {
	templates, err := s.recurring.GetByGroupID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("get recurring availability group: %w", err)
	}

	if len(templates) == 0 {
		return ErrRecurringNotFound
	}

	if templates[0].ProfessorID != professorID {
		return ErrNotRecurringOwner
	}

	if err := s.recurring.DeactivateByGroupID(ctx, groupID); err != nil {
		return fmt.Errorf("deactivate recurring availability group: %w", err)
	}

	s.logger.Info("Recurring availability group deactivated",
		zap.String("group_id", groupID.String()),
		zap.String("professor_id", professorID.String()),
	)

	return nil
}

// GenerateAll expands every active template weeksAhead weeks forward. A
// failing template is logged and does not stop the others.
func (s *RecurringService) GenerateAll(ctx context.Context, weeksAhead int) (GenerationStats, error) {
	var total GenerationStats

	templates, err := s.recurring.GetAllActive(ctx)
	if err != nil {
		return total, fmt.Errorf("get active recurring availability: %w", err)
	}

	for _, template := range templates {
		stats, err := s.generate(ctx, template, weeksAhead)
		if err != nil {
			s.logger.Error("Failed to generate slots for recurring availability",
				zap.Error(err),
				zap.String("recurring_id", template.ID.String()),
			)
			continue
		}
		total.add(stats)
	}

	s.logger.Info("Generated slots for recurring availability",
		zap.Int("templates", len(templates)),
		zap.Int("slots_created", total.Created),
		zap.Int("slots_skipped", total.Skipped),
	)

	return total, nil
}

func (s *RecurringService) generate(ctx context.Context, template *model.RecurringAvailability, weeksAhead int) (GenerationStats, error) {
	var stats GenerationStats

	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekday := time.Weekday(template.Weekday)

	for i := 0; i < weeksAhead*7; i++ {
		date := today.AddDate(0, 0, i)
		if date.Weekday() != weekday {
			continue
		}

		occurrence := template.OccurrenceOn(date)

		_, err := s.publisher.CreateAvailability(ctx, template.ProfessorID, occurrence)
		switch {
		case err == nil:
			stats.Created++
		case errors.Is(err, ErrPastInterval), errors.Is(err, ErrAvailabilityOverlap):
			s.logger.Debug("Recurring occurrence skipped",
				zap.String("recurring_id", template.ID.String()),
				zap.Time("start_time", occurrence.Start),
				zap.String("reason", err.Error()),
			)
			stats.Skipped++
		default:
			return stats, fmt.Errorf("create recurring occurrence: %w", err)
		}
	}

	return stats, nil
}

func validateRecurrence(weekdays []int, times []TimeOfDay, durationMinutes int) error {
	if len(weekdays) == 0 || len(times) == 0 {
		return fmt.Errorf("%w: at least one weekday and one start time are required", ErrInvalidRecurrence)
	}

	seen := make(map[int]bool, len(weekdays))
	for _, weekday := range weekdays {
		if weekday < 0 || weekday > 6 {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidRecurrence, weekday)
		}
		if seen[weekday] {
			return fmt.Errorf("%w: weekday %d repeated", ErrInvalidRecurrence, weekday)
		}
		seen[weekday] = true
	}

	for _, at := range times {
		if at.Hour < 0 || at.Hour > 23 || at.Minute < 0 || at.Minute > 59 {
			return fmt.Errorf("%w: start time %02d:%02d out of range", ErrInvalidRecurrence, at.Hour, at.Minute)
		}
	}

	if durationMinutes <= 0 || durationMinutes > maxRecurringDuration {
		return fmt.Errorf("%w: duration must be between 1 and %d minutes", ErrInvalidRecurrence, maxRecurringDuration)
	}

	return nil
}
