package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/office_hours/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 2 * time.Minute

type SlotGenerator interface {
	GenerateAll(ctx context.Context, weeksAhead int) (service.GenerationStats, error)
}

type ReminderSender interface {
	SendUpcoming(ctx context.Context) (int, error)
}

type SchedulerConfig struct {
	RecurringSchedule   string
	RecurringWeeksAhead int
	ReminderSchedule    string
}

// Scheduler runs the background jobs: expanding recurring availability into
// slots and sending appointment reminders.
type Scheduler struct {
	cron      *cron.Cron
	generator SlotGenerator
	reminders ReminderSender
	cfg       SchedulerConfig
	logger    *zap.Logger
}

func NewScheduler(generator SlotGenerator, reminders ReminderSender, cfg SchedulerConfig, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		generator: generator,
		reminders: reminders,
		cfg:       cfg,
		logger:    logger,
	}

	if _, err := s.cron.AddFunc(cfg.RecurringSchedule, s.generateSlots); err != nil {
		return nil, fmt.Errorf("schedule slot generation %q: %w", cfg.RecurringSchedule, err)
	}
	if _, err := s.cron.AddFunc(cfg.ReminderSchedule, s.sendReminders); err != nil {
		return nil, fmt.Errorf("schedule reminders %q: %w", cfg.ReminderSchedule, err)
	}

	return s, nil
}

// Run generates slots once, starts the cron loop and blocks until ctx is
// done. Running jobs are awaited before it returns.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("Starting background scheduler",
		zap.String("recurring_schedule", s.cfg.RecurringSchedule),
		zap.String("reminder_schedule", s.cfg.ReminderSchedule),
	)

	s.generateSlots()
	s.cron.Start()

	<-ctx.Done()

	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
	return nil
}

func (s *Scheduler) generateSlots() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	stats, err := s.generator.GenerateAll(ctx, s.cfg.RecurringWeeksAhead)
	if err != nil {
		s.logger.Error("Failed to generate slots", zap.Error(err))
		return
	}

	s.logger.Info("Slot generation completed",
		zap.Int("created", stats.Created),
		zap.Int("skipped", stats.Skipped),
	)
}

func (s *Scheduler) sendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	count, err := s.reminders.SendUpcoming(ctx)
	if err != nil {
		s.logger.Error("Failed to send reminders", zap.Error(err))
		return
	}

	if count > 0 {
		s.logger.Info("Reminders sent", zap.Int("appointments", count))
	}
}
