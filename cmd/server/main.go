package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/office_hours/internal/app"
	"github.com/Freeeeeet/office_hours/internal/clock"
	"github.com/Freeeeeet/office_hours/internal/config"
	"github.com/Freeeeeet/office_hours/internal/controller/rest"
	"github.com/Freeeeeet/office_hours/internal/controller/telegram"
	"github.com/Freeeeeet/office_hours/internal/lock"
	"github.com/Freeeeeet/office_hours/internal/notify"
	"github.com/Freeeeeet/office_hours/internal/repository"
	"github.com/Freeeeeet/office_hours/internal/repository/base"
	"github.com/Freeeeeet/office_hours/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Office hours server stopped with error", zap.Error(err))
	}
	logger.Info("Office hours server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) (err error) {
	logger.Info("Starting office hours server",
		zap.String("environment", cfg.Environment),
		zap.String("lock_mode", cfg.LockMode),
		zap.Bool("telegram", cfg.TelegramToken != ""),
	)

	pool, err := app.NewPostgresPool(ctx, cfg.DBDSN, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		return multierr.Append(err, migrator.Close())
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator connection", zap.Error(err))
	}

	reserver, closeReserver, err := newReserver(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeReserver()) }()

	var (
		telegramBot *bot.Bot
		notifier    service.Notifier = notify.NewLog(logger.Named("notify"))
	)
	if cfg.TelegramToken != "" {
		telegramBot, err = bot.New(cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}
		notifier = notify.NewTelegram(telegramBot, logger.Named("notify"))
	} else {
		logger.Info("TELEGRAM_TOKEN not set, notifications are logged only")
	}

	db := base.NewRepository(pool)
	users := repository.NewUserRepository(db)
	slots := repository.NewAvailabilityRepository(db)
	appointments := repository.NewAppointmentRepository(db)
	recurring := repository.NewRecurringAvailabilityRepository(db)

	clk := clock.System{}
	bookingService := service.NewBookingService(users, slots, appointments, reserver, notifier, clk, logger.Named("booking"))
	userService := service.NewUserService(users, logger.Named("users"))
	recurringService := service.NewRecurringService(recurring, bookingService, clk, cfg.RecurringWeeksAhead, logger.Named("recurring"))
	reminderService := service.NewReminderService(appointments, users, notifier, clk, cfg.ReminderLead, logger.Named("reminders"))

	scheduler, err := app.NewScheduler(recurringService, reminderService, app.SchedulerConfig{
		RecurringSchedule:   cfg.RecurringSchedule,
		RecurringWeeksAhead: cfg.RecurringWeeksAhead,
		ReminderSchedule:    cfg.ReminderSchedule,
	}, logger.Named("scheduler"))
	if err != nil {
		return err
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := rest.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	handler := rest.NewHandler(bookingService, userService, recurringService, tokens, cfg.TokenName, logger.Named("http"))
	router, err := rest.NewRouter(handler, logger.Named("http"))
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	if telegramBot != nil {
		controller := telegram.NewBotController(telegramBot, userService, bookingService, logger.Named("telegram"))
		if err := controller.RegisterHandlers(ctx); err != nil {
			logger.Warn("Failed to register telegram commands", zap.Error(err))
		}
		g.Go(func() error {
			return controller.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// newReserver picks the reservation backend for LOCK_MODE. The returned
// close func releases any connection it opened.
func newReserver(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Reserver, func() error, error) {
	noop := func() error { return nil }

	switch cfg.LockMode {
	case config.LockModeRedis:
		client, err := app.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			return nil, noop, err
		}
		reserver := lock.NewRedis(client, lock.RedisOptions{
			Prefix: "office_hours:lock:",
			TTL:    cfg.LockTTL,
		}, logger.Named("lock"))
		return reserver, client.Close, nil
	case config.LockModeNone:
		logger.Warn("Reservations disabled, concurrent writes may produce overlapping slots or duplicate appointments")
		return lock.None{}, noop, nil
	default:
		return lock.NewLocal(), noop, nil
	}
}
