package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/config"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/event"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/timeclock"
	appHTTP "github.com/cmlabs-hris/shift-planner-go/internal/handler/http"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/cron"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/database"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/sse"
	"github.com/cmlabs-hris/shift-planner-go/internal/repository/memory"
	"github.com/cmlabs-hris/shift-planner-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/shift-planner-go/internal/repository/sqlite"
	absenceService "github.com/cmlabs-hris/shift-planner-go/internal/service/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/service/calendar"
	"github.com/cmlabs-hris/shift-planner-go/internal/service/conflict"
	scheduleService "github.com/cmlabs-hris/shift-planner-go/internal/service/schedule"
	timeclockService "github.com/cmlabs-hris/shift-planner-go/internal/service/timeclock"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/sync/errgroup"
)

type repositories struct {
	shifts   shift.ShiftRepository
	events   event.EventRepository
	absences absence.AbsenceRepository
	sessions timeclock.SessionRepository
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shift-planner"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		stop()
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	clk := clock.System(cfg.Location())
	locks := keylock.New()
	hub := sse.NewHub()

	shiftSvc := scheduleService.NewScheduleService(
		repos.shifts,
		repos.absences,
		conflict.NewDetector(cfg.Planning.LegalDailyHours),
		clk,
		hub,
		locks,
	)
	eventSvc := scheduleService.NewEventService(repos.events, clk)
	absenceSvc := absenceService.NewAbsenceService(repos.absences, shiftSvc, clk, hub, locks)
	timeClockSvc := timeclockService.NewTimeClockService(repos.sessions, shiftSvc, clk, hub, locks, timeclockService.Config{
		TrainingDayMinutes:       cfg.Planning.TrainingDayMinutes,
		OvertimeReferenceMinutes: cfg.Planning.OvertimeReferenceMinutes,
	})
	planningSvc := calendar.NewCalendarService(repos.shifts, repos.events, repos.absences)

	accessExpiration, err := time.ParseDuration(cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("invalid access token lifetime: %w", err)
	}
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, accessExpiration)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{Logger: logger, AllowedOrigins: cfg.CORS.AllowedOrigins},
		JWTService,
		appHTTP.NewShiftHandler(shiftSvc),
		appHTTP.NewEventHandler(eventSvc),
		appHTTP.NewAbsenceHandler(absenceSvc),
		appHTTP.NewTimeClockHandler(timeClockSvc),
		appHTTP.NewPlanningHandler(planningSvc, clk),
		appHTTP.NewNotificationHandler(hub, JWTService),
	)

	scheduler := cron.NewScheduler(5 * time.Minute)
	cron.NewTimeClockJobs(shiftSvc, timeClockSvc, clk, cfg.Planning.StaleSessionAfter(), cfg.Planning.NoShowGrace()).
		RegisterJobs(scheduler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "store", cfg.Store.Driver, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		scheduler.Start(gctx)
		<-gctx.Done()
		scheduler.Stop()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return repositories{}, fmt.Errorf("connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return repositories{}, fmt.Errorf("migrate database: %w", err)
		}
		return repositories{
			shifts:   postgresql.NewShiftRepository(db),
			events:   postgresql.NewEventRepository(db),
			absences: postgresql.NewAbsenceRepository(db),
			sessions: postgresql.NewSessionRepository(db),
			close:    db.Close,
		}, nil

	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return repositories{}, fmt.Errorf("open sqlite store: %w", err)
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		repos := repositories{close: closeDB}
		if repos.shifts, err = sqlite.NewShiftRepository(db); err != nil {
			closeDB()
			return repositories{}, err
		}
		if repos.events, err = sqlite.NewEventRepository(db); err != nil {
			closeDB()
			return repositories{}, err
		}
		if repos.absences, err = sqlite.NewAbsenceRepository(db); err != nil {
			closeDB()
			return repositories{}, err
		}
		if repos.sessions, err = sqlite.NewSessionRepository(db); err != nil {
			closeDB()
			return repositories{}, err
		}
		return repos, nil

	default:
		slog.Warn("Using in-memory store, data is lost on restart")
		return repositories{
			shifts:   memory.NewShiftRepository(),
			events:   memory.NewEventRepository(),
			absences: memory.NewAbsenceRepository(),
			sessions: memory.NewSessionRepository(),
			close:    func() {},
		}, nil
	}
}
