package http

import (
	"log/slog"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-planner-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	shiftHandler ShiftHandler,
	eventHandler EventHandler,
	absenceHandler AbsenceHandler,
	timeClockHandler TimeClockHandler,
	planningHandler PlanningHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// SSE authenticates through a short-lived token in the query string
		r.Get("/notifications/stream", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/notifications/sse-token", notificationHandler.GetSSEToken)

			r.Route("/shifts", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionScheduleView)).Get("/", shiftHandler.List)
				r.With(middleware.RequirePermission(user.PermissionScheduleView)).Get("/{id}", shiftHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionScheduleManage))
					r.Post("/", shiftHandler.Create)
					r.Post("/duplicate", shiftHandler.Duplicate)
					r.Post("/check-conflicts", shiftHandler.CheckConflicts)
					r.Put("/{id}", shiftHandler.Update)
					r.Delete("/{id}", shiftHandler.Delete)
				})
			})

			r.Route("/events", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionScheduleView)).Get("/", eventHandler.List)
				r.With(middleware.RequirePermission(user.PermissionScheduleView)).Get("/{id}", eventHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEventManage))
					r.Post("/", eventHandler.Create)
					r.Put("/{id}", eventHandler.Update)
					r.Delete("/{id}", eventHandler.Delete)
				})
			})

			r.Route("/absences", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAbsenceRequest))
				r.Get("/", absenceHandler.List)
				r.Post("/", absenceHandler.Request)
				r.Get("/{id}", absenceHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAbsenceDecide))
					r.Post("/{id}/decision", absenceHandler.Decide)
					r.Post("/{id}/cascade", absenceHandler.RetryCascade)
				})
			})

			r.Route("/timeclock", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionTimeClockUse))
				r.Post("/clock-in", timeClockHandler.ClockIn)
				r.Post("/clock-out", timeClockHandler.ClockOut)
				r.Post("/training", timeClockHandler.Training)
				r.Post("/breaks/start", timeClockHandler.StartBreak)
				r.Post("/breaks/end", timeClockHandler.EndBreak)
				r.Get("/current", timeClockHandler.Current)
				r.Get("/entries", timeClockHandler.Entries)
				r.Get("/stats", timeClockHandler.Stats)

				r.With(middleware.RequirePermission(user.PermissionTimeClockCorrect)).Put("/sessions/{id}", timeClockHandler.CorrectSession)
			})

			r.Route("/planning", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionScheduleView)).Get("/week", planningHandler.Week)
				r.With(middleware.RequireManager).Get("/stats", planningHandler.Stats)
			})
		})
	})
	return r
}
