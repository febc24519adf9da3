package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/user"
	"github.com/cmlabs-hris/hrms-portal/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-portal/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	Session  SessionHandler
	Leave    LeaveHandler
	Holiday  HolidayHandler
	Employee EmployeeHandler
	Events   EventsHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
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
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot send headers, the stream authenticates with ?token=
		r.Get("/events", h.Events.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/session", func(r chi.Router) {
				r.Get("/", h.Session.Get)
				r.Post("/sse-token", h.Session.SSEToken)
			})

			// Company scoped
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCompany)

				r.With(middleware.RequirePermission(user.PermissionLeaveCalculate)).
					Post("/leave/working-days", h.Leave.WorkingDays)

				r.Route("/holidays", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionHolidayView)).Get("/", h.Holiday.List)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionHolidayManage))
						r.Post("/", h.Holiday.Create)
						r.Post("/import", h.Holiday.Import)
						r.Delete("/{id}", h.Holiday.Delete)
					})
				})

				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).
					Get("/employees", h.Employee.List)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
