package http

import (
	"log/slog"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Auth         AuthHandler
	Employee     EmployeeHandler
	Shift        ShiftHandler
	Attendance   AttendanceHandler
	Report       ReportHandler
	Dashboard    DashboardHandler
	Notification NotificationHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
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

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)
		})

		// EventSource cannot set headers; the stream checks its own token.
		r.Get("/events/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/auth/me", h.Auth.Me)
			r.Get("/events/token", h.Notification.GetSSEToken)
			r.Get("/dashboard", h.Dashboard.Summary)

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", h.Employee.ListDepartments)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(access.PermissionDepartmentManage))
					r.Post("/", h.Employee.CreateDepartment)
					r.Delete("/{id}", h.Employee.DeleteDepartment)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.List)
				r.Get("/{id}", h.Employee.Get)
				r.Get("/{id}/stats", h.Employee.Stats)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(access.PermissionEmployeeManage))
					r.Post("/", h.Employee.Create)
					r.Put("/{id}", h.Employee.Update)
					r.Put("/{id}/supervisor", h.Employee.AssignSupervisor)
					r.Delete("/{id}", h.Employee.Delete)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", h.Shift.List)
				r.Post("/", h.Shift.Create)
				r.Get("/{id}", h.Shift.Get)
				r.Put("/{id}", h.Shift.Update)
				r.Delete("/{id}", h.Shift.Delete)
				r.Patch("/{id}/start", h.Shift.Start)
				r.Patch("/{id}/end", h.Shift.End)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(access.PermissionShiftManage))
					r.Patch("/{id}/cancel", h.Shift.Cancel)
					r.Patch("/{id}/missed", h.Shift.MarkMissed)
					r.Patch("/{id}/no-show", h.Shift.MarkNoShow)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", h.Attendance.ClockIn)
				r.Post("/clock-out", h.Attendance.ClockOut)
				r.Post("/break/start", h.Attendance.StartBreak)
				r.Post("/break/end", h.Attendance.EndBreak)
				r.Get("/status", h.Attendance.Status)
				r.Get("/today", h.Attendance.Today)
				r.Get("/history", h.Attendance.History)

				r.With(middleware.RequirePermission(access.PermissionAttendanceTeam)).Get("/team", h.Attendance.Team)
				r.With(middleware.RequirePermission(access.PermissionAttendanceExport)).Get("/export", h.Attendance.Export)

				r.Get("/{id}", h.Attendance.Get)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", h.Report.List)
				r.Post("/", h.Report.Submit)
				r.Get("/{id}", h.Report.Get)
				r.Put("/{id}", h.Report.Update)
				r.Delete("/{id}", h.Report.Delete)
				r.With(middleware.RequirePermission(access.PermissionReportApprove)).Post("/{id}/approve", h.Report.Approve)
			})

			r.With(middleware.RequirePermission(access.PermissionWebhookLogView)).Get("/webhooks/logs", h.Notification.ListDeliveryLogs)
		})
	})
	return r
}
