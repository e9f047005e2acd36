package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/config"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/notification"
	appHTTP "github.com/cmlabs-hris/shiftwatch-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/tokenstore"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/webhook"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/shiftwatch-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/shiftwatch-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/shiftwatch-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/shiftwatch-backend-go/internal/service/employee"
	notificationService "github.com/cmlabs-hris/shiftwatch-backend-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/shiftwatch-backend-go/internal/service/report"
	shiftService "github.com/cmlabs-hris/shiftwatch-backend-go/internal/service/shift"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shiftwatch"),
		slog.String("env", cfg.App.Env),
	)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.MigrateUp(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("database migrations applied")
	}

	var revoked tokenstore.Store
	if cfg.Redis.Addr != "" {
		revoked, err = tokenstore.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
	} else {
		slog.Warn("REDIS_ADDR not set, revoked tokens are kept in memory")
		revoked = tokenstore.NewMemoryStore()
	}
	defer revoked.Close()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, revoked)
	if err != nil {
		return fmt.Errorf("invalid jwt configuration: %w", err)
	}

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	loc := cfg.Location()
	minHours := cfg.Shift.MinHours

	tx := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db, loc)
	reportRepo := postgresql.NewReportRepository(db)
	webhookLogRepo := postgresql.NewWebhookLogRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	hub := sse.NewHub()
	dispatcher, err := newDispatcher(cfg, webhookLogRepo, hub)
	if err != nil {
		return err
	}

	authSvc := serviceAuth.NewAuthService(tx, employeeRepo, departmentRepo, refreshTokenRepo, JWTService)
	employeeSvc := employeeService.NewEmployeeService(tx, employeeRepo, departmentRepo)
	shiftSvc := shiftService.NewShiftService(tx, shiftRepo, employeeRepo, dispatcher, minHours, loc)
	attendanceSvc := attendanceService.NewAttendanceService(tx, attendanceRepo, shiftRepo, dispatcher, minHours, loc)
	exportSvc := attendanceService.NewExportService(attendanceRepo, loc)
	reportSvc := reportService.NewReportService(tx, reportRepo, attendanceRepo, dispatcher)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, shiftRepo, employeeRepo, minHours, loc)
	deliveryLogSvc := notificationService.NewDeliveryLogService(webhookLogRepo)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authSvc, googleService, cfg.App.FrontendURL),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc, dashboardSvc),
		Shift:        appHTTP.NewShiftHandler(shiftSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, exportSvc),
		Report:       appHTTP.NewReportHandler(reportSvc),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
		Notification: appHTTP.NewNotificationHandler(deliveryLogSvc, JWTService, hub),
	}, appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	// open event streams would otherwise hold Shutdown until the deadline
	hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	dispatcher.Close()
	return nil
}

// newDispatcher wires a sender for every configured destination. Routes that
// name an unconfigured destination are logged and skipped at delivery time.
func newDispatcher(cfg *config.Config, logs notification.DeliveryLogRepository, hub *sse.Hub) (notification.Dispatcher, error) {
	registry, err := notification.NewRegistry(cfg.Notification.Routes)
	if err != nil {
		return nil, fmt.Errorf("invalid notification routes: %w", err)
	}

	client := webhook.NewClient(cfg.Notification.Timeout, webhook.NewSigner(cfg.Notification.WebhookSecret))

	var senders []notification.Sender
	var enabled []string
	if cfg.Notification.SlackWebhookURL != "" {
		senders = append(senders, notificationService.NewSlackSender(cfg.Notification.SlackWebhookURL, client))
		enabled = append(enabled, string(notification.DestinationSlack))
	}
	if cfg.Notification.WebhookURL != "" {
		senders = append(senders, notificationService.NewWebhookSender(cfg.Notification.WebhookURL, client))
		enabled = append(enabled, string(notification.DestinationWebhook))
	}
	if cfg.SMTP.Host != "" && len(cfg.Notification.EmailTo) > 0 {
		mailer, err := email.NewEmailService(cfg.SMTP)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize email service: %w", err)
		}
		senders = append(senders, notificationService.NewEmailSender(mailer, cfg.Notification.EmailTo))
		enabled = append(enabled, string(notification.DestinationEmail))
	}
	slog.Info("notification destinations", "enabled", strings.Join(enabled, ","))

	return notificationService.NewDispatcher(registry, senders, logs, hub, notificationService.Config{
		Workers:   cfg.Notification.Workers,
		QueueSize: cfg.Notification.QueueSize,
		Timeout:   cfg.Notification.Timeout,
	}), nil
}
