package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrmflow/internal/domain/attendance"
	"hrmflow/internal/domain/audit"
	"hrmflow/internal/domain/auth"
	"hrmflow/internal/domain/employee"
	"hrmflow/internal/domain/leave"
	"hrmflow/internal/domain/notifications"
	"hrmflow/internal/domain/onboarding"
	"hrmflow/internal/domain/payroll"
	"hrmflow/internal/domain/reports"
	"hrmflow/internal/domain/request"
	"hrmflow/internal/platform/config"
	"hrmflow/internal/platform/db"
	"hrmflow/internal/platform/metrics"
	"hrmflow/internal/transport/http/api"
	attendancehandler "hrmflow/internal/transport/http/handlers/attendance"
	auditloghandler "hrmflow/internal/transport/http/handlers/auditlog"
	authhandler "hrmflow/internal/transport/http/handlers/auth"
	employeehandler "hrmflow/internal/transport/http/handlers/employee"
	leavehandler "hrmflow/internal/transport/http/handlers/leave"
	notificationhandler "hrmflow/internal/transport/http/handlers/notification"
	onboardinghandler "hrmflow/internal/transport/http/handlers/onboarding"
	payrollhandler "hrmflow/internal/transport/http/handlers/payroll"
	reportshandler "hrmflow/internal/transport/http/handlers/reports"
	requesthandler "hrmflow/internal/transport/http/handlers/request"
	"hrmflow/internal/transport/http/middleware"
)

type App struct {
	Config    config.Config
	Pool      *pgxpool.Pool
	Router    chi.Router
	Collector *metrics.Collector

	server *http.Server
}

// New wires the domain services and the HTTP surface onto one router.
func New(cfg config.Config, pool *pgxpool.Pool) *App {
	collector := metrics.New()

	authStore := auth.NewStore(pool)
	authService := auth.NewService(authStore, cfg.JWTSecret, cfg.TokenTTL)

	employeeStore := employee.NewStore(pool)
	auditService := audit.New(pool)
	notifier := notifications.New(pool)

	requestService := request.NewService(request.NewStore(pool))
	onboardingService := onboarding.NewService(onboarding.NewStore(pool))
	payrollService := payroll.NewService(payroll.NewStore(pool), employeeStore)
	leaveService := leave.NewService(leave.NewStore(pool), employeeStore)
	attendanceStore := attendance.NewStore(pool)
	reportsService := reports.NewService(reports.NewStore(pool))
	idempotency := middleware.NewIdempotencyStore(pool)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(collector))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	r.Use(middleware.Auth(cfg.JWTSecret, authStore))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", handleReadyz(pool))

	r.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService).RegisterRoutes(r)
		employeehandler.NewHandler(employeeStore, auditService).RegisterRoutes(r)
		requesthandler.NewHandler(requestService, auditService, notifier).RegisterRoutes(r)
		onboardinghandler.NewHandler(onboardingService, auditService, notifier).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService, auditService, notifier, idempotency).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService, auditService, notifier).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceStore).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService).RegisterRoutes(r)
		notificationhandler.NewHandler(notifier).RegisterRoutes(r)
		auditloghandler.NewHandler(auditService).RegisterRoutes(r)

		if cfg.MetricsEnabled {
			r.With(middleware.RequireCapability(auth.CapMetricsRead)).
				Get("/metrics", handleMetrics(collector))
		}
	})

	return &App{
		Config:    cfg,
		Pool:      pool,
		Router:    r,
		Collector: collector,
	}
}

func (a *App) Run(ctx context.Context) error {
	a.server = &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", a.Config.Addr, "env", a.Config.Environment)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}
}

func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}

var _ db.Querier = (*pgxpool.Pool)(nil)

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]string{"status": "ok"}, middleware.GetRequestID(r.Context()))
}

func handleReadyz(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			api.Fail(w, http.StatusServiceUnavailable, "not_ready", "database unreachable", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, map[string]string{"status": "ready"}, middleware.GetRequestID(r.Context()))
	}
}

func handleMetrics(collector *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
	}
}
