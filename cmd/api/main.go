package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/company-portal/internal/api/http"
	"github.com/spec-kit/company-portal/internal/api/http/handlers"
	"github.com/spec-kit/company-portal/internal/auth"
	"github.com/spec-kit/company-portal/internal/config"
	"github.com/spec-kit/company-portal/internal/events"
	"github.com/spec-kit/company-portal/internal/observability"
	"github.com/spec-kit/company-portal/internal/persistence"
	"github.com/spec-kit/company-portal/internal/repository"
	"github.com/spec-kit/company-portal/internal/service"
	"github.com/spec-kit/company-portal/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.SecretGenerated {
		logger.Warn("AUTH_JWT_SECRET not set; using a random secret, tokens will not survive a restart")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var redis *persistence.Redis
	if cfg.Redis.Enabled {
		redis = persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
	}

	dispatcher := newDispatcher(ctx, cfg, redis, logger)
	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	adminRepo := repository.NewAdminRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)

	attendanceService := service.NewAttendanceService(attendanceRepo, metrics, logger)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AdminRepo:    adminRepo,
		EmployeeRepo: employeeRepo,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
	})
	orgDeps := service.OrgDependencies{
		EmployeeRepo: employeeRepo,
		ProjectRepo:  repository.NewProjectRepository(pool),
		TaskRepo:     repository.NewTaskRepository(pool),
		ReportRepo:   repository.NewReportRepository(pool),
		Attendance:   attendanceService,
		Logger:       logger,
	}
	adminService := service.NewAdminService(*cfg, orgDeps)
	employeeService := service.NewEmployeeService(orgDeps)

	worker.StartAttendanceWorker(dispatcher, attendanceService, logger)
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:      cfg.App.RequestTimeout(),
		AllowOrigins: cfg.CORS.AllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Admin:          handlers.NewAdminHandler(adminService),
		Employee:       handlers.NewEmployeeHandler(employeeService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn("event handlers did not drain", zap.Error(err))
	}
}

func newDispatcher(ctx context.Context, cfg *config.Config, redis *persistence.Redis, logger *zap.Logger) events.Dispatcher {
	if cfg.Events.Backend != config.EventsBackendRedis {
		return events.NewInMemoryDispatcher(logger)
	}
	d := events.NewRedisDispatcher(redis.Client, cfg.Events.Channel, logger)
	if err := d.Start(ctx); err != nil {
		logger.Fatal("failed to start redis event dispatcher", zap.Error(err))
	}
	return d
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
