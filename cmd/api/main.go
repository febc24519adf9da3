package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/config"
	appHTTP "github.com/cmlabs-hris/hrms-portal/internal/handler/http"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/cron"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/querycache"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/sse"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/storage"
	"github.com/cmlabs-hris/hrms-portal/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/hrms-portal/internal/service/employee"
	holidayService "github.com/cmlabs-hris/hrms-portal/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hrms-portal/internal/service/leave"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := parseLogLevel(cfg.App.LogLevel)
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	var rdb *redis.Client
	if addr := cfg.RedisAddr(); addr != "" {
		rdb, err = database.NewRedisClient(ctx, addr, cfg.Redis.Password, cfg.Redis.DB, 5)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
	} else {
		logger.Warn("REDIS_HOST not set, query cache only coalesces concurrent loads")
	}

	cache := querycache.New(rdb,
		querycache.WithTTL(cfg.Cache.TTL),
		querycache.WithPrefix(cfg.Cache.Prefix),
	)
	hub := sse.NewHub()

	holidayRepo := postgresql.NewHolidayRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	var holidayOpts []holidayService.Option
	if dir := cfg.Storage.ImportArchiveDir; dir != "" {
		archive, err := storage.NewLocalStorage(dir)
		if err != nil {
			return fmt.Errorf("init import archive: %w", err)
		}
		holidayOpts = append(holidayOpts, holidayService.WithImportArchive(archive))
	}
	holidaySvc := holidayService.NewHolidayService(holidayRepo, cache, hub, holidayOpts...)
	leaveSvc := leaveService.NewLeaveService(holidaySvc)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, cache,
		employeeService.WithDirectoryTTL(cfg.Cache.DirectoryTTL),
	)

	defaults := pagination.Defaults{
		Limit:    cfg.Pagination.DefaultPageSize,
		MaxLimit: cfg.Pagination.MaxPageSize,
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.App.AllowedOrigins,
			LogLevel:       level,
		},
		JWTService,
		appHTTP.Handlers{
			Session:  appHTTP.NewSessionHandler(JWTService),
			Leave:    appHTTP.NewLeaveHandler(leaveSvc),
			Holiday:  appHTTP.NewHolidayHandler(holidaySvc, defaults),
			Employee: appHTTP.NewEmployeeHandler(employeeSvc, defaults),
			Events:   appHTTP.NewEventsHandler(JWTService, hub),
		},
	)

	scheduler := cron.NewScheduler()
	cron.NewCalendarJobs(holidaySvc, cfg.Cron.CalendarWarmupInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		// Open event streams end with the signal context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "jobs", scheduler.JobNames())
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server exited gracefully")
		return nil
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
