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

	"github.com/cmlabs-hris/hrm-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hrm-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hrm-backend-go/internal/service/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/hrm-backend-go/internal/service/leave"
	regularizationService "github.com/cmlabs-hris/hrm-backend-go/internal/service/regularization"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	}))
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	clk := clock.New(loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := postgresql.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	txManager := postgresql.NewTxManager(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	regularizationRepo := postgresql.NewRegularizationRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveLedgerRepo := postgresql.NewLeaveLedgerRepository(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("initialize local storage: %w", err)
	}
	fileService := file.NewFileService(fileStorage)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("initialize jwt service: %w", err)
	}

	attendanceSvc := attendanceService.NewAttendanceService(txManager, attendanceRepo, employeeRepo, clk)
	regularizationSvc := regularizationService.NewRegularizationService(
		txManager,
		regularizationRepo,
		attendanceRepo,
		employeeRepo,
		fileService,
		clk,
	)
	leaveSvc := leaveService.NewLeaveService(
		txManager,
		leaveRequestRepo,
		leaveLedgerRepo,
		employeeRepo,
		fileService,
		clk,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, clk)
	regularizationHandler := appHTTP.NewRegularizationHandler(regularizationSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			LogLevel:       cfg.LogLevel(),
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			UploadsDir:     fileStorage.Dir(),
		},
		JWTService,
		attendanceHandler,
		regularizationHandler,
		leaveHandler,
	)

	scheduler := cron.NewScheduler()
	if cfg.Cron.AbsenceSweepEnabled {
		if err := cron.NewAbsenceJobs(attendanceSvc, clk).RegisterJobs(scheduler); err != nil {
			return fmt.Errorf("register cron jobs: %w", err)
		}
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start(gCtx)
		<-gCtx.Done()

		slog.Info("Shutting down server")
		scheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
