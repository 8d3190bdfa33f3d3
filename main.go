package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/medsafety/internal/bootstrap"
	"github.com/vcscsvcscs/medsafety/internal/config"
	"github.com/vcscsvcscs/medsafety/internal/handler"
	"github.com/vcscsvcscs/medsafety/internal/observability"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("storage_backend", cfg.Storage.Backend),
	)

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, cfg.Server.Environment, logger)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	deps, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize health record store", zap.Error(err))
	}
	defer deps.Close()

	pingers := map[string]handler.Pinger{}
	if deps.Pool != nil {
		pingers["database"] = deps.Pool.Ping
	}
	if deps.Redis != nil {
		pingers["redis"] = func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		}
	}

	// Initialize handlers
	handlers := &handler.API{
		HealthHandler:   handler.NewHealthHandler(deps.Store, pingers, logger),
		ProfileHandler:  handler.NewProfileHandler(deps.Store, logger),
		MedicineHandler: handler.NewMedicineHandler(deps.Store, deps.Safety, logger),
		FeedbackHandler: handler.NewFeedbackHandler(deps.Store, logger),
		ReportHandler:   handler.NewReportHandler(deps.Store, deps.Reports, logger),
		SafetyHandler:   handler.NewSafetyHandler(deps.Safety, logger),
		GDPRHandler:     handler.NewGDPRHandler(deps.GDPR, logger),
	}

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := handler.RouterOptions{AllowedOrigins: cfg.Server.AllowedOrigins}
	if cfg.Tracing.Enabled {
		opts.TracingName = cfg.Tracing.ServiceName
	}
	r := handler.NewRouter(handlers, logger, opts)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Failed to flush traces", zap.Error(err))
	}

	logger.Info("Server exited")
}
