package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-catalog/internal/config"
	"product-catalog/internal/database"
	handler "product-catalog/internal/handler/http"
	"product-catalog/internal/logger"
	middleware_http "product-catalog/internal/middleware/http"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"
	"product-catalog/internal/tracer"
	"product-catalog/internal/validation"
	"product-catalog/internal/version"
)

func main() {
	globalCtx := context.Background()
	log := logger.Instance()
	cfg := config.Instance()

	log.Info(cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
	)

	// Initialize telemetry (OpenTelemetry + Pyroscope)
	shutdown, _ := tracer.Instance(globalCtx)
	defer shutdown()

	// Connect to MongoDB
	db, err := database.Instance(globalCtx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Error("Failed to connect to MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wiring
	productRepo := repository.NewMongoProductRepository(db.Database)
	if err := productRepo.EnsureIndexes(globalCtx); err != nil {
		log.Error("Failed to create indexes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	productService := service.NewProductService(productRepo, validation.New())
	productHandler := handler.NewProductHandler(productService)

	healthService := service.NewHealthService(db.Client)
	healthHandler := handler.NewHealthHandler(healthService)

	// Routing
	router := handler.NewRouter(productHandler, healthHandler)

	// Rate limiter ahead of all routes, tracing around everything
	rateLimiter := middleware_http.NewRateLimiter(
		int(cfg.RateLimitMax),
		time.Duration(cfg.RateLimitWindowMs)*time.Millisecond,
	)
	wrapped := middleware_http.TraceMiddleware()(rateLimiter.Middleware(router))

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      wrapped,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server running", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(globalCtx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	if err := db.Client.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect failed", slog.String("error", err.Error()))
	}
}
