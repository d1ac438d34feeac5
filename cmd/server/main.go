package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	importapp "github.com/storefront/backend/internal/application/importing"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/domain/importing"
	"github.com/storefront/backend/internal/infrastructure/audit"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		// Audit writes are fire-and-forget, so a Redis outage is not fatal.
		log.Warn("Redis unreachable, audit events will be dropped", zap.Error(err))
	}
	auditSink := audit.NewRecorder(redisClient, log)

	jobRepo := persistence.NewImportJobRepository(db.DB)
	reviewRepo := persistence.NewReviewRepository(db.DB)
	favoriteRepo := persistence.NewFavoriteRepository(db.DB)
	catalogRepo := persistence.NewCatalogRepository(db.DB)
	uow := persistence.NewUnitOfWork(db)

	resolver := importing.NewResolver(importing.ResolverConfig{
		MinScore:      cfg.Import.MinScore,
		AmbiguityBand: cfg.Import.AmbiguityBand,
	})

	parseService := importapp.NewParseService(jobRepo, auditSink, log, cfg.Import.MaxFileSize)
	commitService := importapp.NewCommitService(jobRepo, uow, resolver, auditSink, log)
	undoService := importapp.NewUndoService(jobRepo, uow, auditSink, log)
	jobService := importapp.NewJobService(jobRepo, cfg.Import.RecentJobsLimit)
	storeService := storeapp.NewStoreService(reviewRepo, favoriteRepo, catalogRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	engine := router.Setup(cfg, jwtService, log, router.Handlers{
		System: handler.NewSystemHandler(db),
		Import: handler.NewImportHandler(parseService, commitService, undoService, jobService),
		Store:  handler.NewStoreHandler(storeService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
