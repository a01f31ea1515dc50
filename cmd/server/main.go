package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"sentiment-service/internal/artifact"
	"sentiment-service/internal/config"
	"sentiment-service/internal/handler"
	"sentiment-service/internal/middleware"
	"sentiment-service/internal/repository"
	"sentiment-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting Sentiment Service...")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Artifacts are loaded once; a missing or corrupt pair is fatal.
	var store *artifact.Store
	if cfg.ExplicitArtifacts() {
		store = artifact.NewStore(cfg.Artifacts.VectorizerPath, cfg.Artifacts.ModelPath, logger)
	} else {
		store = artifact.NewVersionedStore(cfg.VersionDir(), logger)
	}

	analyzer, err := service.NewAnalyzer(store, cfg.Explain.MaxTopN, logger)
	if err != nil {
		logger.Fatal("Failed to load model artifacts", zap.Error(err))
	}

	if cfg.Database.Type == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			logger.Fatal("Failed to create data directory", zap.Error(err))
		}
	}
	db, err := repository.NewDB(cfg.Database.Type, cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.Migrate(db, logger); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	apiHandler := handler.NewHandler(analyzer, logger)
	datasetHandler := handler.NewDatasetHandler(repository.NewDatasetRepository(db), logger)

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("auth.jwt_secret is empty; dataset routes are unauthenticated")
	}

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger), middleware.CORS())

	apiHandler.RegisterRoutes(router)
	datasetHandler.RegisterRoutes(router, middleware.AuthMiddleware(cfg.Auth.JWTSecret, logger))

	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	info := analyzer.ModelInfo()
	logger.Info("Sentiment Service is running",
		zap.String("address", serverAddr),
		zap.String("model_version", info.Version),
		zap.Int("features", info.FeatureCount),
		zap.Bool("explainable", info.Explainable))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
