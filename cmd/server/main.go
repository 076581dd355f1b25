package main

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mobilitylab/taxi-insights/internal/api"
	"github.com/mobilitylab/taxi-insights/internal/assistant"
	"github.com/mobilitylab/taxi-insights/internal/config"
	"github.com/mobilitylab/taxi-insights/internal/database"
	"github.com/mobilitylab/taxi-insights/internal/handler"
	"github.com/mobilitylab/taxi-insights/internal/pipeline"
	"github.com/mobilitylab/taxi-insights/internal/repository"
	"github.com/mobilitylab/taxi-insights/internal/service"
	"github.com/mobilitylab/taxi-insights/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	// Fall back to the bundled sample when the full dataset is absent.
	dataPath := cfg.DataPath
	if _, err := os.Stat(dataPath); err != nil {
		if _, sampleErr := os.Stat(cfg.SamplePath); sampleErr == nil {
			log.Warn("full dataset not found, using sample",
				zap.String("dataset", dataPath), zap.String("sample", cfg.SamplePath))
			dataPath = cfg.SamplePath
		}
	}

	analyzer := pipeline.NewAnalyzer(dataPath, log)
	if _, err := analyzer.Load(cfg.MaxRows); err != nil {
		log.Fatal("failed to load dataset", zap.Error(err))
	}
	analyzer.Clean()
	analyzer.DeriveFeatures()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		log.Fatal("failed to create database directory", zap.Error(err))
	}
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	repo := repository.NewTripRepository(database.GetDB(), log)
	if err := repo.Ingest(analyzer.Data()); err != nil {
		log.Fatal("failed to ingest trips", zap.Error(err))
	}

	ai := assistant.New(cfg.Credentials, log)
	log.Info("assistant ready",
		zap.String("provider", ai.Provider()), zap.String("mode", ai.Mode()))

	analyticsSvc := service.NewAnalyticsService(repo)
	chatSvc := service.NewChatService(ai, repo, log)

	router := api.SetupRouter(api.Handlers{
		Analytics: handler.NewAnalyticsHandler(analyticsSvc),
		Query:     handler.NewQueryHandler(analyticsSvc),
		Chat:      handler.NewChatHandler(chatSvc, ai),
	}, log)

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
