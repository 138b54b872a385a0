package app

import (
	"fmt"
	"net/http"

	"phenoserver/internal/config"
	"phenoserver/internal/logger"
	"phenoserver/internal/models"
	"phenoserver/internal/routes"
	"phenoserver/internal/services"
	"phenoserver/internal/services/ai"
	"phenoserver/internal/services/websocket"
)

// App is the composition root: it builds the class table, picks the
// detection provider, and wires the pipeline, hub, and routes.
type App struct {
	config   *config.Config
	logger   *logger.Logger
	hub      *websocket.HubService
	pipeline *services.Pipeline
}

func NewApp() *App {
	cfg := config.Load()
	log := logger.NewLogger(cfg.LogDirectory)

	table, err := models.NewClassTable(cfg.StageColors)
	if err != nil {
		log.Warning("Invalid stage color override: %v - using default colors", err)
		table = models.DefaultClassTable()
	}

	hub := websocket.NewHubService(log)
	provider := selectProvider(cfg, log)
	pipeline := services.NewPipeline(provider, table, hub, log)

	return &App{
		config:   cfg,
		logger:   log,
		hub:      hub,
		pipeline: pipeline,
	}
}

// selectProvider prefers the trained model and falls back to the mock
// generator when the artifact is missing or cannot be loaded.
func selectProvider(cfg *config.Config, log *logger.Logger) ai.Provider {
	size, err := ai.ArtifactSize(cfg.ModelPath)
	if err != nil {
		log.Warning("Model artifact not available (%v) - using mock detections", err)
		return ai.NewMockProvider(cfg.MockSeed)
	}
	log.Info("Model artifact %s (%d bytes)", cfg.ModelPath, size)

	provider, err := ai.NewModelProvider(cfg, log)
	if err != nil {
		log.Warning("Could not initialize detection network: %v - using mock detections", err)
		return ai.NewMockProvider(cfg.MockSeed)
	}
	return provider
}

func (a *App) Run() error {
	go a.hub.Run()

	router := routes.SetupRoutes(a.pipeline, a.hub, a.config, a.logger)

	fmt.Printf("🌲 Pine Phenology Detection Server\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("🤖 Provider: %s\n", a.pipeline.Provider().Name())
	fmt.Printf("📁 Model: %s\n", a.config.ModelPath)

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}
