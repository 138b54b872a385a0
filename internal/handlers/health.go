package handlers

import (
	"encoding/json"
	"net/http"

	"phenoserver/internal/config"
	"phenoserver/internal/services"
	"phenoserver/internal/services/ai"
)

// HealthResponse reports service status and which detection provider is live.
type HealthResponse struct {
	Status        string `json:"status"`
	Provider      string `json:"provider"`
	ModelPath     string `json:"modelPath"`
	ModelArtifact bool   `json:"modelArtifact"`
	ModelSize     int64  `json:"modelSizeBytes,omitempty"`
}

// HealthHandler returns service health plus model artifact information.
func HealthHandler(pipeline *services.Pipeline, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:    "healthy",
			Provider:  pipeline.Provider().Name(),
			ModelPath: cfg.ModelPath,
		}
		if size, err := ai.ArtifactSize(cfg.ModelPath); err == nil {
			response.ModelArtifact = true
			response.ModelSize = size
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}
