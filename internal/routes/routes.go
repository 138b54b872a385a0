package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"phenoserver/internal/config"
	"phenoserver/internal/handlers"
	"phenoserver/internal/logger"
	"phenoserver/internal/services"
	"phenoserver/internal/services/websocket"
)

// dynamicHTMLHandler serves /path as <staticDir>/path.html if the file
// exists; otherwise 404. "/" maps to index.html.
func dynamicHTMLHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" {
			path = "/index"
		}

		filePath := filepath.Join(staticDir, path+".html")

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers static file serving, the detection API, the event
// websocket, and the log endpoints.
func SetupRoutes(pipeline *services.Pipeline, hub *websocket.HubService, cfg *config.Config, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	// API endpoints
	mux.HandleFunc("/api/detect", handlers.DetectHandler(pipeline, log))
	mux.HandleFunc("/api/events", handlers.EventsWebsocketHandler(hub, log))
	mux.HandleFunc("/health", handlers.HealthHandler(pipeline, cfg))

	// Log endpoints
	mux.HandleFunc("/logs/info", handlers.ShowInfoLogsHandler(cfg))
	mux.HandleFunc("/logs/warning", handlers.ShowWarningLogsHandler(cfg))
	mux.HandleFunc("/logs/error", handlers.ShowErrorLogsHandler(cfg))

	mux.HandleFunc("/logs/info/clear", handlers.ClearInfoLogsHandler(log))
	mux.HandleFunc("/logs/warning/clear", handlers.ClearWarningLogsHandler(log))
	mux.HandleFunc("/logs/error/clear", handlers.ClearErrorLogsHandler(log))

	// Automatic HTML handler mapping, for example /about -> static/about.html
	mux.HandleFunc("/", dynamicHTMLHandler(cfg.StaticDir))

	return mux
}
