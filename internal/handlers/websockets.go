package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"phenoserver/internal/logger"
	hub "phenoserver/internal/services/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsWebsocketHandler upgrades the connection and registers the client
// with the hub so it receives a JSON event after every detection run.
func EventsWebsocketHandler(hubService *hub.HubService, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("WebSocket upgrade error: %v", err)
			return
		}
		connection.SetReadLimit(512)
		connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		connection.SetPongHandler(func(appData string) error {
			connection.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		defer connection.Close()

		hubService.Register(connection)
		defer hubService.Unregister(connection)

		log.Info("Event viewer connected")

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				log.Info("Event viewer disconnected: %v", err)
				break
			}
		}
	}
}
