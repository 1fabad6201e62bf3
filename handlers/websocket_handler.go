package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rackline/pool-league-system/league"
	"github.com/rackline/pool-league-system/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict Origin to the configured frontend host.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler serves the live season feed at
// /ws/seasons/{seasonID}.
type WebSocketHandler struct {
	hub           *league.Hub
	seasonService services.SeasonService
	logger        *slog.Logger
}

func NewWebSocketHandler(hub *league.Hub, ss services.SeasonService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           hub,
		seasonService: ss,
		logger:        logger,
	}
}

func (h *WebSocketHandler) ServeSeasonFeed(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.seasonService.GetByID(r.Context(), seasonID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("websocket upgrade failed", slog.Int("season_id", seasonID), slog.Any("error", err))
		return
	}

	client := &league.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: league.SeasonRoom(seasonID),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	h.logger.Info("websocket client connected", slog.Int("season_id", seasonID))
}
