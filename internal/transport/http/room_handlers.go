package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/pairchat-server/internal/core"
)

// RoomHandlers exposes read-only room state over REST.
type RoomHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewRoomHandlers creates room handlers backed by the hub.
func NewRoomHandlers(hub *core.Hub, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{hub: hub, log: logger}
}

// RosterResponse is the body of GET /api/roster.
type RosterResponse struct {
	Names    []string `json:"names"`
	Capacity int      `json:"capacity"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetRoster returns current participants in join order.
// GET /api/roster
func (h *RoomHandlers) GetRoster(c *gin.Context) {
	roster, err := h.hub.Roster(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read roster")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "room unavailable"})
		return
	}

	names := roster.Names
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, RosterResponse{Names: names, Capacity: roster.Capacity})
}
