package routes

import (
	"github.com/buildtrack/registrar/cmd/registrar/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterTrackRoutes registers registration-related routes
func RegisterTrackRoutes(g *echo.Group, handler *handlers.TrackHandler) {
	// POST /api/v1/track - Record an artifact registration
	g.POST("/track", handler.TrackArtifact)
}
