package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/buildtrack/registrar/cmd/registrar/middleware"
	"github.com/buildtrack/registrar/cmd/registrar/models"
	"github.com/buildtrack/registrar/cmd/registrar/service"
	"github.com/buildtrack/registrar/common/bootstrap"
	"github.com/labstack/echo/v4"
)

// Registrar is the registration surface consumed by the handler
type Registrar interface {
	Register(ctx context.Context, username string, now time.Time, req *models.RegistrationRequest) (service.Outcome, error)
}

// TrackHandler handles artifact-registration requests
type TrackHandler struct {
	components *bootstrap.Components
	registrar  Registrar
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(components *bootstrap.Components, registrar Registrar) *TrackHandler {
	return &TrackHandler{
		components: components,
		registrar:  registrar,
	}
}

// TrackArtifact records one artifact registration
// POST /api/v1/track
//
// The response carries only the outcome class: 200 with an empty JSON
// object, 403, or 500. No error details reach the caller.
func (h *TrackHandler) TrackArtifact(c echo.Context) error {
	username, err := middleware.RequireUsername(c)
	if err != nil {
		return err
	}

	// One timestamp per request, reused verbatim across retries
	now := time.Now().UTC()

	req := new(models.RegistrationRequest)
	if err := c.Bind(req); err != nil {
		h.components.Logger.Error("failed to decode registration payload",
			"username", username,
			"error", err,
		)
		return c.NoContent(http.StatusInternalServerError)
	}

	outcome, err := h.registrar.Register(c.Request().Context(), username, now, req)
	switch outcome {
	case service.OutcomeRegistered:
		return c.JSON(http.StatusOK, map[string]interface{}{})
	case service.OutcomeForbidden:
		return c.NoContent(http.StatusForbidden)
	default:
		h.components.Logger.Error("registration failed",
			"username", username,
			"error", err,
		)
		return c.NoContent(http.StatusInternalServerError)
	}
}
