package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/buildtrack/registrar/cmd/registrar/container"
	registrarmw "github.com/buildtrack/registrar/cmd/registrar/middleware"
	"github.com/buildtrack/registrar/cmd/registrar/routes"
	"github.com/buildtrack/registrar/common/bootstrap"
	commonmw "github.com/buildtrack/registrar/common/middleware"
	"github.com/buildtrack/registrar/common/server"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	ctx := context.Background()

	// Bootstrap common components (config, logger, DB, redis, telemetry)
	components, err := bootstrap.Setup(ctx, "registrar")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap registrar: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	// Initialize Echo server
	e := setupEcho()

	// Setup middleware
	setupMiddleware(e)

	// Setup health check
	setupHealthCheck(e, components)

	// Register all routes
	registerRoutes(e, serviceContainer)

	// Start server
	startServer(e, components)
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health", func(c echo.Context) error {
		if err := components.Health(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"service": "registrar",
			})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "registrar",
		})
	})
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	cfg := serviceContainer.Components.Config

	api := e.Group("/api/v1")
	api.Use(registrarmw.ExtractUsername())

	if cfg.RateLimit.Enabled && serviceContainer.RateLimiter != nil {
		api.Use(commonmw.GlobalRateLimit(
			serviceContainer.RateLimiter,
			cfg.RateLimit.GlobalLimit,
			cfg.RateLimit.WindowSeconds,
		))
		api.Use(commonmw.UserRateLimit(
			serviceContainer.RateLimiter,
			cfg.RateLimit.UserLimit,
			cfg.RateLimit.WindowSeconds,
		))
	}

	routes.RegisterTrackRoutes(api, serviceContainer.TrackHandler)
}

// startServer starts the HTTP server with graceful shutdown
func startServer(e *echo.Echo, components *bootstrap.Components) {
	srv := server.New(
		components.Config.Service.Name,
		components.Config.Service.Port,
		e,
		components.Logger,
	)

	if err := srv.Start(); err != nil {
		components.Logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
