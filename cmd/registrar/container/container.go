package container

import (
	"fmt"

	"github.com/buildtrack/registrar/cmd/registrar/handlers"
	"github.com/buildtrack/registrar/cmd/registrar/repository"
	"github.com/buildtrack/registrar/cmd/registrar/service"
	"github.com/buildtrack/registrar/common/bootstrap"
	"github.com/buildtrack/registrar/common/ratelimit"
)

// Container holds all initialized services and handlers (singleton pattern)
type Container struct {
	// Components
	Components  *bootstrap.Components
	RateLimiter *ratelimit.RateLimiter

	// Repositories
	Repositories repository.Manager

	// Services
	Policy              *service.PolicyEvaluator
	RegistrationService *service.RegistrationService

	// Handlers
	TrackHandler *handlers.TrackHandler
}

// NewContainer initializes all services and handlers once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	// Compile the optional registration policy up front so a bad
	// expression fails the process at startup, not per request
	policy, err := service.NewPolicyEvaluator(components.Config.Policy.Expression)
	if err != nil {
		return nil, fmt.Errorf("failed to build registration policy: %w", err)
	}

	repos := repository.NewPostgresManager()

	registrationService := service.NewRegistrationService(
		components.DB,
		repos,
		policy,
		components.Logger,
	)

	trackHandler := handlers.NewTrackHandler(components, registrationService)

	var limiter *ratelimit.RateLimiter
	if components.Redis != nil {
		limiter = ratelimit.NewRateLimiter(components.Redis.GetUnderlying(), components.Logger)
	}

	return &Container{
		Components:          components,
		RateLimiter:         limiter,
		Repositories:        repos,
		Policy:              policy,
		RegistrationService: registrationService,
		TrackHandler:        trackHandler,
	}, nil
}
