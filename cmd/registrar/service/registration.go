package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buildtrack/registrar/cmd/registrar/models"
	"github.com/buildtrack/registrar/cmd/registrar/repository"
	"github.com/buildtrack/registrar/common/db"
	"github.com/buildtrack/registrar/common/logger"
)

// Outcome classifies the final result of a registration request
type Outcome int

const (
	// OutcomeRegistered means the record was committed
	OutcomeRegistered Outcome = iota
	// OutcomeForbidden means the caller lacks the registration capability
	// or was rejected by policy; nothing was committed
	OutcomeForbidden
	// OutcomeFailed means a non-retryable error stopped the request
	OutcomeFailed
)

// String returns a human-readable outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeRegistered:
		return "registered"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// errNotAuthorized aborts an attempt from inside the transaction closure
// so the rollback discards every mutation of the attempt, including the
// user creation or activity touch that preceded the capability check.
var errNotAuthorized = errors.New("user may not register artifacts")

// RegistrationService coordinates one registration request: a
// serializable transaction per attempt, retried for as long as the
// storage layer keeps reporting serialization conflicts, with every
// other condition surfaced as a terminal outcome.
type RegistrationService struct {
	runner db.TxRunner
	repos  repository.Manager
	policy *PolicyEvaluator
	log    *logger.Logger
}

// NewRegistrationService creates a new registration coordinator.
// policy may be nil when no policy expression is configured.
func NewRegistrationService(runner db.TxRunner, repos repository.Manager, policy *PolicyEvaluator, log *logger.Logger) *RegistrationService {
	return &RegistrationService{
		runner: runner,
		repos:  repos,
		policy: policy,
		log:    log,
	}
}

// Register records one artifact-registration event for username.
//
// now is captured once by the caller and reused verbatim across retries,
// so the persisted activity and registration timestamps are those of the
// request, not of the winning attempt.
func (s *RegistrationService) Register(ctx context.Context, username string, now time.Time, req *models.RegistrationRequest) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return OutcomeFailed, fmt.Errorf("malformed payload: %w", err)
	}

	admitted, err := s.policy.Admit(req)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("evaluate registration policy: %w", err)
	}
	if !admitted {
		s.log.Info("registration rejected by policy",
			"username", username,
			"group_id", req.GroupID,
			"artifact_id", req.ArtifactID,
		)
		return OutcomeForbidden, nil
	}

	attempt := 0
	for {
		attempt++

		var recordID int64
		err := s.runner.WithSerializable(ctx, func(q db.Querier) error {
			users := s.repos.Users(q)

			userID, err := users.ResolveOrCreate(ctx, username, now)
			if err != nil {
				return err
			}

			allowed, err := users.CanRegisterArtifact(ctx, userID)
			if err != nil {
				return err
			}
			if !allowed {
				return errNotAuthorized
			}

			rec := req.Record(userID, now)
			if err := s.repos.Artifacts(q).Insert(ctx, rec); err != nil {
				return err
			}
			recordID = rec.ID
			return nil
		})

		switch {
		case err == nil:
			s.log.Info("artifact registered",
				"username", username,
				"record_id", recordID,
				"group_id", req.GroupID,
				"artifact_id", req.ArtifactID,
				"version", req.Version,
				"attempts", attempt,
			)
			return OutcomeRegistered, nil

		case errors.Is(err, errNotAuthorized):
			// The rollback also discarded this attempt's directory
			// mutations, so a denied caller leaves no trace.
			s.log.Info("registration denied",
				"username", username,
				"group_id", req.GroupID,
				"artifact_id", req.ArtifactID,
			)
			return OutcomeForbidden, nil

		case db.IsSerializationFailure(err):
			// Retries are unbounded and immediate; contention on the two
			// counter rows is expected to stay low.
			s.log.Debug("serialization conflict, retrying",
				"username", username,
				"attempt", attempt,
			)
			continue

		default:
			return OutcomeFailed, fmt.Errorf("registration attempt %d: %w", attempt, err)
		}
	}
}
