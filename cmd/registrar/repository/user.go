package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buildtrack/registrar/common/db"
	"github.com/jackc/pgx/v5"
)

// UserRepository resolves usernames to directory entries inside the
// active transaction. First contact creates an account with no
// privileges; every later contact refreshes the activity stamp. Both
// effects commit or roll back together with the rest of the attempt.
type UserRepository struct {
	q         db.Querier
	sequences *SequenceRepository
}

// NewUserRepository binds a repository to a transactional handle
func NewUserRepository(q db.Querier) *UserRepository {
	return &UserRepository{
		q:         q,
		sequences: NewSequenceRepository(q),
	}
}

// ResolveOrCreate returns the user id for username, creating the account
// if it does not exist yet. The row is locked for the remainder of the
// transaction, so a later capability read cannot observe a stale flag.
func (r *UserRepository) ResolveOrCreate(ctx context.Context, username string, now time.Time) (int64, error) {
	var userID int64
	err := r.q.QueryRow(ctx,
		`SELECT id FROM "user" WHERE username = $1 FOR UPDATE`,
		username,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.create(ctx, username, now)
	}
	if err != nil {
		return 0, fmt.Errorf("lock user %q: %w", username, err)
	}

	if err := r.touch(ctx, userID, now); err != nil {
		return 0, err
	}

	return userID, nil
}

// CanRegisterArtifact reads the registration capability flag for a user
// already resolved in this transaction
func (r *UserRepository) CanRegisterArtifact(ctx context.Context, userID int64) (bool, error) {
	var allowed bool
	err := r.q.QueryRow(ctx,
		`SELECT can_register_artifact FROM "user" WHERE id = $1`,
		userID,
	).Scan(&allowed)
	if err != nil {
		return false, fmt.Errorf("read capability for user %d: %w", userID, err)
	}
	return allowed, nil
}

func (r *UserRepository) create(ctx context.Context, username string, now time.Time) (int64, error) {
	userID, err := r.sequences.NextID(ctx, SequenceUser)
	if err != nil {
		return 0, err
	}

	tag, err := r.q.Exec(ctx,
		`INSERT INTO "user" (
			id,
			username,
			last_activity_time,
			can_login,
			can_register_artifact,
			can_request_deployment
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, username, now, false, false, false,
	)
	if err != nil {
		return 0, fmt.Errorf("create user %q: %w", username, err)
	}
	if tag.RowsAffected() != 1 {
		return 0, fmt.Errorf("%w: creating user %q touched %d rows", ErrUnexpectedRowCount, username, tag.RowsAffected())
	}

	return userID, nil
}

func (r *UserRepository) touch(ctx context.Context, userID int64, now time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE "user" SET last_activity_time = $1 WHERE id = $2`,
		now, userID,
	)
	if err != nil {
		return fmt.Errorf("touch user %d: %w", userID, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%w: touching user %d touched %d rows", ErrUnexpectedRowCount, userID, tag.RowsAffected())
	}
	return nil
}
