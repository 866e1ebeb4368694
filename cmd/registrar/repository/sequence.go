package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildtrack/registrar/common/db"
	"github.com/jackc/pgx/v5"
)

// Names of the persisted counters. The set is fixed; rows must be
// provisioned before first use (see schema.sql).
const (
	SequenceUser               = "user"
	SequenceRegisteredArtifact = "registered_artifact"
)

// ErrSequenceNotFound means a counter row is missing from the sequence
// table. That is a deployment mistake, not a runtime condition: the
// allocator never creates counters on its own.
var ErrSequenceNotFound = errors.New("sequence not provisioned")

// ErrUnexpectedRowCount means a write touched a number of rows other
// than one. Given the uniqueness constraints this should be unreachable
// and is treated as an internal consistency bug.
var ErrUnexpectedRowCount = errors.New("unexpected affected row count")

// SequenceRepository hands out unique, monotonically increasing ids from
// named counter rows. It must run inside an open transaction: the
// FOR UPDATE lock on the counter row is what serializes concurrent
// allocators for the same name.
type SequenceRepository struct {
	q db.Querier
}

// NewSequenceRepository binds a repository to a transactional handle
func NewSequenceRepository(q db.Querier) *SequenceRepository {
	return &SequenceRepository{q: q}
}

// NextID locks the counter row for name, advances it by one, and returns
// the new value
func (r *SequenceRepository) NextID(ctx context.Context, name string) (int64, error) {
	var lastID int64
	err := r.q.QueryRow(ctx,
		`SELECT last_id FROM sequence WHERE name = $1 FOR UPDATE`,
		name,
	).Scan(&lastID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", ErrSequenceNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("lock sequence %q: %w", name, err)
	}

	nextID := lastID + 1

	tag, err := r.q.Exec(ctx,
		`UPDATE sequence SET last_id = $1 WHERE name = $2`,
		nextID, name,
	)
	if err != nil {
		return 0, fmt.Errorf("advance sequence %q: %w", name, err)
	}
	if tag.RowsAffected() != 1 {
		return 0, fmt.Errorf("%w: advancing sequence %q touched %d rows", ErrUnexpectedRowCount, name, tag.RowsAffected())
	}

	return nextID, nil
}
