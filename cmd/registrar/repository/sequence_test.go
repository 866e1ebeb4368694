package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestSequenceNextID(t *testing.T) {
	q := &fakeQuerier{
		rows:  []fakeRow{{values: []any{int64(41)}}},
		execs: []execResult{{tag: updated(1)}},
	}
	repo := NewSequenceRepository(q)

	id, err := repo.NextID(context.Background(), SequenceRegisteredArtifact)
	if err != nil {
		t.Fatalf("NextID error: %v", err)
	}
	if id != 42 {
		t.Errorf("Expected id 42, got %d", id)
	}

	if len(q.calls) != 2 {
		t.Fatalf("Expected 2 statements, got %d", len(q.calls))
	}
	if !strings.Contains(q.calls[0].sql, "FOR UPDATE") {
		t.Errorf("Expected locking read, got: %s", q.calls[0].sql)
	}
	if got := q.calls[1].args[0]; got != int64(42) {
		t.Errorf("Expected last_id advanced to 42, got %v", got)
	}
	if got := q.calls[1].args[1]; got != SequenceRegisteredArtifact {
		t.Errorf("Expected sequence name %q, got %v", SequenceRegisteredArtifact, got)
	}
}

func TestSequenceNextID_Missing(t *testing.T) {
	q := &fakeQuerier{
		rows: []fakeRow{{err: pgx.ErrNoRows}},
	}
	repo := NewSequenceRepository(q)

	_, err := repo.NextID(context.Background(), "nonexistent")
	if !errors.Is(err, ErrSequenceNotFound) {
		t.Fatalf("Expected ErrSequenceNotFound, got %v", err)
	}
	// The allocator must not try to create the missing row
	if len(q.calls) != 1 {
		t.Errorf("Expected only the locking read, got %d statements", len(q.calls))
	}
}

func TestSequenceNextID_UnexpectedRowCount(t *testing.T) {
	q := &fakeQuerier{
		rows:  []fakeRow{{values: []any{int64(7)}}},
		execs: []execResult{{tag: updated(0)}},
	}
	repo := NewSequenceRepository(q)

	_, err := repo.NextID(context.Background(), SequenceUser)
	if !errors.Is(err, ErrUnexpectedRowCount) {
		t.Fatalf("Expected ErrUnexpectedRowCount, got %v", err)
	}
}
