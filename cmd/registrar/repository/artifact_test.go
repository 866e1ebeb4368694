package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/buildtrack/registrar/cmd/registrar/models"
	"github.com/jackc/pgx/v5"
)

func TestArtifactInsert(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	vcs := "abc123"
	rec := &models.RegisteredArtifact{
		GroupID:          "com.example",
		ArtifactID:       "core",
		Classifier:       "",
		Extension:        "jar",
		BaseVersion:      "1.0",
		Version:          "1.0",
		Snapshot:         false,
		URL:              "http://repo/core-1.0.jar",
		BuildVcsNumber:   &vcs,
		UserID:           7,
		RegistrationTime: now,
	}

	q := &fakeQuerier{
		rows: []fakeRow{{values: []any{int64(99)}}},
		execs: []execResult{
			{tag: updated(1)},  // sequence advance
			{tag: inserted(1)}, // artifact insert
		},
	}
	repo := NewArtifactRepository(q)

	if err := repo.Insert(context.Background(), rec); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if rec.ID != 100 {
		t.Errorf("Expected allocated id 100, got %d", rec.ID)
	}

	insert := q.calls[len(q.calls)-1]
	if !strings.Contains(insert.sql, "INSERT INTO registered_artifact") {
		t.Fatalf("Expected artifact insert, got: %s", insert.sql)
	}
	if len(insert.args) != 15 {
		t.Fatalf("Expected 15 insert args, got %d", len(insert.args))
	}
	if insert.args[0] != int64(100) {
		t.Errorf("Expected id arg 100, got %v", insert.args[0])
	}
	// Absent classifier is persisted as an empty string, not NULL
	if insert.args[3] != "" {
		t.Errorf("Expected empty classifier, got %v", insert.args[3])
	}
	if got := insert.args[9].(*string); got == nil || *got != "abc123" {
		t.Errorf("Expected build_vcs_number abc123, got %v", got)
	}
	// Absent TeamCity fields are persisted as NULL
	if got := insert.args[10].(*string); got != nil {
		t.Errorf("Expected nil teamcity_build_id, got %v", *got)
	}
	if insert.args[13] != int64(7) {
		t.Errorf("Expected user_id 7, got %v", insert.args[13])
	}
	if insert.args[14] != now {
		t.Errorf("Expected registration_time %v, got %v", now, insert.args[14])
	}
}

func TestArtifactInsert_UnexpectedRowCount(t *testing.T) {
	q := &fakeQuerier{
		rows: []fakeRow{{values: []any{int64(0)}}},
		execs: []execResult{
			{tag: updated(1)},
			{tag: inserted(0)},
		},
	}
	repo := NewArtifactRepository(q)

	err := repo.Insert(context.Background(), &models.RegisteredArtifact{})
	if !errors.Is(err, ErrUnexpectedRowCount) {
		t.Fatalf("Expected ErrUnexpectedRowCount, got %v", err)
	}
}

func TestArtifactInsert_SequenceMissing(t *testing.T) {
	q := &fakeQuerier{
		rows: []fakeRow{{err: pgx.ErrNoRows}},
	}
	repo := NewArtifactRepository(q)

	err := repo.Insert(context.Background(), &models.RegisteredArtifact{})
	if !errors.Is(err, ErrSequenceNotFound) {
		t.Fatalf("Expected ErrSequenceNotFound, got %v", err)
	}
}
