package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsSerializationFailure(t *testing.T) {
	conflict := &pgconn.PgError{Code: "40001"}

	if !IsSerializationFailure(conflict) {
		t.Error("Expected 40001 to be a serialization failure")
	}
	if !IsSerializationFailure(fmt.Errorf("attempt 3: %w", conflict)) {
		t.Error("Expected wrapped 40001 to be a serialization failure")
	}
	if IsSerializationFailure(&pgconn.PgError{Code: "23505"}) {
		t.Error("Expected a unique violation not to be a serialization failure")
	}
	if IsSerializationFailure(errors.New("connection refused")) {
		t.Error("Expected a plain error not to be a serialization failure")
	}
	if IsSerializationFailure(nil) {
		t.Error("Expected nil not to be a serialization failure")
	}
}
