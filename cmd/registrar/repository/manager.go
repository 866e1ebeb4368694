package repository

import (
	"context"
	"time"

	"github.com/buildtrack/registrar/cmd/registrar/models"
	"github.com/buildtrack/registrar/common/db"
)

// UserDirectory is the user-resolution surface used by the registration
// coordinator
type UserDirectory interface {
	ResolveOrCreate(ctx context.Context, username string, now time.Time) (int64, error)
	CanRegisterArtifact(ctx context.Context, userID int64) (bool, error)
}

// ArtifactRegistry is the record-persistence surface used by the
// registration coordinator
type ArtifactRegistry interface {
	Insert(ctx context.Context, rec *models.RegisteredArtifact) error
}

// Manager vends repositories bound to a transactional handle. The
// coordinator asks for fresh repositories inside every attempt so that
// all reads and writes of one attempt share one transaction.
type Manager interface {
	Users(q db.Querier) UserDirectory
	Artifacts(q db.Querier) ArtifactRegistry
}

// PostgresManager is the production Manager
type PostgresManager struct{}

// NewPostgresManager constructs a PostgreSQL-backed repository manager
func NewPostgresManager() *PostgresManager {
	return &PostgresManager{}
}

// Users returns a UserDirectory bound to q
func (m *PostgresManager) Users(q db.Querier) UserDirectory {
	return NewUserRepository(q)
}

// Artifacts returns an ArtifactRegistry bound to q
func (m *PostgresManager) Artifacts(q db.Querier) ArtifactRegistry {
	return NewArtifactRepository(q)
}
