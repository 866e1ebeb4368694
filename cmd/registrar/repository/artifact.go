package repository

import (
	"context"
	"fmt"

	"github.com/buildtrack/registrar/cmd/registrar/models"
	"github.com/buildtrack/registrar/common/db"
)

// ArtifactRepository persists registration records inside the active
// transaction
type ArtifactRepository struct {
	q         db.Querier
	sequences *SequenceRepository
}

// NewArtifactRepository binds a repository to a transactional handle
func NewArtifactRepository(q db.Querier) *ArtifactRepository {
	return &ArtifactRepository{
		q:         q,
		sequences: NewSequenceRepository(q),
	}
}

// Insert allocates the record id and writes the full row. The assigned
// id is stored back into rec.
func (r *ArtifactRepository) Insert(ctx context.Context, rec *models.RegisteredArtifact) error {
	id, err := r.sequences.NextID(ctx, SequenceRegisteredArtifact)
	if err != nil {
		return err
	}
	rec.ID = id

	tag, err := r.q.Exec(ctx,
		`INSERT INTO registered_artifact (
			id,
			group_id,
			artifact_id,
			classifier,
			extension,
			base_version,
			version,
			snapshot,
			url,
			build_vcs_number,
			teamcity_build_id,
			teamcity_build_conf_name,
			teamcity_project_name,
			user_id,
			registration_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rec.ID,
		rec.GroupID,
		rec.ArtifactID,
		rec.Classifier,
		rec.Extension,
		rec.BaseVersion,
		rec.Version,
		rec.Snapshot,
		rec.URL,
		rec.BuildVcsNumber,
		rec.TeamcityBuildID,
		rec.TeamcityBuildConfName,
		rec.TeamcityProjectName,
		rec.UserID,
		rec.RegistrationTime,
	)
	if err != nil {
		return fmt.Errorf("insert registered artifact: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%w: inserting registered artifact touched %d rows", ErrUnexpectedRowCount, tag.RowsAffected())
	}

	return nil
}
