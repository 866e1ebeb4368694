package models

import "time"

// RegisteredArtifact is one durably recorded registration event.
// Maps to: registered_artifact table. Rows are immutable once inserted.
//
// Classifier is never NULL: an absent classifier is stored as "". The
// TeamCity columns and BuildVcsNumber are nullable and carry NULL when
// the payload omitted them.
type RegisteredArtifact struct {
	ID                    int64     `db:"id"`
	GroupID               string    `db:"group_id"`
	ArtifactID            string    `db:"artifact_id"`
	Classifier            string    `db:"classifier"`
	Extension             string    `db:"extension"`
	BaseVersion           string    `db:"base_version"`
	Version               string    `db:"version"`
	Snapshot              bool      `db:"snapshot"`
	URL                   string    `db:"url"`
	BuildVcsNumber        *string   `db:"build_vcs_number"`
	TeamcityBuildID       *string   `db:"teamcity_build_id"`
	TeamcityBuildConfName *string   `db:"teamcity_build_conf_name"`
	TeamcityProjectName   *string   `db:"teamcity_project_name"`
	UserID                int64     `db:"user_id"`
	RegistrationTime      time.Time `db:"registration_time"`
}
