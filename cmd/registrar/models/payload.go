package models

import (
	"fmt"
	"time"
)

// TeamcityInfo carries CI build metadata attached to a registration.
// The whole block is optional; when the pipeline runs outside TeamCity
// it is simply absent.
type TeamcityInfo struct {
	BuildVcsNumber string `json:"buildVcsNumber"`
	BuildID        string `json:"teamcityBuildId"`
	BuildConfName  string `json:"teamcityBuildConfName"`
	ProjectName    string `json:"teamcityProjectName"`
}

// RegistrationRequest is the payload delivered by the build pipeline.
// Snapshot is a pointer so a missing field can be told apart from an
// explicit false.
type RegistrationRequest struct {
	GroupID     string        `json:"groupId"`
	ArtifactID  string        `json:"artifactId"`
	Classifier  string        `json:"classifier"`
	Extension   string        `json:"extension"`
	BaseVersion string        `json:"baseVersion"`
	Version     string        `json:"version"`
	Snapshot    *bool         `json:"snapshot"`
	URL         string        `json:"url"`
	Teamcity    *TeamcityInfo `json:"teamcity"`
}

// Validate checks that every required field is present and non-empty.
// A required field that arrives as an empty string counts as missing.
func (r *RegistrationRequest) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"groupId", r.GroupID},
		{"artifactId", r.ArtifactID},
		{"extension", r.Extension},
		{"baseVersion", r.BaseVersion},
		{"version", r.Version},
		{"url", r.URL},
	}

	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("missing required field %q", f.name)
		}
	}

	if r.Snapshot == nil {
		return fmt.Errorf("missing required field %q", "snapshot")
	}

	return nil
}

// Record builds the row to persist for this request.
// Mapping at the storage boundary: an absent classifier is stored as an
// empty string, while absent or empty TeamCity fields are stored as NULL.
// The record id is assigned at insert time.
func (r *RegistrationRequest) Record(userID int64, now time.Time) *RegisteredArtifact {
	rec := &RegisteredArtifact{
		GroupID:          r.GroupID,
		ArtifactID:       r.ArtifactID,
		Classifier:       r.Classifier,
		Extension:        r.Extension,
		BaseVersion:      r.BaseVersion,
		Version:          r.Version,
		Snapshot:         *r.Snapshot,
		URL:              r.URL,
		UserID:           userID,
		RegistrationTime: now,
	}

	if r.Teamcity != nil {
		rec.BuildVcsNumber = emptyToNil(r.Teamcity.BuildVcsNumber)
		rec.TeamcityBuildID = emptyToNil(r.Teamcity.BuildID)
		rec.TeamcityBuildConfName = emptyToNil(r.Teamcity.BuildConfName)
		rec.TeamcityProjectName = emptyToNil(r.Teamcity.ProjectName)
	}

	return rec
}

func emptyToNil(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
