package models

import "time"

// User represents an auto-provisioned account in the user directory.
// Maps to: "user" table.
//
// Accounts are created on first contact with every capability flag off;
// the flags are only ever flipped by an administrative process outside
// this service.
type User struct {
	ID                   int64     `db:"id"`
	Username             string    `db:"username"`
	LastActivityTime     time.Time `db:"last_activity_time"`
	CanLogin             bool      `db:"can_login"`
	CanRegisterArtifact  bool      `db:"can_register_artifact"`
	CanRequestDeployment bool      `db:"can_request_deployment"`
}
