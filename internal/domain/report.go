package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatusKind is open on the wire: the four canonical kinds below get styled
// badges, anything else is preserved verbatim and rendered neutral.
type StatusKind string

const (
	StatusAgreed  StatusKind = "Agreed"
	StatusPending StatusKind = "Pending"
	StatusIssues  StatusKind = "Issues"
	StatusReCheck StatusKind = "ReCheck"
)

type LocationStatus struct {
	LocationID string     `json:"location_id"`
	Status     StatusKind `json:"status"`
}

// Report is one row per ingested batch. Repeated batches for the same
// (task, location) pair append new reports; the displayed task status is
// always recomputed from the loaded reports, never stored.
type Report struct {
	ID               uuid.UUID        `json:"id"`
	Task             string           `json:"task"`
	LocationStatuses []LocationStatus `json:"location_statuses"` // insertion order, significant for Rollup
	UserID           string           `json:"user_id"`
	UserName         string           `json:"user_name"`
	UserAvatarRef    string           `json:"user_avatar_ref,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	CreationStatus   StatusKind       `json:"creation_status"`
}

// TaskReports is the display-facing view of one task: its loaded reports plus
// the rollup computed over every location status they carry.
type TaskReports struct {
	Task         string     `json:"task"`
	Reports      []*Report  `json:"reports"`
	RollupStatus StatusKind `json:"rollup_status"`
}
