package domain

import "fmt"

type Author struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	AvatarRef string `json:"avatar_ref,omitempty"`
}

type IngestRequest struct {
	Task       string   `json:"task" validate:"required,pathsegment"`
	LocationID string   `json:"location_id" validate:"required,pathsegment"`
	Author     Author   `json:"author"`
	Images     [][]byte `json:"-" validate:"required,min=1"`
}

// StoredFileRef points at one annotated photo on disk. SequenceNumber is
// batch-local and restarts at 1 on every ingest call, so it is not unique
// across batches for the same (task, location) pair.
type StoredFileRef struct {
	Task           string `json:"task"`
	LocationID     string `json:"location_id"`
	SequenceNumber int    `json:"sequence_number"`
	RelativePath   string `json:"relative_path"`
}

type IngestResult struct {
	Report *Report         `json:"report"`
	Files  []StoredFileRef `json:"files"`
}

type IngestStage string

const (
	StageValidate IngestStage = "validate"
	StageProcess  IngestStage = "process"
	StagePersist  IngestStage = "persist"
)

// IngestError is the typed batch failure. Written lists the files flushed to
// storage before the failure: there is no rollback, callers reconcile with it.
type IngestError struct {
	Stage      IngestStage
	Task       string
	LocationID string
	Written    []StoredFileRef
	Err        error
}

func (ie *IngestError) Error() string {
	return fmt.Sprintf("ingest %s/%s failed at %s (files written: %d): %v",
		ie.Task, ie.LocationID, ie.Stage, len(ie.Written), ie.Err)
}

func (ie *IngestError) Unwrap() error { return ie.Err }
