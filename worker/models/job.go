package models

import (
	"time"
)

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job is one row of the shared processing queue. Created by the upload side
// as pending; only the worker and the recovery sweep ever change its status.
type Job struct {
	ID                  string
	MediaID             string
	Status              JobStatus
	ErrorMessage        string
	CreatedAt           time.Time
	ProcessingStartedAt *time.Time
}

// Media is the metadata record a job points at. Read-only here except for
// the duration write-back after transcoding.
type Media struct {
	ID              string
	Title           string
	CategoryID      int
	DurationSeconds float64
	CreatedAt       time.Time
}

// Subtitle is one transcript segment. FixedText belongs to the correction
// workflow and is never written by the worker.
type Subtitle struct {
	MediaID     string
	StartTimeMS int64
	EndTimeMS   int64
	Text        string
	FixedText   *string
}
