package models

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ImportRun records one execution of the import pipeline for one URL.
type ImportRun struct {
	ID           int64      `json:"id" db:"id"`
	URL          string     `json:"url" db:"url"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	FinishedAt   *time.Time `json:"finished_at" db:"finished_at"`
	Status       RunStatus  `json:"status" db:"status"`
	DraftID      *int64     `json:"draft_id" db:"draft_id"`
	ErrorMessage string     `json:"error_message" db:"error_message"`
}

// ImportRequest is a queued ask to import one listing URL, processed by the
// background worker. Token correlates the request across logs.
type ImportRequest struct {
	ID          int64      `json:"id" db:"id"`
	Token       uuid.UUID  `json:"token" db:"token"`
	URL         string     `json:"url" db:"url"`
	OwnerID     int64      `json:"owner_id" db:"owner_id"`
	AgencyID    int64      `json:"agency_id" db:"agency_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ProcessedAt *time.Time `json:"processed_at" db:"processed_at"`
}

type LogLevel string

const (
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

type ImportLog struct {
	ID        int64     `json:"id" db:"id"`
	RunID     *int64    `json:"run_id" db:"run_id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Level     LogLevel  `json:"level" db:"level"`
	Message   string    `json:"message" db:"message"`
}
