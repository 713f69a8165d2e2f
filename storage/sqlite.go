package storage

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"krisha_importer/models"
)

// SQLiteStore is the local operational database: the queue of pending
// import requests, per-URL run records and their log lines. It lives next
// to the binary and needs no external service.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}

	log.Printf("SQLite ops store initialized at %s", path)
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS import_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		token TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		owner_id INTEGER NOT NULL,
		agency_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		processed_at DATETIME
	);
	CREATE INDEX IF NOT EXISTS idx_requests_pending
		ON import_requests (created_at) WHERE processed_at IS NULL;

	CREATE TABLE IF NOT EXISTS import_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME,
		status TEXT NOT NULL DEFAULT 'running',
		draft_id INTEGER,
		error_message TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_runs_url ON import_runs (url);

	CREATE TABLE IF NOT EXISTS import_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		level TEXT NOT NULL,
		message TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_logs_run ON import_logs (run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// EnqueueRequest queues a listing URL for the background worker and returns
// the request token.
func (s *SQLiteStore) EnqueueRequest(url string, ownerID, agencyID int64) (uuid.UUID, error) {
	token := uuid.New()
	_, err := s.db.Exec(
		`INSERT INTO import_requests (token, url, owner_id, agency_id) VALUES (?, ?, ?, ?)`,
		token.String(), url, ownerID, agencyID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to enqueue request for %s: %w", url, err)
	}
	return token, nil
}

// PendingRequests returns up to limit unprocessed requests, oldest first.
func (s *SQLiteStore) PendingRequests(limit int) ([]models.ImportRequest, error) {
	rows, err := s.db.Query(
		`SELECT id, token, url, owner_id, agency_id, created_at, processed_at
		 FROM import_requests WHERE processed_at IS NULL
		 ORDER BY created_at, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending requests: %w", err)
	}
	defer rows.Close()

	var requests []models.ImportRequest
	for rows.Next() {
		var (
			r     models.ImportRequest
			token string
		)
		if err := rows.Scan(&r.ID, &token, &r.URL, &r.OwnerID, &r.AgencyID, &r.CreatedAt, &r.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		r.Token, err = uuid.Parse(token)
		if err != nil {
			return nil, fmt.Errorf("corrupt request token %q: %w", token, err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *SQLiteStore) MarkRequestProcessed(id int64) error {
	_, err := s.db.Exec(
		`UPDATE import_requests SET processed_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark request %d processed: %w", id, err)
	}
	return nil
}

// CreateRun opens a run record for one import attempt.
func (s *SQLiteStore) CreateRun(url string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO import_runs (url, status) VALUES (?, ?)`,
		url, string(models.RunStatusRunning))
	if err != nil {
		return 0, fmt.Errorf("failed to create run for %s: %w", url, err)
	}
	return res.LastInsertId()
}

// UpdateRun closes a run record. Failures here are logged, not propagated:
// run bookkeeping must never fail an import.
func (s *SQLiteStore) UpdateRun(id int64, status models.RunStatus, draftID *int64, errMsg string) {
	_, err := s.db.Exec(
		`UPDATE import_runs
		 SET status = ?, draft_id = ?, error_message = ?, finished_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		string(status), draftID, errMsg, id)
	if err != nil {
		log.Printf("warning: failed to update run %d: %v", id, err)
	}
}

// Runs returns the most recent run records, newest first.
func (s *SQLiteStore) Runs(limit int) ([]models.ImportRun, error) {
	rows, err := s.db.Query(
		`SELECT id, url, started_at, finished_at, status, draft_id, error_message
		 FROM import_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.ImportRun
	for rows.Next() {
		var (
			r      models.ImportRun
			status string
		)
		if err := rows.Scan(&r.ID, &r.URL, &r.StartedAt, &r.FinishedAt, &status, &r.DraftID, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Status = models.RunStatus(status)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Log appends a log line, optionally attached to a run.
func (s *SQLiteStore) Log(runID *int64, level models.LogLevel, message string) {
	_, err := s.db.Exec(
		`INSERT INTO import_logs (run_id, level, message) VALUES (?, ?, ?)`,
		runID, string(level), message)
	if err != nil {
		log.Printf("warning: failed to write import log: %v", err)
	}
}
