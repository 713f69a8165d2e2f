package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"krisha_importer/identity"
	"krisha_importer/models"
)

// ErrAlreadyImported is returned when a draft for the same canonical
// listing URL already exists.
var ErrAlreadyImported = errors.New("listing already imported")

// PageParser produces a raw listing from a source URL.
type PageParser interface {
	Parse(ctx context.Context, url string) (*models.RawListing, error)
}

// DraftStore is the persistence surface the importer needs.
type DraftStore interface {
	DraftByImportURL(ctx context.Context, importURL string) (*models.PropertyDraft, error)
	CreateDraft(ctx context.Context, draft *models.PropertyDraft) (int64, error)
}

// RunRecorder tracks the lifecycle of individual import attempts for
// operational visibility. A nil recorder disables tracking.
type RunRecorder interface {
	CreateRun(url string) (int64, error)
	UpdateRun(id int64, status models.RunStatus, draftID *int64, errMsg string)
}

// Importer drives the full pipeline for a single listing URL: dedup check,
// page parse, normalization, draft persistence.
type Importer struct {
	parser     PageParser
	normalizer *Normalizer
	store      DraftStore
	runs       RunRecorder
}

func NewImporter(parser PageParser, normalizer *Normalizer, store DraftStore, runs RunRecorder) *Importer {
	return &Importer{parser: parser, normalizer: normalizer, store: store, runs: runs}
}

// Import processes one listing URL on behalf of ownerID/agencyID and
// returns the persisted draft. The URL is canonicalized before the dedup
// check so that query-string and scheme variants of the same listing
// collapse to one draft.
func (im *Importer) Import(ctx context.Context, rawURL string, ownerID, agencyID int64) (*models.PropertyDraft, error) {
	url := identity.CanonicalImportURL(rawURL)

	runID := im.startRun(url)

	existing, err := im.store.DraftByImportURL(ctx, url)
	if err != nil {
		im.finishRun(runID, models.RunStatusFailed, nil, err)
		return nil, fmt.Errorf("dedup check for %s: %w", url, err)
	}
	if existing != nil {
		im.finishRun(runID, models.RunStatusFailed, &existing.ID, ErrAlreadyImported)
		return nil, fmt.Errorf("%w: %s", ErrAlreadyImported, url)
	}

	raw, err := im.parser.Parse(ctx, url)
	if err != nil {
		im.finishRun(runID, models.RunStatusFailed, nil, err)
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	draft, err := im.normalizer.Normalize(ctx, raw)
	if err != nil {
		im.finishRun(runID, models.RunStatusFailed, nil, err)
		return nil, fmt.Errorf("normalize %s: %w", url, err)
	}

	draft.OwnerID = ownerID
	draft.AgencyID = agencyID
	draft.ImportURL = url
	draft.IsPublished = false
	now := time.Now()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	id, err := im.store.CreateDraft(ctx, draft)
	if err != nil {
		im.finishRun(runID, models.RunStatusFailed, nil, err)
		return nil, fmt.Errorf("persist draft for %s: %w", url, err)
	}
	draft.ID = id

	im.finishRun(runID, models.RunStatusCompleted, &id, nil)
	log.Printf("imported %s as draft %d (owner %d)", url, id, ownerID)
	return draft, nil
}

func (im *Importer) startRun(url string) int64 {
	if im.runs == nil {
		return 0
	}
	id, err := im.runs.CreateRun(url)
	if err != nil {
		log.Printf("warning: failed to record import run for %s: %v", url, err)
		return 0
	}
	return id
}

func (im *Importer) finishRun(id int64, status models.RunStatus, draftID *int64, cause error) {
	if im.runs == nil || id == 0 {
		return
	}
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	im.runs.UpdateRun(id, status, draftID, msg)
}
