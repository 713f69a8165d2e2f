package workers

import (
	"context"
	"errors"
	"log"
	"time"

	"krisha_importer/models"
	"krisha_importer/services"
	"krisha_importer/storage"
)

// ImportWorker drains the queued import requests in the background,
// processing each request independently so one bad URL never stalls
// the queue.
type ImportWorker struct {
	ops      *storage.SQLiteStore
	importer *services.Importer
}

func NewImportWorker(ops *storage.SQLiteStore, importer *services.Importer) *ImportWorker {
	return &ImportWorker{ops: ops, importer: importer}
}

// Run polls the queue on the given interval until ctx is cancelled.
func (w *ImportWorker) Run(ctx context.Context, interval time.Duration, batchSize int) {
	log.Printf("import worker started (interval %s, batch %d)", interval, batchSize)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("import worker stopped")
			return
		case <-ticker.C:
			w.Drain(ctx, batchSize)
		}
	}
}

// Drain processes up to batchSize pending requests. Every request is marked
// processed regardless of outcome; a failed import is recorded in its run,
// not retried.
func (w *ImportWorker) Drain(ctx context.Context, batchSize int) {
	requests, err := w.ops.PendingRequests(batchSize)
	if err != nil {
		log.Printf("failed to fetch pending import requests: %v", err)
		return
	}
	if len(requests) == 0 {
		return
	}

	log.Printf("processing %d queued import request(s)", len(requests))
	for _, req := range requests {
		w.process(ctx, req)
		if ctx.Err() != nil {
			return
		}
	}
}

func (w *ImportWorker) process(ctx context.Context, req models.ImportRequest) {
	draft, err := w.importer.Import(ctx, req.URL, req.OwnerID, req.AgencyID)
	switch {
	case errors.Is(err, services.ErrAlreadyImported):
		log.Printf("request %s: %v", req.Token, err)
		w.ops.Log(nil, models.LogLevelWarn, "duplicate import request for "+req.URL)
	case err != nil:
		log.Printf("request %s: import of %s failed: %v", req.Token, req.URL, err)
		w.ops.Log(nil, models.LogLevelError, err.Error())
	default:
		log.Printf("request %s: imported %s as draft %d", req.Token, req.URL, draft.ID)
	}

	if err := w.ops.MarkRequestProcessed(req.ID); err != nil {
		log.Printf("request %s: %v", req.Token, err)
	}
}
