package workers

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"krisha_importer/models"
	"krisha_importer/services"
	"krisha_importer/storage"
)

type nopRefs struct{}

func (nopRefs) CityByName(context.Context, string) (*models.City, error) { return nil, nil }
func (nopRefs) DistrictByName(context.Context, *int64, string) (*models.District, error) {
	return nil, nil
}
func (nopRefs) ComplexByName(context.Context, string) (*models.Complex, error) { return nil, nil }
func (nopRefs) VocabularyByName(context.Context, models.Dictionary, string) (*models.VocabEntry, error) {
	return nil, nil
}
func (nopRefs) Vocabulary(context.Context, models.Dictionary) ([]models.VocabEntry, error) {
	return nil, nil
}

type stubParser struct {
	err   error
	calls int
}

func (p *stubParser) Parse(_ context.Context, url string) (*models.RawListing, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &models.RawListing{Title: "квартира", SourceURL: url}, nil
}

type memDrafts struct {
	byURL  map[string]*models.PropertyDraft
	nextID int64
}

func (m *memDrafts) DraftByImportURL(_ context.Context, url string) (*models.PropertyDraft, error) {
	return m.byURL[url], nil
}

func (m *memDrafts) CreateDraft(_ context.Context, d *models.PropertyDraft) (int64, error) {
	m.nextID++
	m.byURL[d.ImportURL] = d
	return m.nextID, nil
}

func newTestWorker(t *testing.T, p *stubParser) (*ImportWorker, *storage.SQLiteStore, *memDrafts) {
	t.Helper()
	ops, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "ops.db"))
	if err != nil {
		t.Fatalf("failed to open ops store: %v", err)
	}
	t.Cleanup(func() { ops.Close() })

	drafts := &memDrafts{byURL: map[string]*models.PropertyDraft{}}
	importer := services.NewImporter(p, services.NewNormalizer(nopRefs{}), drafts, ops)
	return NewImportWorker(ops, importer), ops, drafts
}

func TestDrain_ProcessesQueue(t *testing.T) {
	p := &stubParser{}
	worker, ops, drafts := newTestWorker(t, p)

	if _, err := ops.EnqueueRequest("https://krisha.kz/a/show/1", 7, 3); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if _, err := ops.EnqueueRequest("https://krisha.kz/a/show/2", 7, 3); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	worker.Drain(context.Background(), 10)

	if p.calls != 2 {
		t.Fatalf("expected 2 parses, got %d", p.calls)
	}
	if len(drafts.byURL) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts.byURL))
	}
	if drafts.byURL["https://krisha.kz/a/show/1"].OwnerID != 7 {
		t.Fatal("draft missing owner from request")
	}

	pending, err := ops.PendingRequests(10)
	if err != nil {
		t.Fatalf("pending query failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty queue after drain, got %d", len(pending))
	}
}

func TestDrain_FailedImportStillMarkedProcessed(t *testing.T) {
	p := &stubParser{err: errors.New("load failed")}
	worker, ops, drafts := newTestWorker(t, p)

	if _, err := ops.EnqueueRequest("https://krisha.kz/a/show/3", 1, 1); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	worker.Drain(context.Background(), 10)

	if len(drafts.byURL) != 0 {
		t.Fatalf("expected no drafts, got %d", len(drafts.byURL))
	}
	pending, err := ops.PendingRequests(10)
	if err != nil {
		t.Fatalf("pending query failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatal("failed request must still leave the queue")
	}

	runs, err := ops.Runs(10)
	if err != nil {
		t.Fatalf("runs query failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != models.RunStatusFailed {
		t.Fatalf("expected one failed run, got %+v", runs)
	}
}

func TestDrain_DuplicateRequest(t *testing.T) {
	p := &stubParser{}
	worker, ops, _ := newTestWorker(t, p)

	if _, err := ops.EnqueueRequest("https://krisha.kz/a/show/4", 1, 1); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if _, err := ops.EnqueueRequest("https://krisha.kz/a/show/4", 1, 1); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	worker.Drain(context.Background(), 10)

	if p.calls != 1 {
		t.Fatalf("expected second request rejected before parse, got %d parses", p.calls)
	}
}
