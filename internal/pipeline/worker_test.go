package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/dgallion1/clausetree/internal/chunker"
	"github.com/dgallion1/clausetree/internal/outline"
	"github.com/dgallion1/clausetree/internal/pathstore"
)

type fakeStore struct {
	mu       sync.Mutex
	nodes    map[string]pathstore.NodeRequest
	attempts map[string]int
	links    []pathstore.LinkRequest
	dupKey   string
	fail     func(key string, attempt int) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nodes:    make(map[string]pathstore.NodeRequest),
		attempts: make(map[string]int),
	}
}

func (f *fakeStore) PutNode(_ context.Context, key string, req pathstore.NodeRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[key]++
	if f.fail != nil {
		if err := f.fail(key, f.attempts[key]); err != nil {
			return err
		}
	}
	f.nodes[key] = req
	return nil
}

func (f *fakeStore) ListChildren(_ context.Context, key string, _ int) ([]pathstore.ListChildrenResponse, error) {
	if f.dupKey != "" && strings.Contains(key, "/by_hash/") {
		return []pathstore.ListChildrenResponse{{Key: key + "/" + f.dupKey}}, nil
	}
	return nil, nil
}

func (f *fakeStore) PutLink(_ context.Context, req pathstore.LinkRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links = append(f.links, req)
	return nil
}

func (f *fakeStore) keysWith(part string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.nodes {
		if strings.Contains(k, part) {
			keys = append(keys, k)
		}
	}
	return keys
}

const lampsText = `1 Scope
This regulation applies to lamps.
2 Requirements
2.1 General
Lamps shall be marked.
`

func newTestWorker(store Store) *Worker {
	w := NewWorker(
		store,
		outline.New(outline.DefaultProfile()),
		NewLatencyStats(0),
		slog.New(slog.DiscardHandler),
		chunker.Config{ChunkSize: 1500, ChunkOverlap: 200, MinChunk: 1},
		"clausetree",
		4,
		false,
	)
	w.wait = noWait
	return w
}

func TestWorker_ProcessStoresOutline(t *testing.T) {
	store := newFakeStore()
	w := newTestWorker(store)
	job := NewJob("u1", "lamps.txt", "Lamps", []byte(lampsText))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status %q, got %q (errors %v)", StatusCompleted, snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.Clauses != 3 || snap.Progress.ClausesStored != 3 {
		t.Errorf("expected 3 clauses stored, got %d of %d", snap.Progress.ClausesStored, snap.Progress.Clauses)
	}
	if snap.Progress.TotalChunks != 2 || snap.Progress.ChunksStored != 2 {
		t.Errorf("expected 2 chunks stored, got %d of %d", snap.Progress.ChunksStored, snap.Progress.TotalChunks)
	}
	if snap.ContentHash == "" {
		t.Error("expected content hash to be set")
	}

	keys := Keys{Prefix: "clausetree", UserID: "u1"}
	meta, ok := store.nodes[keys.Meta(job.DocID)]
	if !ok {
		t.Fatal("expected meta node")
	}
	if v := meta.Value.(map[string]any); v["title"] != "Lamps" {
		t.Errorf("expected title Lamps in meta, got %v", v["title"])
	}
	if _, ok := store.nodes[keys.HashEntry(snap.ContentHash, job.DocID)]; !ok {
		t.Error("expected hash index entry")
	}

	first := store.nodes[keys.Clause(job.DocID, 0)].Value.(map[string]any)
	if first["chapter_id"] != "1" || first["full_path"] != "1 Scope" {
		t.Errorf("unexpected first clause %v", first)
	}

	if len(store.links) != 2 {
		t.Fatalf("expected 2 chunk links, got %d", len(store.links))
	}
	targets := map[string]bool{}
	for _, l := range store.links {
		targets[l.To] = true
	}
	if !targets[keys.Clause(job.DocID, 0)] || !targets[keys.Clause(job.DocID, 2)] {
		t.Errorf("expected chunks linked to clauses 1 and 2.1, got %v", targets)
	}

	if job.Document() == nil {
		t.Error("expected reconstructed document on job")
	}
}

func TestWorker_DuplicateSkipped(t *testing.T) {
	store := newFakeStore()
	store.dupKey = "older-doc"
	w := newTestWorker(store)
	job := NewJob("u1", "lamps.txt", "", []byte(lampsText))

	w.Process(context.Background(), job)

	if job.Snapshot().Status != StatusDupSkipped {
		t.Errorf("expected status %q, got %q", StatusDupSkipped, job.Snapshot().Status)
	}
	if len(store.nodes) != 0 {
		t.Errorf("expected nothing stored, got %d nodes", len(store.nodes))
	}
}

func TestWorker_UnsupportedFormat(t *testing.T) {
	w := newTestWorker(newFakeStore())
	job := NewJob("u1", "sheet.xlsx", "", []byte("x"))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "parsing" {
		t.Errorf("expected failed in parsing, got %q in %q", snap.Status, snap.Phase)
	}
}

func TestWorker_NoClauses(t *testing.T) {
	w := newTestWorker(newFakeStore())
	job := NewJob("u1", "notes.txt", "", []byte("just some prose\nand a bit more prose\n"))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "reconstructing" {
		t.Errorf("expected failed in reconstructing, got %q in %q", snap.Status, snap.Phase)
	}
}

func TestWorker_PartialOnChunkFailure(t *testing.T) {
	store := newFakeStore()
	store.fail = func(key string, _ int) error {
		if strings.Contains(key, "/chunks/") {
			return &pathstore.StatusError{Op: "put node", Key: key, StatusCode: http.StatusBadRequest}
		}
		return nil
	}
	w := newTestWorker(store)
	job := NewJob("u1", "lamps.txt", "", []byte(lampsText))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Fatalf("expected status %q, got %q", StatusPartial, snap.Status)
	}
	if snap.Progress.ChunksStored != 0 || snap.Progress.ClausesStored != 3 {
		t.Errorf("expected 3 clauses and 0 chunks stored, got %d and %d", snap.Progress.ClausesStored, snap.Progress.ChunksStored)
	}
	if len(snap.Progress.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", snap.Progress.Errors)
	}
}

func TestWorker_RetriesTransientStoreErrors(t *testing.T) {
	store := newFakeStore()
	store.fail = func(key string, attempt int) error {
		if strings.HasSuffix(key, "/meta") && attempt == 1 {
			return &pathstore.StatusError{Op: "put node", Key: key, StatusCode: http.StatusServiceUnavailable}
		}
		return nil
	}
	w := newTestWorker(store)
	job := NewJob("u1", "lamps.txt", "", []byte(lampsText))

	w.Process(context.Background(), job)

	if job.Snapshot().Status != StatusCompleted {
		t.Fatalf("expected status %q, got %q", StatusCompleted, job.Snapshot().Status)
	}
	metaKeys := store.keysWith("/meta")
	if len(metaKeys) != 1 || store.attempts[metaKeys[0]] != 2 {
		t.Errorf("expected meta written on second attempt, got %v", store.attempts)
	}
}

func TestLastSegment(t *testing.T) {
	tests := map[string]string{
		"a/b/c":   "c",
		"a.b.doc": "doc",
		"plain":   "plain",
	}
	for in, want := range tests {
		if got := LastSegment(in); got != want {
			t.Errorf("LastSegment(%q): expected %q, got %q", in, want, got)
		}
	}
}
