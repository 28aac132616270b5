package files_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/caregate/internal/files"
	"github.com/JaimeStill/caregate/internal/testdb"
	"github.com/JaimeStill/caregate/pkg/lifecycle"
	"github.com/JaimeStill/caregate/pkg/storage"
)

type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: map[string][]byte{}}
}

func (m *memStore) Start(*lifecycle.Coordinator) error { return nil }
func (m *memStore) Ready() bool                        { return true }

func (m *memStore) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
	return nil
}

func (m *memStore) Download(_ context.Context, key string) (*storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.Object{Body: io.NopCloser(bytes.NewReader(data)), Size: int64(len(data))}, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.blobs, key)
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

func insertQuery(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := db.QueryRow(
		"INSERT INTO queries(query_text, status) VALUES ('test question', 'processing') RETURNING id",
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert query: %v", err)
	}
	return id
}

func newRepo(t *testing.T, expiry string) (files.System, *memStore, *sql.DB) {
	t.Helper()
	db := testdb.Open(t)
	store := newMemStore()

	cfg := files.Config{Expiry: expiry}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return files.New(db, store, cfg, discard()), store, db
}

func TestRepositoryUpload(t *testing.T) {
	sys, store, db := newRepo(t, "30m")
	ctx := context.Background()
	qid := insertQuery(t, db)

	data := []byte("bp,hr\n120/80,72\n")
	f, err := sys.Upload(ctx, files.UploadCommand{QueryID: qid, Filename: "vitals.csv", ContentType: "text/csv", Data: data})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if len(f.StoredFilename) != 64+len(".csv") {
		t.Errorf("StoredFilename = %q, want sha256 hex + .csv", f.StoredFilename)
	}
	if f.FileSize != int64(len(data)) || f.FileType != "text/csv" {
		t.Errorf("file = %+v", f)
	}
	if time.Until(f.ExpiryTime) < 29*time.Minute {
		t.Errorf("ExpiryTime = %v, want ~30m ahead", f.ExpiryTime)
	}
	if store.count() != 1 {
		t.Errorf("blobs = %d, want 1", store.count())
	}

	summaries, err := sys.Summaries(ctx, qid)
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(summaries) != 1 || summaries[0] != f.Summary {
		t.Errorf("summaries = %v", summaries)
	}

	_, obj, err := sys.Download(ctx, f.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer obj.Body.Close()
	got, _ := io.ReadAll(obj.Body)
	if !bytes.Equal(got, data) {
		t.Errorf("downloaded %q", got)
	}

	list, err := sys.ListByQuery(ctx, qid)
	if err != nil || len(list) != 1 {
		t.Errorf("list = %v, %v", list, err)
	}
}

func TestRepositoryUploadRejections(t *testing.T) {
	sys, store, db := newRepo(t, "30m")
	ctx := context.Background()
	qid := insertQuery(t, db)

	tests := []struct {
		name string
		cmd  files.UploadCommand
		want error
	}{
		{"unknown query", files.UploadCommand{QueryID: uuid.New(), Filename: "a.txt", Data: []byte("a")}, files.ErrQueryNotFound},
		{"extension", files.UploadCommand{QueryID: qid, Filename: "a.exe", Data: []byte("a")}, files.ErrUnsupportedType},
		{"empty", files.UploadCommand{QueryID: qid, Filename: "a.txt"}, files.ErrInvalidFile},
		{"too large", files.UploadCommand{QueryID: qid, Filename: "a.txt", Data: make([]byte, 5*1024*1024+1)}, files.ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sys.Upload(ctx, tt.cmd); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if store.count() != 0 {
		t.Errorf("blobs = %d, want none stored for rejected uploads", store.count())
	}
}

func TestRepositoryExpiry(t *testing.T) {
	sys, store, db := newRepo(t, "50ms")
	ctx := context.Background()
	qid := insertQuery(t, db)

	f, err := sys.Upload(ctx, files.UploadCommand{QueryID: qid, Filename: "notes.txt", Data: []byte("note")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if _, _, err := sys.Download(ctx, f.ID); !errors.Is(err, files.ErrExpired) {
		t.Errorf("download err = %v, want ErrExpired", err)
	}

	summaries, err := sys.Summaries(ctx, qid)
	if err != nil || len(summaries) != 0 {
		t.Errorf("summaries = %v, %v, want none", summaries, err)
	}

	n, err := sys.Purge(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 || store.count() != 0 {
		t.Errorf("purged %d, blobs left %d", n, store.count())
	}

	if _, err := sys.Find(ctx, f.ID); !errors.Is(err, files.ErrNotFound) {
		t.Errorf("find after purge err = %v, want ErrNotFound", err)
	}
}
