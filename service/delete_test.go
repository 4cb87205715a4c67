package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/indieinfra/mediavault/media"
	"github.com/indieinfra/mediavault/storage/backend"
	"github.com/indieinfra/mediavault/storage/record"
)

func uploadFixture(t *testing.T, svc *UploadService, owner, name, mimeType string, size int) *media.Record {
	t.Helper()

	rec, err := svc.Upload(context.Background(), UploadParams{
		OwnerID:      owner,
		Filename:     name,
		ContentType:  mimeType,
		DeclaredSize: int64(size),
		Body:         strings.NewReader(strings.Repeat("x", size)),
	})
	if err != nil {
		t.Fatalf("fixture upload failed: %v", err)
	}

	return rec
}

type removeFailStore struct {
	backend.Store
	removeErr error
}

func (s *removeFailStore) Remove(ctx context.Context, ref string) error {
	return s.removeErr
}

func TestDelete_RemovesArtifactAndRecord(t *testing.T) {
	store, records := newTestStores()
	uploads := newTestUploadService(store, records)
	deletes := NewDeleteService(store, records, 5*time.Second, nil)

	rec := uploadFixture(t, uploads, "owner-1", "photo.png", "image/png", 100)

	if err := deletes.Delete(context.Background(), "owner-1", rec.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, ok := store.Object(rec.BackendRef); ok {
		t.Fatalf("artifact still present after delete")
	}

	if _, err := records.FindOne(context.Background(), "owner-1", rec.ID); !errors.Is(err, media.ErrNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}
}

func TestDelete_UnknownIDIsNotFound(t *testing.T) {
	store, records := newTestStores()
	deletes := NewDeleteService(store, records, 5*time.Second, nil)

	err := deletes.Delete(context.Background(), "owner-1", "no-such-id")
	if !errors.Is(err, media.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_ForeignOwnerIsIndistinguishableFromMissing(t *testing.T) {
	store, records := newTestStores()
	uploads := newTestUploadService(store, records)
	deletes := NewDeleteService(store, records, 5*time.Second, nil)

	rec := uploadFixture(t, uploads, "owner-a", "photo.png", "image/png", 100)

	err := deletes.Delete(context.Background(), "owner-b", rec.ID)
	if !errors.Is(err, media.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign record, got %v", err)
	}

	// The record must survive the foreign delete attempt.
	if _, err := records.FindOne(context.Background(), "owner-a", rec.ID); err != nil {
		t.Fatalf("record should still exist: %v", err)
	}
	if _, ok := store.Object(rec.BackendRef); !ok {
		t.Fatalf("artifact should still exist")
	}
}

func TestDelete_BackendFailureStillRemovesRecord(t *testing.T) {
	store, records := newTestStores()
	uploads := newTestUploadService(store, records)

	rec := uploadFixture(t, uploads, "owner-1", "clip.mp4", "video/mp4", 100)

	failing := &removeFailStore{Store: store, removeErr: errors.New("network unreachable")}
	deletes := NewDeleteService(failing, records, 5*time.Second, nil)

	if err := deletes.Delete(context.Background(), "owner-1", rec.ID); err != nil {
		t.Fatalf("delete should swallow backend failure, got %v", err)
	}

	if _, err := records.FindOne(context.Background(), "owner-1", rec.ID); !errors.Is(err, media.ErrNotFound) {
		t.Fatalf("expected record removed despite backend failure, got %v", err)
	}
}

func TestDelete_IdempotentBackendRemove(t *testing.T) {
	store, records := newTestStores()
	uploads := newTestUploadService(store, records)
	deletes := NewDeleteService(store, records, 5*time.Second, nil)

	rec := uploadFixture(t, uploads, "owner-1", "photo.png", "image/png", 100)

	// Remove the artifact out from under the record; the delete must still
	// succeed because an already-absent artifact counts as removed.
	if err := store.Remove(context.Background(), rec.BackendRef); err != nil {
		t.Fatalf("direct remove failed: %v", err)
	}
	if err := store.Remove(context.Background(), rec.BackendRef); err != nil {
		t.Fatalf("second remove should be idempotent, got %v", err)
	}

	if err := deletes.Delete(context.Background(), "owner-1", rec.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestDelete_SkipsArtifactFromOtherBackend(t *testing.T) {
	store, records := newTestStores()
	deletes := NewDeleteService(store, records, 5*time.Second, nil)

	rec := &media.Record{
		ID:             "legacy-1",
		OwnerID:        "owner-1",
		OriginalName:   "old.png",
		FileType:       media.FileTypeImage,
		MIMEType:       "image/png",
		SizeBytes:      10,
		StorageBackend: "s3",
		BackendRef:     "2020/01/old.png",
		Location:       "https://cdn.example.com/2020/01/old.png",
		CreatedAt:      time.Now().UTC(),
	}
	if err := records.Insert(context.Background(), rec); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := deletes.Delete(context.Background(), "owner-1", rec.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := records.FindOne(context.Background(), "owner-1", rec.ID); !errors.Is(err, media.ErrNotFound) {
		t.Fatalf("expected record removed, got %v", err)
	}
}

var _ record.Repository = (*record.MemoryRepository)(nil)
