package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/indieinfra/mediavault/media"
	"github.com/indieinfra/mediavault/storage/backend"
	"github.com/indieinfra/mediavault/storage/record"
)

// UploadParams carries one upload through the pipeline.
type UploadParams struct {
	OwnerID      string
	Filename     string
	ContentType  string
	DeclaredSize int64
	Body         io.Reader
}

// UploadService validates an upload, stores the bytes, and persists the
// metadata record. The artifact and its record must never stay observably
// inconsistent past the request: a failed insert triggers a compensating
// delete of the just-stored artifact.
type UploadService struct {
	store    backend.Store
	records  record.Repository
	maxBytes int64
	timeout  time.Duration
	logger   Logger

	newID func() string
	now   func() time.Time
}

func NewUploadService(store backend.Store, records record.Repository, maxBytes int64, timeout time.Duration, logger Logger) *UploadService {
	return &UploadService{
		store:    store,
		records:  records,
		maxBytes: maxBytes,
		timeout:  timeout,
		logger:   ensureLogger(logger),
		newID:    func() string { return uuid.New().String() },
		now:      time.Now,
	}
}

// Upload runs validation, store, and persist as sequential steps with
// explicit short-circuiting. Validation failures return before any backend
// call is made.
func (s *UploadService) Upload(ctx context.Context, params UploadParams) (*media.Record, error) {
	if err := media.ValidateUpload(params.ContentType, params.DeclaredSize, s.maxBytes); err != nil {
		return nil, err
	}

	fileType := media.DeriveFileType(params.ContentType)

	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	artifact, err := s.store.Put(storeCtx, &backend.Upload{
		Filename:    params.Filename,
		ContentType: params.ContentType,
		Size:        params.DeclaredSize,
		Body:        params.Body,
	})
	if err != nil {
		return nil, &media.BackendError{Op: "store", Err: err}
	}

	// The client may have gone away while the bytes streamed in. Clean up
	// now rather than leaving an artifact no record will ever reference.
	if err := ctx.Err(); err != nil {
		s.compensate(artifact.Ref)
		return nil, err
	}

	rec := &media.Record{
		ID:             s.newID(),
		OwnerID:        params.OwnerID,
		OriginalName:   params.Filename,
		FileType:       fileType,
		MIMEType:       params.ContentType,
		SizeBytes:      params.DeclaredSize,
		StorageBackend: s.store.Kind(),
		BackendRef:     artifact.Ref,
		Location:       artifact.Location,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.records.Insert(ctx, rec); err != nil {
		s.compensate(artifact.Ref)
		return nil, &media.PersistenceError{Err: err}
	}

	return rec, nil
}

// compensate removes a stored artifact after a failed persist. It runs on a
// fresh context because the request context may already be dead.
func (s *UploadService) compensate(ref string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.store.Remove(ctx, ref); err != nil {
		s.logger.Printf("compensating delete of %q failed, artifact may be orphaned: %v", ref, err)
	}
}
