package service

import (
	"context"
	"errors"
	"time"

	"github.com/indieinfra/mediavault/media"
	"github.com/indieinfra/mediavault/storage/backend"
	"github.com/indieinfra/mediavault/storage/record"
)

// DeleteService removes a record and its backend artifact. A record that is
// missing or owned by someone else yields the same not-found outcome, so
// callers cannot probe for other owners' records.
type DeleteService struct {
	store   backend.Store
	records record.Repository
	timeout time.Duration
	logger  Logger
}

func NewDeleteService(store backend.Store, records record.Repository, timeout time.Duration, logger Logger) *DeleteService {
	return &DeleteService{
		store:   store,
		records: records,
		timeout: timeout,
		logger:  ensureLogger(logger),
	}
}

// Delete looks the record up scoped to its owner, removes the backend
// artifact best-effort, then removes the record. A backend delete failure is
// logged and swallowed: the metadata record always goes away, trading a
// possible orphaned remote artifact for a delete that never hangs on the
// backend.
func (s *DeleteService) Delete(ctx context.Context, ownerID, id string) error {
	rec, err := s.records.FindOne(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			return media.ErrNotFound
		}
		return &media.PersistenceError{Err: err}
	}

	if rec.StorageBackend == s.store.Kind() {
		removeCtx, cancel := context.WithTimeout(ctx, s.timeout)
		if err := s.store.Remove(removeCtx, rec.BackendRef); err != nil {
			s.logger.Printf("backend delete of %q failed, removing record anyway: %v", rec.BackendRef, err)
		}
		cancel()
	} else {
		// A ref is only meaningful to the backend that minted it; a record
		// written under a differently configured backend keeps its artifact.
		s.logger.Printf("record %s belongs to backend %q, not %q; skipping artifact delete", rec.ID, rec.StorageBackend, s.store.Kind())
	}

	if err := s.records.DeleteByID(ctx, id); err != nil {
		// A concurrent delete already removed it; the outcome stands.
		if errors.Is(err, media.ErrNotFound) {
			return nil
		}
		return &media.PersistenceError{Err: err}
	}

	return nil
}
