package backend

import (
	"context"
	"io"
)

// Upload carries the raw bytes and declared attributes of one file on its
// way into a backend.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Artifact describes a durably stored object. Ref is opaque to everything
// except the backend that minted it; Location is the retrieval URL.
type Artifact struct {
	Ref      string
	Location string
}

// Store abstracts where raw file bytes physically live. Put either fully
// succeeds (the artifact is retrievable via the returned ref) or fails with
// no residual artifact; implementations clean up partial writes before
// returning. Remove treats an already-absent artifact as success.
type Store interface {
	Put(ctx context.Context, up *Upload) (*Artifact, error)
	Remove(ctx context.Context, ref string) error
	ResolveURL(location string) string
	// Kind names the backend variant. It is recorded on each media record so
	// a ref is only ever interpreted by the backend that created it; callers
	// must not branch on it.
	Kind() string
}
