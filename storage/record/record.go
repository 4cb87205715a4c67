package record

import (
	"context"

	"github.com/indieinfra/mediavault/media"
)

// ListFilter scopes a page query. OwnerID is mandatory; FileType narrows to
// one type when non-nil. Page and Limit are 1-based and normalized by the
// implementations.
type ListFilter struct {
	OwnerID  string
	FileType *media.FileType
	Page     int
	Limit    int
}

// Offset computes the row offset for the normalized page/limit pair.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

func (f *ListFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}

	if f.Limit < 1 {
		f.Limit = 1
	}
}

// TypeStat is the aggregate for one file type.
type TypeStat struct {
	Count          int64
	TotalSizeBytes int64
}

// Repository persists media records. Every read is scoped by owner; records
// are immutable between Insert and DeleteByID. FindPage returns records
// sorted by created_at descending with id descending as the tie-break, and
// a page past the end yields an empty slice, never an error. FindOne and
// DeleteByID return media.ErrNotFound when nothing matches.
type Repository interface {
	Insert(ctx context.Context, rec *media.Record) error
	FindPage(ctx context.Context, filter ListFilter) ([]*media.Record, int64, error)
	FindOne(ctx context.Context, ownerID, id string) (*media.Record, error)
	DeleteByID(ctx context.Context, id string) error
	AggregateByType(ctx context.Context, ownerID string) (map[media.FileType]TypeStat, error)
}
