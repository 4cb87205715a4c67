package service

import (
	"context"

	"github.com/indieinfra/mediavault/media"
	"github.com/indieinfra/mediavault/storage/record"
)

// DefaultPageLimit is used when a list request does not name a limit.
const DefaultPageLimit = 12

// ListParams are the caller-supplied knobs for a listing. Zero values fall
// back to page 1 and the default limit; an unrecognized Type is ignored
// rather than rejected, matching the no-filter default.
type ListParams struct {
	Page  int
	Limit int
	Type  string
}

// Pagination describes the page that came back and the whole result set it
// was cut from.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

// MediaPage is one page of an owner's records.
type MediaPage struct {
	Records    []*media.Record
	Pagination Pagination
}

// QueryService wraps the repository's page query with defaulting, limit
// capping, and page-count derivation.
type QueryService struct {
	records  record.Repository
	maxLimit int
}

func NewQueryService(records record.Repository, maxLimit int) *QueryService {
	if maxLimit < 1 {
		maxLimit = DefaultPageLimit
	}

	return &QueryService{records: records, maxLimit: maxLimit}
}

func (s *QueryService) List(ctx context.Context, ownerID string, params ListParams) (*MediaPage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}

	limit := params.Limit
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	filter := record.ListFilter{
		OwnerID: ownerID,
		Page:    page,
		Limit:   limit,
	}

	if fileType, ok := media.ParseFileType(params.Type); ok {
		filter.FileType = &fileType
	}

	records, total, err := s.records.FindPage(ctx, filter)
	if err != nil {
		return nil, &media.PersistenceError{Err: err}
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return &MediaPage{
		Records: records,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: pages,
		},
	}, nil
}
