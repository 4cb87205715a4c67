package service

import (
	"context"

	"github.com/indieinfra/mediavault/media"
	"github.com/indieinfra/mediavault/storage/record"
)

// OwnerStats is the folded per-owner aggregate. An owner with no records
// gets all zeros, not an error.
type OwnerStats struct {
	Total          int64 `json:"total"`
	Images         int64 `json:"images"`
	Videos         int64 `json:"videos"`
	TotalSizeBytes int64 `json:"totalSizeBytes"`
}

// StatsService computes per-owner counts and size totals. Statistics are
// computed fresh on every request; nothing is cached.
type StatsService struct {
	records record.Repository
}

func NewStatsService(records record.Repository) *StatsService {
	return &StatsService{records: records}
}

func (s *StatsService) ForOwner(ctx context.Context, ownerID string) (*OwnerStats, error) {
	byType, err := s.records.AggregateByType(ctx, ownerID)
	if err != nil {
		return nil, &media.PersistenceError{Err: err}
	}

	stats := &OwnerStats{}
	for fileType, stat := range byType {
		stats.Total += stat.Count
		stats.TotalSizeBytes += stat.TotalSizeBytes

		switch fileType {
		case media.FileTypeImage:
			stats.Images = stat.Count
		case media.FileTypeVideo:
			stats.Videos = stat.Count
		}
	}

	return stats, nil
}
