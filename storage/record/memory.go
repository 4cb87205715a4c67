package record

import (
	"context"
	"sort"
	"sync"

	"github.com/indieinfra/mediavault/media"
)

// MemoryRepository keeps records in process memory. It backs the "memory"
// strategy used in tests and local development and honors the same
// ordering and ownership contracts as the SQL variants.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]media.Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]media.Record)}
}

func (m *MemoryRepository) Insert(ctx context.Context, rec *media.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.records[rec.ID] = *rec
	m.mu.Unlock()
	return nil
}

func (m *MemoryRepository) FindPage(ctx context.Context, filter ListFilter) ([]*media.Record, int64, error) {
	filter.normalize()

	m.mu.RLock()
	matched := make([]media.Record, 0, len(m.records))
	for _, rec := range m.records {
		if rec.OwnerID != filter.OwnerID {
			continue
		}
		if filter.FileType != nil && rec.FileType != *filter.FileType {
			continue
		}
		matched = append(matched, rec)
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))

	start := filter.Offset()
	if start >= len(matched) {
		return []*media.Record{}, total, nil
	}

	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]*media.Record, 0, end-start)
	for i := start; i < end; i++ {
		rec := matched[i]
		page = append(page, &rec)
	}

	return page, total, nil
}

func (m *MemoryRepository) FindOne(ctx context.Context, ownerID, id string) (*media.Record, error) {
	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()

	if !ok || rec.OwnerID != ownerID {
		return nil, media.ErrNotFound
	}

	copied := rec
	return &copied, nil
}

func (m *MemoryRepository) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return media.ErrNotFound
	}

	delete(m.records, id)
	return nil
}

func (m *MemoryRepository) AggregateByType(ctx context.Context, ownerID string) (map[media.FileType]TypeStat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make(map[media.FileType]TypeStat)
	for _, rec := range m.records {
		if rec.OwnerID != ownerID {
			continue
		}

		stat := stats[rec.FileType]
		stat.Count++
		stat.TotalSizeBytes += rec.SizeBytes
		stats[rec.FileType] = stat
	}

	return stats, nil
}
