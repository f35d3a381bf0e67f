package deliverylog

import (
	"context"
	"sort"
	"sync"
)

type InMemoryRecorder struct {
	mu      sync.RWMutex
	records []Record
}

func NewInMemoryRecorder() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

func (m *InMemoryRecorder) RecordDelivery(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r, err := normalize(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *InMemoryRecorder) ListDeliveries(ctx context.Context, integrationID string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = checkLimit(limit)

	m.mu.RLock()
	matched := make([]Record, 0)
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].IntegrationID == integrationID {
			matched = append(matched, m.records[i])
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

var _ Recorder = (*InMemoryRecorder)(nil)
