package store

import (
	"context"
	"sync"

	"staffdir/internal/record/models"
)

// InMemory stores records in insertion order, which is also ID order.
type InMemory struct {
	mu      sync.RWMutex
	records []*models.Record
	nextID  int64
}

// NewInMemory creates an in-memory record store.
func NewInMemory() *InMemory {
	return &InMemory{nextID: 1}
}

// InsertBatch stores all records under one lock, assigning sequential IDs.
// The records passed in are updated with their IDs.
func (s *InMemory) InsertBatch(ctx context.Context, records []*models.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		stored := *r
		stored.ID = s.nextID
		s.nextID++
		s.records = append(s.records, &stored)
		r.ID = stored.ID
	}
	return nil
}

// Find returns the requested page of records matching filter, ordered by ID.
func (s *InMemory) Find(ctx context.Context, filter models.Filter, page models.PageRequest) (*models.Page[*models.Record], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	var content []*models.Record
	offset := page.Offset()
	for _, r := range s.records {
		if !models.Matches(filter, r) {
			continue
		}
		if total >= offset && len(content) < page.Size {
			cp := *r
			content = append(content, &cp)
		}
		total++
	}
	return models.NewPage(content, page, total), nil
}

// Ping always succeeds for the in-memory store.
func (s *InMemory) Ping(_ context.Context) error {
	return nil
}
