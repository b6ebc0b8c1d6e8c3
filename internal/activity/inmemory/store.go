package inmemory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/dvloznov/school-marketplace/internal/activity"
	"github.com/dvloznov/school-marketplace/internal/logger"
)

// Store is an in-memory table of raw transaction records.
// It is safe for concurrent use. Records keep insertion order.
type Store struct {
	mu      sync.RWMutex
	records []activity.RawTransaction
}

// NewStore creates a store holding copies of records.
func NewStore(records ...activity.RawTransaction) *Store {
	s := &Store{}
	for _, r := range records {
		if r != nil {
			s.records = append(s.records, activity.Clone(r))
		}
	}
	return s
}

// Add appends a copy of record to the table.
func (s *Store) Add(ctx context.Context, record activity.RawTransaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("record is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, activity.Clone(record))
	return nil
}

// Seed appends the demo activity returned by SeedRecords.
func (s *Store) Seed(ctx context.Context) error {
	for _, r := range SeedRecords() {
		if err := s.Add(ctx, r); err != nil {
			return fmt.Errorf("Seed: %w", err)
		}
	}
	return nil
}

// LoadJSON decodes a JSON array of raw records and appends them. Fields of
// the wrong type are dropped, logged at warn level with the context logger
// and returned as issues.
func (s *Store) LoadJSON(ctx context.Context, data []byte) ([]activity.FieldIssue, error) {
	records, issues, err := activity.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("LoadJSON: %w", err)
	}

	log := logger.FromContext(ctx)
	for _, issue := range issues {
		log.Warn().
			Int("index", issue.Index).
			Str("field", issue.Field).
			Str("got", issue.Got).
			Msg("Ignored malformed field")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, records...)
	return issues, nil
}

// LoadFile reads path and passes its contents to LoadJSON.
func (s *Store) LoadFile(ctx context.Context, path string) ([]activity.FieldIssue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadFile: read %s: %w", path, err)
	}
	return s.LoadJSON(ctx, data)
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// ListRecords implements the activity.Source interface.
// It retrieves copies of the records matching filter.
func (s *Store) ListRecords(ctx context.Context, filter activity.Filter) ([]activity.RawTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []activity.RawTransaction{}
	for _, r := range s.records {
		if !filter.Matches(r) {
			continue
		}
		result = append(result, activity.Clone(r))
	}

	// Apply limit and offset
	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []activity.RawTransaction{}, nil
		}
		result = result[filter.Offset:]
	}

	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

// Ensure Store implements the Source interface.
var _ activity.Source = (*Store)(nil)
