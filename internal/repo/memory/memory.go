package memory

import (
	"context"
	"sync"

	"github.com/hamed0406/isplogger/internal/domain"
)

// Store keeps the results of the current session in memory.
type Store struct {
	mu      sync.RWMutex
	results []domain.ProbeResult
}

func New() *Store {
	return &Store{
		results: make([]domain.ProbeResult, 0, 128),
	}
}

func (m *Store) Append(ctx context.Context, r domain.ProbeResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *Store) List(ctx context.Context) ([]domain.ProbeResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ProbeResult, len(m.results))
	copy(out, m.results)
	return out, nil
}

// Latest returns the most recent result, or false when nothing was recorded yet.
func (m *Store) Latest(ctx context.Context) (domain.ProbeResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest domain.ProbeResult
	found := false
	for _, r := range m.results {
		if !found || r.CheckedAt.After(latest.CheckedAt) {
			latest = r
			found = true
		}
	}
	return latest, found
}
