package frontier

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store, used by tests and by small
// single-run invocations that do not need the postgres-backed store.
// Its url-uniqueness index is a frontier.Set keyed by canonical URL,
// matching the teacher's own generic-set idiom instead of a bare
// map[string]struct{}.
type MemoryStore struct {
	mu         sync.Mutex
	byID       map[string]Entry
	admitted   Set[string] // canonical url, for the Admit uniqueness check
	urlToID    map[string]string
	byCategory map[string][]string
	// pending is the oldest-admitted-first claim order TakePending
	// drains per category, separate from byCategory's full history so
	// a claimed entry's id need not be searched for and removed.
	pending map[string]*FIFOQueue[string]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]Entry),
		admitted:   NewSet[string](),
		urlToID:    make(map[string]string),
		byCategory: make(map[string][]string),
		pending:    make(map[string]*FIFOQueue[string]),
	}
}

func (m *MemoryStore) Admit(ctx context.Context, entry Entry) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := entry.URL.String()
	if m.admitted.Contains(key) {
		return Entry{}, ErrAlreadyAdmitted
	}
	m.admitted.Add(key)
	m.urlToID[key] = entry.ID
	m.byID[entry.ID] = entry
	m.byCategory[entry.Category] = append(m.byCategory[entry.Category], entry.ID)

	if _, ok := m.pending[entry.Category]; !ok {
		m.pending[entry.Category] = NewFIFOQueue[string]()
	}
	m.pending[entry.Category].Enqueue(entry.ID)
	return entry, nil
}

func (m *MemoryStore) GetByURL(ctx context.Context, rawURL string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.urlToID[rawURL]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return m.byID[id], nil
}

func (m *MemoryStore) Exists(ctx context.Context, rawURL string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.admitted.Contains(rawURL), nil
}

func (m *MemoryStore) SetStatus(ctx context.Context, id string, status Status, errMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	if !entry.Status.CanTransitionTo(status) {
		return ErrIllegalTransition
	}
	entry.Status = status
	entry.ErrorMessage = errMessage
	m.byID[id] = entry
	return nil
}

func (m *MemoryStore) MarkTarget(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	entry.IsTarget = true
	m.byID[id] = entry
	return nil
}

// TakePending drains up to n entries from category's FIFO pending
// queue, skipping ids the queue still holds but that moved off
// StatusPending through some other path (e.g. the strategy dispatcher
// moving an entry on through SetStatus directly), and claims the rest by
// flipping them to PROCESSING before returning them.
func (m *MemoryStore) TakePending(ctx context.Context, category string, n int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	queue, ok := m.pending[category]
	if !ok {
		return nil, nil
	}

	var taken []Entry
	for len(taken) < n {
		id, ok := queue.Dequeue()
		if !ok {
			break
		}
		entry := m.byID[id]
		if entry.Status != StatusPending {
			continue
		}
		entry.Status = StatusProcessing
		m.byID[id] = entry
		taken = append(taken, entry)
	}
	return taken, nil
}

func (m *MemoryStore) GetProcessedSeeds(ctx context.Context, category string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var seeds []Entry
	for _, id := range m.byCategory[category] {
		entry := m.byID[id]
		if entry.Status == StatusProcessed && !entry.IsTarget && entry.HasSeedPattern {
			seeds = append(seeds, entry)
		}
	}
	return seeds, nil
}

func (m *MemoryStore) Statistics(ctx context.Context, category string) (Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stats Statistics
	for _, id := range m.byCategory[category] {
		entry := m.byID[id]
		stats.TotalURLs++
		if entry.Depth > stats.ReachedDepth {
			stats.ReachedDepth = entry.Depth
		}
		switch {
		case entry.Status == StatusFailed:
			stats.FailedURLs++
		case entry.IsTarget:
			stats.TargetURLs++
		case entry.HasSeedPattern:
			stats.SeedURLs++
		}
	}
	return stats, nil
}
