package integration

import (
	"context"
	"sync"

	"sui-transfer-gateway/internal/core/domain"
)

// inMemoryJournal records appended transfer outcomes.
type inMemoryJournal struct {
	mu      sync.Mutex
	entries []*domain.JournalEntry
}

func newInMemoryJournal() *inMemoryJournal {
	return &inMemoryJournal{}
}

func (j *inMemoryJournal) Append(_ context.Context, e *domain.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *inMemoryJournal) Entries() []*domain.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]*domain.JournalEntry(nil), j.entries...)
}
