// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"sync"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// Lazy is a process-wide archive handle opened on first use. A failed open
// is not cached; the next call tries again.
type Lazy struct {
	cfg types.ArchiveConfig

	mu    sync.Mutex
	store *Store
}

// NewLazy returns a handle that opens the archive described by cfg on demand.
func NewLazy(cfg types.ArchiveConfig) *Lazy {
	return &Lazy{cfg: cfg}
}

// Get returns the shared store, opening it if needed.
func (l *Lazy) Get() (*Store, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store != nil {
		return l.store, nil
	}
	s, err := NewStore(l.cfg)
	if err != nil {
		return nil, err
	}
	l.store = s
	return s, nil
}

// Search opens the store if needed and searches it.
func (l *Lazy) Search(ctx context.Context, query string, k int) ([]types.Candidate, error) {
	s, err := l.Get()
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, query, k)
}

// Close releases the store if it was opened.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store == nil {
		return nil
	}
	err := l.store.Close()
	l.store = nil
	return err
}
