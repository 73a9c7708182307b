// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"sync"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// Ledger is the append-only numbered source list for one generation.
// Records enter with their fused numbers; evidence retrieved later
// receives the next free numbers. Assigned numbers never change.
type Ledger struct {
	mu      sync.Mutex
	records []types.SourceRecord
	index   map[string]int // Key() -> position in records
}

// NewLedger seeds a ledger with an already fused list. Records are
// renumbered by position so the ledger is dense from 1.
func NewLedger(fused []types.SourceRecord) *Ledger {
	l := &Ledger{index: make(map[string]int, len(fused))}
	for _, r := range fused {
		l.add(r)
	}
	return l
}

// Records returns a copy of the ledger in citation-number order.
func (l *Ledger) Records() []types.SourceRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]types.SourceRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of numbered records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Append numbers records not already in the ledger and returns, for each
// input, the numbered record the generator should cite. A record already
// present keeps its existing number.
func (l *Ledger) Append(records ...types.SourceRecord) []types.SourceRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]types.SourceRecord, 0, len(records))
	for _, r := range records {
		out = append(out, l.add(r))
	}
	return out
}

// add must be called with mu held, or before the ledger is shared.
func (l *Ledger) add(r types.SourceRecord) types.SourceRecord {
	key := r.Key()
	if pos, ok := l.index[key]; ok {
		return l.records[pos]
	}
	r.CitationNumber = len(l.records) + 1
	l.index[key] = len(l.records)
	l.records = append(l.records, r)
	return r
}
