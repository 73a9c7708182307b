// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources fuses archive and web evidence into one numbered list
// and keeps that numbering stable while a generation is in flight.
// Implements: source fusion, the append-only citation ledger, and the
// numbered source block shown to the generator.
package sources

import (
	"sort"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// FromCandidates converts raw archive candidates into source records.
func FromCandidates(candidates []types.Candidate) []types.SourceRecord {
	out := make([]types.SourceRecord, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, types.NewArchiveRecord(c))
	}
	return out
}

// FromWeb converts web results into source records.
func FromWeb(results []types.WebResult) []types.SourceRecord {
	out := make([]types.SourceRecord, 0, len(results))
	for _, r := range results {
		out = append(out, types.NewWebRecord(r))
	}
	return out
}

// Fuse concatenates archive then web records, orders them by descending
// relevance score, and numbers them 1..N. Ties keep their concatenation
// order. The inputs are not modified.
func Fuse(archive, web []types.SourceRecord) []types.SourceRecord {
	all := make([]types.SourceRecord, 0, len(archive)+len(web))
	all = append(all, archive...)
	all = append(all, web...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Score() > all[j].Score()
	})
	for i := range all {
		all[i].CitationNumber = i + 1
	}
	return all
}
