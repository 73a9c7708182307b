// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance applies a minimum-score cutoff to ranked retrieval
// candidates and grades what survives.
package relevance

import (
	"fmt"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// Quality grades the evidence left after filtering.
type Quality string

const (
	QualityEmpty          Quality = "empty"
	QualityBelowThreshold Quality = "below_threshold"
	QualityMarginal       Quality = "marginal"
	QualityGood           Quality = "good"
)

const noSourcesWarning = "No sources found in knowledge base"

// Result is the outcome of one Filter call.
type Result struct {
	// Kept holds the candidates scoring at or above the minimum, in input order.
	Kept []types.Candidate

	Quality Quality

	// Warning is empty when Quality is good.
	Warning string
}

// Sufficient reports whether any candidate cleared the minimum score.
func (r Result) Sufficient() bool {
	return r.Quality == QualityMarginal || r.Quality == QualityGood
}

func (r Result) HasWarning() bool { return r.Warning != "" }

// BestScore returns the highest kept score, or 0 when nothing was kept.
func (r Result) BestScore() float64 {
	return bestScore(r.Kept)
}

// Filter drops candidates scoring below minScore and grades the rest
// against highScore. Missing scores count as 0. It never fails.
func Filter(candidates []types.Candidate, minScore, highScore float64) Result {
	if len(candidates) == 0 {
		return Result{Quality: QualityEmpty, Warning: noSourcesWarning}
	}

	var kept []types.Candidate
	for _, c := range candidates {
		if c.ScoreValue() >= minScore {
			kept = append(kept, c)
		}
	}

	if len(kept) == 0 {
		return Result{
			Quality: QualityBelowThreshold,
			Warning: fmt.Sprintf("No relevant sources found (best match score: %.2f, threshold: %.2f)",
				bestScore(candidates), minScore),
		}
	}

	best := bestScore(kept)
	if best < highScore {
		return Result{
			Kept:    kept,
			Quality: QualityMarginal,
			Warning: fmt.Sprintf("Limited relevant content found (best score: %.2f). Results may be tangential to query.", best),
		}
	}
	return Result{Kept: kept, Quality: QualityGood}
}

func bestScore(candidates []types.Candidate) float64 {
	best := 0.0
	for _, c := range candidates {
		if s := c.ScoreValue(); s > best {
			best = s
		}
	}
	return best
}
