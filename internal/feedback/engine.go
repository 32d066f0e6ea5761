// Package feedback stores human price corrections and turns them into a
// weighted price adjustment: fuzzy label matching picks the relevant
// records, exponential time decay weights them, and the weighted mean of
// (actual - base) deltas is the correction.
package feedback

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/agext/levenshtein"
	"github.com/rotisserie/eris"
)

const (
	// DefaultFuzzyThreshold is the minimum similarity ratio for a record
	// to count toward an adjustment.
	DefaultFuzzyThreshold = 0.7
	// DefaultHalfLifeDays controls decay: recent feedback dominates, old
	// feedback fades but never fully vanishes.
	DefaultHalfLifeDays = 30.0
)

// EngineConfig tunes the adjustment computation. Zero values fall back to
// the defaults.
type EngineConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	HalfLifeDays   float64 `yaml:"decay_half_life_days" mapstructure:"decay_half_life_days"`
}

// Engine computes feedback-based price adjustments. It is read-only with
// respect to the store.
type Engine struct {
	store     Store
	threshold float64
	halfLife  float64
}

// NewEngine creates an Engine over the given store.
func NewEngine(store Store, cfg EngineConfig) *Engine {
	threshold := cfg.FuzzyThreshold
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	halfLife := cfg.HalfLifeDays
	if halfLife <= 0 {
		halfLife = DefaultHalfLifeDays
	}
	return &Engine{store: store, threshold: threshold, halfLife: halfLife}
}

// Compute returns the weighted price correction for an item label.
//
// Every priced record whose label fuzzy-matches itemLabel with ratio >=
// the threshold contributes delta = actualPrice - basePrice, weighted by
// exp(-daysOld / halfLife). The result is the weighted mean of the
// deltas, rounded to 2 decimals, or 0 when nothing matches.
//
// Callers must treat a returned error as "no adjustment available": a
// feedback-layer failure never aborts pricing.
func (e *Engine) Compute(ctx context.Context, itemLabel string, basePrice float64) (float64, error) {
	if strings.TrimSpace(itemLabel) == "" {
		return 0, nil
	}

	recs, err := e.store.AllPriced(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "feedback: fetch priced records")
	}

	now := time.Now().UTC()
	var numerator, denominator float64

	for _, rec := range recs {
		if rec.ActualPrice == nil {
			continue
		}
		ratio := similarity(itemLabel, rec.ItemLabel)
		if ratio < e.threshold {
			continue
		}

		weight := math.Exp(-daysSince(rec.CreatedAt, now) / e.halfLife)
		delta := *rec.ActualPrice - basePrice

		numerator += delta * weight
		denominator += weight
	}

	if denominator == 0 {
		return 0, nil
	}
	return round2(numerator / denominator), nil
}

// similarity is a case-insensitive fuzzy ratio in [0, 1], 1.0 for
// identical strings after case folding. Symmetric by construction.
func similarity(a, b string) float64 {
	return levenshtein.Similarity(strings.ToLower(a), strings.ToLower(b), nil)
}

// daysSince returns fractional days between createdAt and now, clamped to
// >= 0. A zero createdAt (missing or malformed timestamp) counts as 0.
func daysSince(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}
	days := now.Sub(createdAt).Hours() / 24
	if days < 0 {
		return 0
	}
	return days
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
