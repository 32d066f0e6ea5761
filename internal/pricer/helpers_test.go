package pricer

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/batiprix/pricing-engine/internal/benchmark"
	"github.com/batiprix/pricing-engine/internal/model"
)

// stubAdjuster returns a fixed adjustment, or an error when failWith is set.
type stubAdjuster struct {
	adjustment float64
	failWith   error
	calls      []string
}

func (s *stubAdjuster) Compute(_ context.Context, itemLabel string, _ float64) (float64, error) {
	s.calls = append(s.calls, itemLabel)
	if s.failWith != nil {
		return 0, s.failWith
	}
	return s.adjustment, nil
}

// stubSearcher serves canned hits per query. Unknown queries return no hits;
// failWith makes every search fail.
type stubSearcher struct {
	hits     map[string][]model.MaterialMatch
	failWith error
}

func (s *stubSearcher) Search(_ context.Context, query string, _ int, _ string) ([]model.MaterialMatch, error) {
	if s.failWith != nil {
		return nil, eris.Wrap(s.failWith, "catalog: search")
	}
	return s.hits[query], nil
}

func newTestCalculator(adj *stubAdjuster) *Calculator {
	return NewCalculator(benchmark.DefaultTable(), adj)
}

func fptr(v float64) *float64 { return &v }
