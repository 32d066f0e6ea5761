package pricer

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/batiprix/pricing-engine/internal/model"
)

// Searcher is the semantic product-search collaborator, consumed as a
// black box: best match first.
type Searcher interface {
	Search(ctx context.Context, query string, topK int, category string) ([]model.MaterialMatch, error)
}

// Engine prices whole proposals.
type Engine struct {
	calc     *Calculator
	search   Searcher
	currency string
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithCurrency overrides the summary currency (default EUR).
func WithCurrency(currency string) EngineOption {
	return func(e *Engine) {
		if currency != "" {
			e.currency = currency
		}
	}
}

// NewEngine creates a proposal pricing engine.
func NewEngine(calc *Calculator, search Searcher, opts ...EngineOption) *Engine {
	e := &Engine{calc: calc, search: search, currency: "EUR"}
	for _, o := range opts {
		o(e)
	}
	return e
}

// PriceProposal prices every task and material in the proposal and folds
// the lines into a summary. Not-found materials appear in the output but
// contribute 0 to the total. A search failure is a hard failure for the
// whole proposal: no retries, no partial results.
func (e *Engine) PriceProposal(ctx context.Context, p model.Proposal) (*model.PricedProposal, error) {
	region := p.Metadata.Region
	margin := p.ContractorMargin

	pricedTasks := make([]model.PricedTask, 0, len(p.Tasks))
	var totalTasks float64
	for _, t := range p.Tasks {
		line := e.calc.PriceTask(ctx, t, region, margin)
		totalTasks += line.WithMargin
		pricedTasks = append(pricedTasks, line)
	}

	pricedMaterials := make([]model.PricedMaterial, 0, len(p.Materials))
	var totalMaterials float64
	for _, m := range p.Materials {
		hits, err := e.search.Search(ctx, m.Label, 1, "")
		if err != nil {
			return nil, eris.Wrapf(err, "pricer: search %q", m.Label)
		}
		var hit *model.MaterialMatch
		if len(hits) > 0 {
			hit = &hits[0]
		}

		line := e.calc.PriceMaterial(ctx, m, hit, margin)
		if line.WithMargin != nil {
			totalMaterials += *line.WithMargin
		}
		pricedMaterials = append(pricedMaterials, line)
	}

	summary := model.Summary{
		TotalTasks:     round2(totalTasks),
		TotalMaterials: round2(totalMaterials),
		MarginApplied:  margin,
		Currency:       e.currency,
	}
	summary.Total = round2(summary.TotalTasks + summary.TotalMaterials)

	return &model.PricedProposal{
		Title:           p.Title,
		Metadata:        p.Metadata,
		PricedTasks:     pricedTasks,
		PricedMaterials: pricedMaterials,
		Summary:         summary,
	}, nil
}
