package pricer

import (
	"context"

	"github.com/batiprix/pricing-engine/internal/model"
	"github.com/batiprix/pricing-engine/pkg/catalog"
)

// catalogSearcher adapts the catalog HTTP client to the Searcher contract.
type catalogSearcher struct {
	client catalog.Client
}

// NewCatalogSearcher wraps a catalog client as a Searcher.
func NewCatalogSearcher(client catalog.Client) Searcher {
	return catalogSearcher{client: client}
}

func (s catalogSearcher) Search(ctx context.Context, query string, topK int, category string) ([]model.MaterialMatch, error) {
	hits, err := s.client.Search(ctx, query, topK, category)
	if err != nil {
		return nil, err
	}

	matches := make([]model.MaterialMatch, 0, len(hits))
	for _, h := range hits {
		matches = append(matches, model.MaterialMatch{
			Name:            h.Name,
			Price:           h.Price,
			Unit:            h.Unit,
			Category:        h.Category,
			Subcategory:     h.Subcategory,
			URL:             h.URL,
			ProductID:       h.ProductID,
			Distance:        h.Distance,
			ConfidenceScore: h.ConfidenceScore,
		})
	}
	return matches, nil
}
