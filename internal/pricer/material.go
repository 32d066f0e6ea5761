package pricer

import (
	"context"
	"fmt"

	"github.com/batiprix/pricing-engine/internal/model"
)

// PriceMaterial prices one material line from the best catalog hit. A nil
// hit, or a hit without a price, yields a not-found line: all monetary
// fields stay nil and the material contributes nothing to the total.
func (c *Calculator) PriceMaterial(ctx context.Context, m model.Material, hit *model.MaterialMatch, margin float64) model.PricedMaterial {
	line := model.PricedMaterial{
		Material:       m,
		PricingMethod:  model.MethodNotFound,
		PricingDetails: fmt.Sprintf("No matching product found for '%s'", m.Label),
	}

	if hit == nil || hit.Price == nil {
		return line
	}

	unitPrice := *hit.Price
	totalPrice := round2(unitPrice * m.Quantity)
	adjustment := c.adjustment(ctx, m.Label, totalPrice)
	adjusted := round2(totalPrice + adjustment)
	withMargin := round2(adjusted * (1.0 + margin))

	details := fmt.Sprintf("Matched '%s' at %g€ (confidence %.2f%%) × qty %g",
		hit.Name, unitPrice, hit.ConfidenceScore*100, m.Quantity)
	if adjustment != 0 {
		details += fmt.Sprintf(" + feedback %+.2f€", adjustment)
	}
	if margin != 0 {
		details += fmt.Sprintf(" + margin %.0f%%", margin*100)
	}

	line.Match = hit
	line.UnitPrice = &unitPrice
	line.TotalPrice = &totalPrice
	line.FeedbackAdjustment = adjustment
	line.AdjustedCost = &adjusted
	line.WithMargin = &withMargin
	line.ConfidenceScore = hit.ConfidenceScore
	line.PricingMethod = model.MethodSemanticSearch
	line.PricingDetails = details
	return line
}
