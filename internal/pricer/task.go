// Package pricer implements the deterministic pricing core: labor tasks
// priced from benchmark rates, materials priced from catalog matches, and
// proposal aggregation. Same inputs always produce the same output given
// the same feedback store state.
package pricer

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/batiprix/pricing-engine/internal/benchmark"
	"github.com/batiprix/pricing-engine/internal/duration"
	"github.com/batiprix/pricing-engine/internal/model"
)

// Adjuster supplies feedback-based price corrections. Errors are absorbed
// by the calculator: a failing adjuster prices as if no feedback existed.
type Adjuster interface {
	Compute(ctx context.Context, itemLabel string, basePrice float64) (float64, error)
}

// Calculator prices individual task and material lines.
type Calculator struct {
	table    benchmark.Table
	adjuster Adjuster
}

// NewCalculator creates a Calculator with the given rate table and adjuster.
func NewCalculator(table benchmark.Table, adjuster Adjuster) *Calculator {
	return &Calculator{table: table, adjuster: adjuster}
}

// PriceTask prices one labor task:
//
//	hourlyRate = midpoint of the category's benchmark range
//	base       = hourlyRate × hours × phaseMultiplier × regionalModifier × quantity
//	adjusted   = base + feedbackAdjustment
//	withMargin = adjusted × (1 + margin)
//
// Monetary outputs are rounded to 2 decimals at each step so repeated
// additions reproduce the published line values exactly.
func (c *Calculator) PriceTask(ctx context.Context, task model.Task, region string, margin float64) model.PricedTask {
	category := task.Category
	if category == "" {
		category = "General"
	}
	phase := task.Phase
	if phase == "" {
		phase = "Install"
	}
	quantity := task.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	hourly := c.table.MidpointRate(category)
	rng := c.table.RateRange(category)
	hours := duration.Parse(task.Duration)
	phaseMul := c.table.PhaseMultiplier(phase)
	regionMod := c.table.RegionalModifier(region)

	base := round2(hourly * hours * phaseMul * regionMod * quantity)
	adjustment := c.adjustment(ctx, task.Label, base)
	adjusted := round2(base + adjustment)
	withMargin := round2(adjusted * (1.0 + margin))

	details := fmt.Sprintf(
		"Based on %s benchmark range (%.0f–%.0f €/h), using midpoint %.0f €/h × %.1fh × %s multiplier %s × regional modifier %s",
		category, rng.Low, rng.High, hourly, hours, phase, formatFactor(phaseMul), formatFactor(regionMod),
	)
	if quantity != 1 {
		details += fmt.Sprintf(" × qty %.1f", quantity)
	}
	if adjustment != 0 {
		details += fmt.Sprintf(" + feedback adjustment %+.2f€", adjustment)
	}
	if margin != 0 {
		details += fmt.Sprintf(" + margin %.0f%%", margin*100)
	}

	return model.PricedTask{
		Task:               task,
		HourlyRate:         hourly,
		DurationHours:      hours,
		PhaseMultiplier:    phaseMul,
		RegionalModifier:   regionMod,
		BaseCost:           base,
		FeedbackAdjustment: adjustment,
		AdjustedCost:       adjusted,
		WithMargin:         withMargin,
		PricingMethod:      model.MethodLaborRate,
		PricingDetails:     details,
	}
}

// adjustment queries the feedback engine, absorbing any failure. Pricing
// never fails because the feedback layer is unreachable or empty.
func (c *Calculator) adjustment(ctx context.Context, label string, basePrice float64) float64 {
	adj, err := c.adjuster.Compute(ctx, label, basePrice)
	if err != nil {
		zap.L().Warn("feedback adjustment unavailable",
			zap.String("label", label),
			zap.Error(err),
		)
		return 0
	}
	return round2(adj)
}

// formatFactor prints multipliers the way the published explanations do:
// "1.25", "1.15", "1".
func formatFactor(v float64) string {
	return fmt.Sprintf("%g", v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
