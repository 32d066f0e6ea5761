package pricer

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/batiprix/pricing-engine/internal/model"
)

func TestPriceTask_PlumbingInstallIleDeFrance(t *testing.T) {
	calc := newTestCalculator(&stubAdjuster{})

	// 55 €/h × 3h × 1.25 (Install) × 1.15 (ile-de-france) = 237.1875
	line := calc.PriceTask(context.Background(), model.Task{
		Label:    "Install toilet",
		Category: "Plumbing",
		Phase:    "Install",
		Duration: "3h",
	}, "ile-de-france", 0)

	assert.Equal(t, 55.0, line.HourlyRate)
	assert.Equal(t, 3.0, line.DurationHours)
	assert.Equal(t, 1.25, line.PhaseMultiplier)
	assert.Equal(t, 1.15, line.RegionalModifier)
	assert.Equal(t, 237.19, line.BaseCost)
	assert.Equal(t, 0.0, line.FeedbackAdjustment)
	assert.Equal(t, 237.19, line.AdjustedCost)
	assert.Equal(t, 237.19, line.WithMargin)
	assert.Equal(t, model.MethodLaborRate, line.PricingMethod)
	assert.Contains(t, line.PricingDetails, "Plumbing benchmark range (40–70 €/h)")
	assert.Contains(t, line.PricingDetails, "midpoint 55 €/h")
	assert.Contains(t, line.PricingDetails, "Install multiplier 1.25")
	assert.Contains(t, line.PricingDetails, "regional modifier 1.15")
}

func TestPriceTask_Defaults(t *testing.T) {
	calc := newTestCalculator(&stubAdjuster{})

	// Empty category, phase, duration and region: General midpoint 40,
	// Install 1.25, 8h default, regional 1.0.
	line := calc.PriceTask(context.Background(), model.Task{Label: "misc work"}, "", 0)

	assert.Equal(t, 40.0, line.HourlyRate)
	assert.Equal(t, 8.0, line.DurationHours)
	assert.Equal(t, 1.25, line.PhaseMultiplier)
	assert.Equal(t, 1.0, line.RegionalModifier)
	assert.Equal(t, 400.0, line.BaseCost)
}

func TestPriceTask_QuantityScalesBase(t *testing.T) {
	calc := newTestCalculator(&stubAdjuster{})

	one := calc.PriceTask(context.Background(), model.Task{
		Label: "paint wall", Category: "Painting", Phase: "Finish", Duration: "2h", Quantity: 1,
	}, "", 0)
	three := calc.PriceTask(context.Background(), model.Task{
		Label: "paint wall", Category: "Painting", Phase: "Finish", Duration: "2h", Quantity: 3,
	}, "", 0)

	assert.InDelta(t, one.BaseCost*3, three.BaseCost, 0.02)
	assert.Contains(t, three.PricingDetails, "qty 3.0")
	assert.NotContains(t, one.PricingDetails, "qty")
}

func TestPriceTask_FeedbackAdjustmentApplied(t *testing.T) {
	calc := newTestCalculator(&stubAdjuster{adjustment: 25.5})

	line := calc.PriceTask(context.Background(), model.Task{
		Label: "replace boiler", Category: "Plumbing", Phase: "Install", Duration: "4h",
	}, "", 0)

	assert.Equal(t, 25.5, line.FeedbackAdjustment)
	assert.Equal(t, line.BaseCost+25.5, line.AdjustedCost)
	assert.Contains(t, line.PricingDetails, "feedback adjustment +25.50€")
}

func TestPriceTask_MarginApplied(t *testing.T) {
	calc := newTestCalculator(&stubAdjuster{})

	flat := calc.PriceTask(context.Background(), model.Task{
		Label: "tile floor", Category: "Tiling", Phase: "Install", Duration: "6h",
	}, "occitanie", 0)
	withMargin := calc.PriceTask(context.Background(), model.Task{
		Label: "tile floor", Category: "Tiling", Phase: "Install", Duration: "6h",
	}, "occitanie", 0.15)

	assert.Equal(t, flat.AdjustedCost, withMargin.AdjustedCost)
	assert.Equal(t, round2(withMargin.AdjustedCost*1.15), withMargin.WithMargin)
	assert.GreaterOrEqual(t, withMargin.WithMargin, withMargin.AdjustedCost)
	assert.Contains(t, withMargin.PricingDetails, "margin 15%")
	assert.NotContains(t, flat.PricingDetails, "margin")
}

func TestPriceTask_AdjusterErrorAbsorbed(t *testing.T) {
	calc := newTestCalculator(&stubAdjuster{failWith: eris.New("store down")})

	line := calc.PriceTask(context.Background(), model.Task{
		Label: "sand parquet", Category: "Carpentry", Phase: "Finish", Duration: "1 day",
	}, "", 0)

	// A failing feedback layer prices as if no feedback existed.
	assert.Equal(t, 0.0, line.FeedbackAdjustment)
	assert.Equal(t, line.BaseCost, line.AdjustedCost)
}

func TestPriceTask_Deterministic(t *testing.T) {
	calc := newTestCalculator(&stubAdjuster{adjustment: 10})
	task := model.Task{Label: "wire panel", Category: "Electrical", Phase: "Install", Duration: "2 days"}

	a := calc.PriceTask(context.Background(), task, "paris", 0.1)
	b := calc.PriceTask(context.Background(), task, "paris", 0.1)
	assert.Equal(t, a, b)
}
