// Package benchmark holds the static labor-pricing reference data: hourly
// rate ranges per task category, phase multipliers, and regional cost
// modifiers. Tables are read-only after construction and injected into the
// calculator, so tests can substitute their own rates.
package benchmark

import (
	"os"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// DefaultKey is the fallback entry for unknown categories and regions.
const DefaultKey = "default"

// Range is a published low/high hourly rate for a task category.
type Range struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// Table is the full benchmark rate configuration.
type Table struct {
	Rates   map[string]Range   `yaml:"rates"`
	Phases  map[string]float64 `yaml:"phases"`
	Regions map[string]float64 `yaml:"regions"`
}

// DefaultTable returns the built-in French artisan benchmark rates in
// EUR per hour.
func DefaultTable() Table {
	return Table{
		Rates: map[string]Range{
			"Plumbing":   {Low: 40, High: 70},
			"Electrical": {Low: 35, High: 95},
			"Tiling":     {Low: 30, High: 50},
			"Painting":   {Low: 25, High: 50},
			"Carpentry":  {Low: 40, High: 60},
			"General":    {Low: 35, High: 45},
			DefaultKey:   {Low: 35, High: 45},
		},
		Phases: map[string]float64{
			"Prep":    1.0,
			"Install": 1.25,
			"Finish":  1.1,
		},
		Regions: map[string]float64{
			"ile-de-france": 1.15,
			"paris":         1.15,
			"occitanie":     1.00,
			DefaultKey:      1.00,
		},
	}
}

// LoadFile reads a rate table from a YAML file, replacing the defaults.
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, eris.Wrap(err, "benchmark: read table file")
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, eris.Wrap(err, "benchmark: parse table file")
	}
	return t, nil
}

// RateRange returns the (low, high) benchmark range for a category,
// falling back to the default entry.
func (t Table) RateRange(category string) Range {
	if r, ok := t.Rates[category]; ok {
		return r
	}
	return t.Rates[DefaultKey]
}

// MidpointRate returns the midpoint hourly rate for a category.
func (t Table) MidpointRate(category string) float64 {
	r := t.RateRange(category)
	return (r.Low + r.High) / 2.0
}

// PhaseMultiplier returns the multiplier for a phase, 1.0 when unmapped.
func (t Table) PhaseMultiplier(phase string) float64 {
	if m, ok := t.Phases[phase]; ok {
		return m
	}
	return 1.0
}

// RegionalModifier returns the cost-of-living modifier for a region.
// Region keys are matched case- and accent-insensitively, so
// "Île-de-France" resolves to "ile-de-france".
func (t Table) RegionalModifier(region string) float64 {
	key := DefaultKey
	if strings.TrimSpace(region) != "" {
		key = foldRegion(region)
	}
	if m, ok := t.Regions[key]; ok {
		return m
	}
	if m, ok := t.Regions[DefaultKey]; ok {
		return m
	}
	return 1.0
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldRegion(s string) string {
	folded, _, err := transform.String(accentStripper, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
