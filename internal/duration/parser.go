// Package duration converts free-text duration expressions into hours.
// It understands English and French forms: "2 hours", "3h", "1.5h",
// "half day", "1 day", "2 jours", bare numbers. Anything else falls back
// to one working day.
package duration

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DefaultHours is the fallback for empty or unparseable durations.
const DefaultHours = 8.0

type patternKind int

const (
	kindHours patternKind = iota
	kindHalfDay
	kindDays
	kindOneDay
	kindBareNumber
)

// Patterns are tried in order; the first match wins. Hour forms are
// checked before day forms, so "1 hour 2 days" resolves to 1 hour.
var patterns = []struct {
	re   *regexp.Regexp
	kind patternKind
}{
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*h(?:ours?|r?s?)?`), kindHours},
	{regexp.MustCompile(`(?i)half[\s-]?day`), kindHalfDay},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:days?|jours?)`), kindDays},
	{regexp.MustCompile(`(?i)\bjour\b`), kindOneDay},
	{regexp.MustCompile(`^(\d+(?:\.\d+)?)$`), kindBareNumber},
}

// Parse converts a human-readable duration string into hours. Unparseable
// input is a recovered condition, not an error: it defaults to 8 hours.
func Parse(s string) float64 {
	text := strings.TrimSpace(s)
	if text == "" {
		zap.L().Warn("empty duration string, using default",
			zap.Float64("default_hours", DefaultHours))
		return DefaultHours
	}

	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		switch p.kind {
		case kindHours, kindBareNumber:
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v
			}
		case kindHalfDay:
			return 4.0
		case kindDays:
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v * 8.0
			}
		case kindOneDay:
			return 8.0
		}
	}

	zap.L().Warn("unparseable duration string, using default",
		zap.String("duration", text),
		zap.Float64("default_hours", DefaultHours))
	return DefaultHours
}
