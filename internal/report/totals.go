package report

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	totalAfterWindow  = 200
	totalBeforeWindow = 100
)

var (
	totalPairRe    = regexp.MustCompile(`([\d.]+)\s*ha\s*=\s*([\d.]+)%\s*field`)
	totalPercentRe = regexp.MustCompile(`([\d.]+)%\s*field`)
)

// ReconcileTotals resolves the affected-area totals for the active
// analysis type. The document's own total-area line wins when present;
// when the document states no usable total, hectares are derived from
// the significant level rows instead. Percent is never derived.
func ReconcileTotals(v Views, cfg *AnalysisTypeConfig, levels []LevelEntry) (ha, pct *float64) {
	ha, pct = locateTotals(v, cfg)
	if ha == nil {
		ha = deriveHectares(levels)
	}
	return ha, pct
}

// locateTotals runs the textual cascade: pair then percent-only in a
// window after the type's label, percent-only in a window before it,
// then pair and percent-only over the whole flat text. The first hit
// stops the cascade even when it carries no hectares. A matched share
// above 100 percent of the field is malformed and counts as no hit;
// the digit patterns rule out negative shares on their own.
func locateTotals(v Views, cfg *AnalysisTypeConfig) (*float64, *float64) {
	if cfg == nil {
		return nil, nil
	}
	text := v.FlatLower
	if idx := strings.Index(text, cfg.TotalAreaLabel); idx >= 0 {
		after := windowAfter(text, idx+len(cfg.TotalAreaLabel), totalAfterWindow)
		if ha, pct, ok := matchTotalPair(after); ok {
			return &ha, &pct
		}
		if pct, ok := matchTotalPercent(after); ok {
			return nil, &pct
		}
		// Reordered blocks can put the percentage before its label.
		before := windowBefore(text, idx, totalBeforeWindow)
		if pct, ok := matchTotalPercent(before); ok {
			return nil, &pct
		}
	}
	if ha, pct, ok := matchTotalPair(text); ok {
		return &ha, &pct
	}
	if pct, ok := matchTotalPercent(text); ok {
		return nil, &pct
	}
	return nil, nil
}

func matchTotalPair(text string) (float64, float64, bool) {
	m := totalPairRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	ha, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	pct, err := strconv.ParseFloat(m[2], 64)
	if err != nil || pct > 100 {
		return 0, 0, false
	}
	return ha, pct, true
}

func matchTotalPercent(text string) (float64, bool) {
	m := totalPercentRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil || pct > 100 {
		return 0, false
	}
	return pct, true
}

// deriveHectares sums the areas of significant-severity rows, rounded
// to two decimals. Zero or negative sums leave the total unset.
func deriveHectares(levels []LevelEntry) *float64 {
	var sum float64
	for _, entry := range levels {
		if entry.Severity.Significant() {
			sum += entry.AreaHectares
		}
	}
	if sum <= 0 {
		return nil
	}
	rounded := math.Round(sum*100) / 100
	return &rounded
}
