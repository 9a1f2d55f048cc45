package report

import (
	"regexp"
	"strings"
)

// LevelRule describes one row class of a stress-level table: the name
// the table prints, the severity it maps to, and the value pattern
// that captures the percentage and hectare columns following the name.
type LevelRule struct {
	Name     string
	Severity Severity

	pattern *regexp.Regexp
	// exclude holds pipe-separated tokens that, when present directly
	// before a match, mark it as the tail of a longer level name.
	exclude string
}

// AnalysisTypeConfig bundles everything type-specific about a report:
// the keywords that identify it, the label introducing its total-area
// line, and the row rules of its level table.
type AnalysisTypeConfig struct {
	Key            string
	Keywords       []string
	TotalAreaLabel string
	Levels         []LevelRule
}

func levelRule(name string, severity Severity, exclude string) LevelRule {
	return LevelRule{
		Name:     name,
		Severity: severity,
		pattern:  regexp.MustCompile(name + `\s+([\d.]+)%\s+([\d.]+)`),
		exclude:  exclude,
	}
}

// analysisTypes is the detection registry. Order matters twice: a
// document's type is decided by the first keyword found in registry
// order, and within a config the longer level names precede the
// substrings they contain.
var analysisTypes = []AnalysisTypeConfig{
	{
		Key:            "plant_stress",
		Keywords:       []string{"PLANT STRESS", "STRESS LEVEL"},
		TotalAreaLabel: "total area plant stress",
		Levels: []LevelRule{
			levelRule("Fine", SeverityHealthy, ""),
			levelRule("Potential Plant Stress", SeverityModerate, ""),
			levelRule("Plant Stress", SeverityHigh, "Potential|POTENTIAL"),
		},
	},
	{
		Key:            "flowering",
		Keywords:       []string{"FLOWERING"},
		TotalAreaLabel: "total area flowering",
		Levels: []LevelRule{
			levelRule("No Flowering", SeverityHealthy, ""),
			levelRule("Full Flowering", SeverityHigh, ""),
			levelRule("Flowering", SeverityModerate, "Full|No|FULL|NO"),
		},
	},
	{
		Key:            "weed_stress",
		Keywords:       []string{"WEED STRESS", "WEED DETECTION", "WEED PRESSURE"},
		TotalAreaLabel: "total area weed stress",
		Levels: []LevelRule{
			levelRule("Fine", SeverityHealthy, ""),
			levelRule("Low Weed Pressure", SeverityLow, ""),
			levelRule("High Weed Pressure", SeverityHigh, ""),
		},
	},
}

// Detection is a successful analysis-type match. Keyword records which
// registry keyword fired; it doubles as the analysis-name fallback.
type Detection struct {
	Config  *AnalysisTypeConfig
	Keyword string
}

// DetectAnalysisType scans the structured text for registered keywords
// (case-insensitive) and returns the first match in registry order.
// Reports that mention several analyses are classified by the earliest
// registry entry, not by document position.
func DetectAnalysisType(v Views) (*Detection, bool) {
	for i := range analysisTypes {
		cfg := &analysisTypes[i]
		for _, keyword := range cfg.Keywords {
			if strings.Contains(v.StructuredLower, strings.ToLower(keyword)) {
				return &Detection{Config: cfg, Keyword: keyword}, true
			}
		}
	}
	return nil, false
}

// AnalysisTypeKeys lists the registered type keys in detection order.
func AnalysisTypeKeys() []string {
	keys := make([]string, len(analysisTypes))
	for i := range analysisTypes {
		keys[i] = analysisTypes[i].Key
	}
	return keys
}
