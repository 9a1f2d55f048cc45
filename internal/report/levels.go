package report

import (
	"strconv"
	"strings"
)

// guardWindow is how far back an exclusion guard looks for the prefix
// of a longer level name sharing this rule's suffix.
const guardWindow = 20

// ExtractLevels scans the flat text with every level rule of the
// active config, in rule order. Each rule is a find-all scan; matches
// vetoed by the rule's exclusion guard are dropped, and identical rows
// collapse to a single entry. Zero-valued rows are kept: a level at
// 0% is signal, not noise. Rows claiming more than 100% of the field
// are malformed and dropped. A nil config yields no entries.
func ExtractLevels(v Views, cfg *AnalysisTypeConfig) []LevelEntry {
	entries := []LevelEntry{}
	if cfg == nil {
		return entries
	}

	seen := make(map[string]bool)
	for _, rule := range cfg.Levels {
		for _, loc := range rule.pattern.FindAllStringSubmatchIndex(v.Flat, -1) {
			if excludedMatch(v.Flat, loc[0], rule.exclude) {
				continue
			}
			pctText := v.Flat[loc[2]:loc[3]]
			haText := v.Flat[loc[4]:loc[5]]

			key := rule.Name + "|" + pctText + "|" + haText
			if seen[key] {
				continue
			}
			pct, err := strconv.ParseFloat(pctText, 64)
			if err != nil || pct > 100 {
				continue
			}
			ha, err := strconv.ParseFloat(haText, 64)
			if err != nil {
				continue
			}
			seen[key] = true
			entries = append(entries, LevelEntry{
				Level:        rule.Name,
				Severity:     rule.Severity,
				Percentage:   pct,
				AreaHectares: ha,
			})
		}
	}
	return entries
}

// excludedMatch reports whether any guard keyword appears in the text
// directly before a match at start.
func excludedMatch(text string, start int, exclude string) bool {
	if exclude == "" {
		return false
	}
	preceding := windowBefore(text, start, guardWindow)
	for _, keyword := range strings.Split(exclude, "|") {
		if keyword != "" && strings.Contains(preceding, keyword) {
			return true
		}
	}
	return false
}
