package report

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	cropWindow  = 200
	stageWindow = 100
	areaWindow  = 100

	analysisNameMax   = 50
	additionalInfoMax = 200
)

var (
	surveyDateLabeledRe = regexp.MustCompile(`Survey date:\s*(\d{2}-\d{2}-\d{4})`)
	surveyDateBareRe    = regexp.MustCompile(`\b(\d{2}-\d{2}-\d{4})\b`)
	growingStageRe      = regexp.MustCompile(`BBCH\s?(\d+)`)
	fieldAreaRe         = regexp.MustCompile(`([\d.]+)\s*Hectare`)
	cropPairRe          = regexp.MustCompile(`\b([a-z]+ [a-z]+)\b`)
	cropWordRe          = regexp.MustCompile(`\b([A-Za-z]{4,})\b`)
)

// textScope selects which normalized view a pattern runs against.
type textScope int

const (
	scopeStructured textScope = iota
	scopeFlat
)

// patternStep is one step of an ordered extraction cascade: a pattern,
// the view it runs against, and an optional label confining the search
// to a bounded window after the label's position.
type patternStep struct {
	re     *regexp.Regexp
	scope  textScope
	label  string // empty means the whole view
	window int
}

func (v Views) scopeText(s textScope) string {
	if s == scopeStructured {
		return v.Structured
	}
	return v.Flat
}

// matchStep runs one cascade step and returns its submatches, or nil
// when the label is absent or the pattern does not match.
func matchStep(v Views, step patternStep) []string {
	text := v.scopeText(step.scope)
	if step.label != "" {
		idx := strings.Index(text, step.label)
		if idx < 0 {
			return nil
		}
		text = windowAfter(text, idx+len(step.label), step.window)
	}
	return step.re.FindStringSubmatch(text)
}

// firstCascadeMatch evaluates steps in order until one matches.
func firstCascadeMatch(v Views, steps []patternStep) []string {
	for _, step := range steps {
		if m := matchStep(v, step); m != nil {
			return m
		}
	}
	return nil
}

var surveyDateCascade = []patternStep{
	{re: surveyDateLabeledRe, scope: scopeStructured},
	{re: surveyDateBareRe, scope: scopeFlat},
}

// ExtractSurveyDate returns the labeled survey date, falling back to
// any bare DD-MM-YYYY token. The fallback accepts unrelated dates; the
// reports carry exactly one, so this stays acceptable in practice.
func ExtractSurveyDate(v Views) *string {
	if m := firstCascadeMatch(v, surveyDateCascade); m != nil {
		return &m[1]
	}
	return nil
}

// reportTypePhrases are independent presence checks, not a priority
// cascade: when several phrases appear, the last one listed here wins.
var reportTypePhrases = []string{
	"Crop Monitoring",
	"Plant Health Monitoring",
}

// ExtractReportType classifies the report by known title phrases.
func ExtractReportType(v Views) *string {
	var reportType *string
	for _, phrase := range reportTypePhrases {
		if strings.Contains(v.Structured, phrase) {
			p := phrase
			reportType = &p
		}
	}
	return reportType
}

const analysisNameLabel = "Analysis name:"

// analysisNameTerminators are the layout labels that can follow the
// analysis name on the summary page; the first one found ends the
// captured value.
var analysisNameTerminators = []string{
	"Survey date:",
	"Crop:",
	"Growing stage:",
	"Field area:",
	"Total area",
	"Additional Information",
	"Powered",
}

// ExtractAnalysisName captures the word run after the analysis name
// label, up to the next known label. Over-long captures and captures
// swallowing the level-table header are rejected. Without a usable
// label the detected type's matched keyword is emitted instead.
func ExtractAnalysisName(v Views, det *Detection) *string {
	if idx := strings.Index(v.Structured, analysisNameLabel); idx >= 0 {
		rest := v.Structured[idx+len(analysisNameLabel):]
		end := len(rest)
		for _, term := range analysisNameTerminators {
			if j := strings.Index(rest, term); j >= 0 && j < end {
				end = j
			}
		}
		name := strings.TrimSpace(collapseWhitespace(rest[:end]))
		if name != "" && utf8.RuneCountInString(name) < analysisNameMax &&
			!strings.Contains(name, "STRESS LEVEL") {
			return &name
		}
	}
	if det != nil {
		keyword := det.Keyword
		return &keyword
	}
	return nil
}

const cropLabel = "Crop:"

// cropDictionary lists multi-word crop names seen in provider reports.
// Dictionary entries are matched case-insensitively and returned in
// this canonical lowercase spelling.
var cropDictionary = []string{
	"sugar beet",
	"winter wheat",
	"spring wheat",
	"winter barley",
	"spring barley",
	"oilseed rape",
	"silage maize",
	"grain maize",
	"faba bean",
	"green pea",
}

// cropStopList holds layout-label words that the generic crop patterns
// must never capture as a crop name.
var cropStopList = map[string]bool{
	"total":      true,
	"area":       true,
	"stress":     true,
	"field":      true,
	"growing":    true,
	"stage":      true,
	"analysis":   true,
	"name":       true,
	"plant":      true,
	"health":     true,
	"monitoring": true,
	"flowering":  true,
}

func stopListed(candidate string) bool {
	for _, word := range strings.Fields(candidate) {
		if cropStopList[strings.ToLower(word)] {
			return true
		}
	}
	return false
}

// ExtractCrop searches a bounded window after the crop label: first
// for a known multi-word crop name, then a generic two-word lowercase
// token, then a single word of at least four letters. A pattern whose
// candidate is stop-listed fails that pattern for good; the cascade
// moves on rather than retrying elsewhere in the window.
func ExtractCrop(v Views) *string {
	idx := strings.Index(v.Flat, cropLabel)
	if idx < 0 {
		return nil
	}
	window := windowAfter(v.Flat, idx+len(cropLabel), cropWindow)
	windowLower := strings.ToLower(window)

	for _, crop := range cropDictionary {
		if strings.Contains(windowLower, crop) {
			c := crop
			return &c
		}
	}
	if m := cropPairRe.FindStringSubmatch(window); m != nil {
		if candidate := m[1]; !stopListed(candidate) {
			return &candidate
		}
	}
	if m := cropWordRe.FindStringSubmatch(window); m != nil {
		if candidate := strings.ToLower(m[1]); !stopListed(candidate) {
			return &candidate
		}
	}
	return nil
}

var growingStageCascade = []patternStep{
	{re: growingStageRe, scope: scopeFlat, label: "Growing stage:", window: stageWindow},
	{re: growingStageRe, scope: scopeFlat},
}

// ExtractGrowingStage captures a BBCH growth-stage code near its label
// or anywhere in the text, normalized to BBCH<digits> with no space.
func ExtractGrowingStage(v Views) *string {
	if m := firstCascadeMatch(v, growingStageCascade); m != nil {
		stage := "BBCH" + m[1]
		return &stage
	}
	return nil
}

var fieldAreaCascade = []patternStep{
	{re: fieldAreaRe, scope: scopeFlat, label: "Field area:", window: areaWindow},
	{re: fieldAreaRe, scope: scopeFlat},
}

// ExtractFieldArea captures the field size in hectares. A match that
// does not parse as a number fails its step and the cascade continues.
func ExtractFieldArea(v Views) *float64 {
	for _, step := range fieldAreaCascade {
		m := matchStep(v, step)
		if m == nil {
			continue
		}
		area, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return &area
	}
	return nil
}

const (
	additionalInfoSentinel = "Test comment"
	additionalInfoLabel    = "Additional Information (or recommendation):"
	additionalInfoStop     = "Powered"
)

// ExtractAdditionalInfo returns the report's free-text comment. The
// sentinel used by provider test reports short-circuits the label
// search; labeled captures run to the footer marker and are rejected
// when so long they can only be swallowed boilerplate.
func ExtractAdditionalInfo(v Views) *string {
	if strings.Contains(v.Flat, additionalInfoSentinel) {
		s := additionalInfoSentinel
		return &s
	}
	idx := strings.Index(v.Flat, additionalInfoLabel)
	if idx < 0 {
		return nil
	}
	rest := v.Flat[idx+len(additionalInfoLabel):]
	if j := strings.Index(rest, additionalInfoStop); j >= 0 {
		rest = rest[:j]
	}
	comment := strings.TrimSpace(rest)
	if comment == "" || utf8.RuneCountInString(comment) >= additionalInfoMax {
		return nil
	}
	return &comment
}
