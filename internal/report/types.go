package report

// Severity classifies a stress level's agronomic weight. The set of
// severities a report can carry depends on its analysis type.
type Severity string

const (
	SeverityHealthy  Severity = "healthy"
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// Significant reports whether a severity contributes to derived
// total-area sums.
func (s Severity) Significant() bool {
	return s == SeverityModerate || s == SeverityHigh
}

// LevelEntry represents one row of a report's stress-level table.
type LevelEntry struct {
	Level        string   `json:"level"`
	Severity     Severity `json:"severity"`
	Percentage   float64  `json:"percentage"`
	AreaHectares float64  `json:"area_hectares"`
}

// Metadata describes the document a record was extracted from.
type Metadata struct {
	SourceFile       string `json:"source_file"`
	ExtractedAt      string `json:"extracted_at"`
	TotalPages       int    `json:"total_pages"`
	ExtractorVersion string `json:"extractor_version"`
}

// ReportInfo carries report-level attributes. Unset fields marshal as
// JSON null so downstream consumers can tell "missing" from "empty".
type ReportInfo struct {
	Provider     string  `json:"provider"`
	Type         *string `json:"type"`
	SurveyDate   *string `json:"survey_date"`
	AnalysisName *string `json:"analysis_name"`
	AnalysisType *string `json:"analysis_type"`
}

// FieldInfo carries attributes of the surveyed field.
type FieldInfo struct {
	Crop         *string  `json:"crop"`
	GrowingStage *string  `json:"growing_stage"`
	AreaHectares *float64 `json:"area_hectares"`
}

// Analysis aggregates the stress-level table and the reconciled
// affected-area totals.
type Analysis struct {
	TotalAreaHectares *float64     `json:"total_area_hectares"`
	TotalAreaPercent  *float64     `json:"total_area_percent"`
	Levels            []LevelEntry `json:"levels"`
}

// MapImageSource identifies how a map image was obtained.
type MapImageSource string

const (
	// MapImageEmbedded means the image bytes were lifted straight from
	// the page's resources.
	MapImageEmbedded MapImageSource = "embedded"
	// MapImagePageRender means no usable embedded image existed and the
	// whole page was rasterized instead.
	MapImagePageRender MapImageSource = "page_render"
	// MapImageCloudUpload means the located image was published to the
	// asset host and the result references it by URL.
	MapImageCloudUpload MapImageSource = "cloud_upload"
	// MapImageError means no image could be produced for the requested
	// page.
	MapImageError MapImageSource = "error"
)

// MapImageResult represents the outcome of locating the report's field
// map. Exactly which fields are populated depends on Source.
type MapImageResult struct {
	Source     MapImageSource `json:"source"`
	Format     string         `json:"format,omitempty"`
	Width      int            `json:"width,omitempty"`
	Height     int            `json:"height,omitempty"`
	DPI        float64        `json:"dpi,omitempty"`
	SizeBytes  int            `json:"size_bytes,omitempty"`
	URL        string         `json:"url,omitempty"`
	PublicID   string         `json:"public_id,omitempty"`
	DataBase64 string         `json:"data_base64,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// ReportRecord is the complete extraction result for one document.
type ReportRecord struct {
	Metadata       Metadata       `json:"metadata"`
	Report         ReportInfo     `json:"report"`
	Field          FieldInfo      `json:"field"`
	Analysis       Analysis       `json:"analysis"`
	AdditionalInfo *string        `json:"additional_info"`
	MapImage       MapImageResult `json:"map_image"`
}

// NewReportRecord returns a record with provider and version stamped
// and every extractable field unset.
func NewReportRecord(sourceFile, extractedAt string, totalPages int) *ReportRecord {
	return &ReportRecord{
		Metadata: Metadata{
			SourceFile:       sourceFile,
			ExtractedAt:      extractedAt,
			TotalPages:       totalPages,
			ExtractorVersion: ExtractorVersion,
		},
		Report: ReportInfo{
			Provider: ProviderName,
		},
		Analysis: Analysis{
			Levels: []LevelEntry{},
		},
	}
}

const (
	// ProviderName identifies the analytics provider whose report
	// layout this extractor understands.
	ProviderName = "Agremo"

	// ExtractorVersion is stamped into every record's metadata so
	// stored records can be tied back to the rule set that produced
	// them.
	ExtractorVersion = "2.0"
)
