package report

import (
	"context"
	"time"

	"github.com/starhawk-ag/drone-pdf-extractor/internal/pdf"
)

const (
	// textPageIndex is the summary page every provider report leads
	// with; all labeled fields live there.
	textPageIndex = 0

	// mapPageIndex is where the provider's layout places the field
	// map.
	mapPageIndex = 1
)

// Document is the view of an open PDF the extraction pipeline needs.
// *pdf.Document satisfies it; tests substitute in-memory fakes.
type Document interface {
	SourceName() string
	PageCount() int
	PageBlocks(pageIndex int) ([]pdf.TextBlock, error)
	EmbeddedImageCount(pageIndex int) (count int, known bool)
	ExtractPageImages(pageIndex int) ([]pdf.EmbeddedImage, error)
	RenderPage(pageIndex int, dpi float64) (*pdf.RenderedPage, error)
}

// Options controls per-extraction behavior.
type Options struct {
	// IncludeImageData embeds the located map image as base64 when it
	// was not published to the asset host.
	IncludeImageData bool
}

// Extractor runs the full extraction pipeline over one open document.
type Extractor struct {
	locator *MapImageLocator
	now     func() time.Time
}

// NewExtractor creates an extractor that resolves map images through
// the given locator.
func NewExtractor(locator *MapImageLocator) *Extractor {
	return &Extractor{
		locator: locator,
		now:     time.Now,
	}
}

// Extract builds a ReportRecord from the document. It cannot fail:
// every rule miss, an unreadable summary page, and every map image
// problem degrade their own section of the record and leave the rest
// intact. Fatal conditions belong to document open, before this runs.
func (e *Extractor) Extract(ctx context.Context, doc Document, opts Options) *ReportRecord {
	record := NewReportRecord(doc.SourceName(), e.now().UTC().Format(time.RFC3339), doc.PageCount())

	if blocks, err := doc.PageBlocks(textPageIndex); err == nil {
		e.populate(record, Normalize(blocks))
	}

	record.MapImage = e.locator.Locate(ctx, doc, mapPageIndex, opts.IncludeImageData)
	return record
}

func (e *Extractor) populate(record *ReportRecord, v Views) {
	det, ok := DetectAnalysisType(v)
	var cfg *AnalysisTypeConfig
	if ok {
		cfg = det.Config
		key := cfg.Key
		record.Report.AnalysisType = &key
	}

	record.Report.SurveyDate = ExtractSurveyDate(v)
	record.Report.Type = ExtractReportType(v)
	record.Report.AnalysisName = ExtractAnalysisName(v, det)
	record.Field.Crop = ExtractCrop(v)
	record.Field.GrowingStage = ExtractGrowingStage(v)
	record.Field.AreaHectares = ExtractFieldArea(v)
	record.AdditionalInfo = ExtractAdditionalInfo(v)

	record.Analysis.Levels = ExtractLevels(v, cfg)
	record.Analysis.TotalAreaHectares, record.Analysis.TotalAreaPercent =
		ReconcileTotals(v, cfg, record.Analysis.Levels)
}
