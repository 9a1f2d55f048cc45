package pdf

// TextBlock represents one positioned run of text extracted from a
// page. Position is the block's ordinal within the page's text flow;
// the source documents give no guarantee it reflects reading order.
type TextBlock struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// EmbeddedImage represents a raster image lifted from a page's
// resource dictionary, with its decoded pixel dimensions when the
// format is decodable.
type EmbeddedImage struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   []byte `json:"-"`
}

// RenderedPage represents a full-page rasterization, used when a page
// carries no extractable embedded image.
type RenderedPage struct {
	Format string  `json:"format"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	DPI    float64 `json:"dpi"`
	Data   []byte  `json:"-"`
}

// FileValidationResult represents the outcome of validating a file for
// extraction, with a human-readable reason when it is rejected.
type FileValidationResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}
