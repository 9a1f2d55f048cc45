package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/starhawk-ag/drone-pdf-extractor/internal/upload"
)

// DefaultRenderDPI is the scale used when a page must be rasterized
// because it carries no extractable embedded image.
const DefaultRenderDPI = 150

// MapImageLocator selects the report's field-map image from a page
// and optionally publishes it to the asset host.
type MapImageLocator struct {
	uploader    upload.Uploader
	folder      string
	renderDPI   float64
	newPublicID func() string
}

// NewMapImageLocator creates a locator. A nil uploader disables
// publishing; located images are then returned inline.
func NewMapImageLocator(uploader upload.Uploader, folder string) *MapImageLocator {
	return &MapImageLocator{
		uploader:  uploader,
		folder:    folder,
		renderDPI: DefaultRenderDPI,
		newPublicID: func() string {
			return fmt.Sprintf("field-map-%d", time.Now().UnixNano())
		},
	}
}

// locatedImage is an image picked from the page but not yet published.
type locatedImage struct {
	source MapImageSource
	format string
	width  int
	height int
	dpi    float64
	data   []byte
}

// Locate picks the page's map image and runs the upload step when an
// uploader is configured. Failures degrade the result, never the
// extraction: a bad page index or render failure yields an error
// result, a failed upload yields the located image with the upload
// error recorded alongside. The inline payload only ever appears when
// no uploader is configured; once the upload step has run, succeeded
// or not, the result never carries raw bytes.
func (l *MapImageLocator) Locate(ctx context.Context, doc Document, pageIndex int, includeData bool) MapImageResult {
	if pageIndex < 0 || pageIndex >= doc.PageCount() {
		return MapImageResult{Source: MapImageError, Error: "page not found"}
	}

	located, err := l.locate(doc, pageIndex)
	if err != nil {
		return MapImageResult{Source: MapImageError, Error: err.Error()}
	}

	if l.uploader == nil {
		return located.result(includeData)
	}

	uploaded, err := l.uploader.Upload(ctx, upload.Request{
		Data:     located.data,
		Format:   located.format,
		Folder:   l.folder,
		PublicID: l.newPublicID(),
	})
	if err != nil {
		// No inline payload once the upload step has run.
		result := located.result(false)
		result.Error = err.Error()
		return result
	}
	return uploadedResult(located, uploaded)
}

// locate returns the largest embedded image on the page, else a full
// page render. The byte-size heuristic stands in for "the main map":
// decorative icons and logos compress far smaller.
func (l *MapImageLocator) locate(doc Document, pageIndex int) (*locatedImage, error) {
	count, known := doc.EmbeddedImageCount(pageIndex)
	if !known || count > 0 {
		if images, err := doc.ExtractPageImages(pageIndex); err == nil && len(images) > 0 {
			largest := images[0]
			for _, img := range images[1:] {
				if len(img.Data) > len(largest.Data) {
					largest = img
				}
			}
			return &locatedImage{
				source: MapImageEmbedded,
				format: largest.Format,
				width:  largest.Width,
				height: largest.Height,
				data:   largest.Data,
			}, nil
		}
	}

	rendered, err := doc.RenderPage(pageIndex, l.renderDPI)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return &locatedImage{
		source: MapImagePageRender,
		format: rendered.Format,
		width:  rendered.Width,
		height: rendered.Height,
		dpi:    rendered.DPI,
		data:   rendered.Data,
	}, nil
}

func (img *locatedImage) result(includeData bool) MapImageResult {
	result := MapImageResult{
		Source:    img.source,
		Format:    img.format,
		Width:     img.width,
		Height:    img.height,
		SizeBytes: len(img.data),
		DPI:       img.dpi,
	}
	if includeData {
		result.DataBase64 = base64.StdEncoding.EncodeToString(img.data)
	}
	return result
}

// uploadedResult references the published image. Raw bytes are never
// carried once the upload step has run; the host's final dimensions
// and byte size win over the locally decoded ones when reported.
func uploadedResult(img *locatedImage, res *upload.Result) MapImageResult {
	result := MapImageResult{
		Source:    MapImageCloudUpload,
		Format:    img.format,
		Width:     img.width,
		Height:    img.height,
		SizeBytes: len(img.data),
		URL:       res.SecureURL,
		PublicID:  res.PublicID,
	}
	if res.Format != "" {
		result.Format = res.Format
	}
	if res.Width > 0 {
		result.Width = res.Width
	}
	if res.Height > 0 {
		result.Height = res.Height
	}
	if res.Bytes > 0 {
		result.SizeBytes = res.Bytes
	}
	return result
}
