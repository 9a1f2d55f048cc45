package pdf

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	_ "golang.org/x/image/tiff"
)

// pdfMagic is the byte signature every PDF file starts with.
var pdfMagic = []byte("%PDF")

// Document wraps one open PDF and owns its native rendering resources.
// A Document is exclusively owned by a single extraction; it is not
// safe for concurrent use and must be closed on every exit path.
type Document struct {
	sourceName string
	data       []byte
	doc        *fitz.Document
	closed     bool
}

// OpenFile opens the PDF at path.
func OpenFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}
	return OpenBytes(filepath.Base(path), data)
}

// OpenBytes opens a PDF from an in-memory byte stream. The name is
// only carried through to extraction metadata.
func OpenBytes(name string, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("not a PDF document: missing %%PDF header")
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &Document{
		sourceName: name,
		data:       data,
		doc:        doc,
	}, nil
}

// SourceName returns the name the document was opened under.
func (d *Document) SourceName() string {
	return d.sourceName
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	if d.closed {
		return 0
	}
	return d.doc.NumPage()
}

// Size returns the document's byte size.
func (d *Document) Size() int64 {
	return int64(len(d.data))
}

// Close releases the underlying native resources. Further page
// operations on a closed document fail. Close is idempotent.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.doc.Close()
}

func (d *Document) checkPage(pageIndex int) error {
	if d.closed {
		return fmt.Errorf("document is closed")
	}
	if pageIndex < 0 || pageIndex >= d.doc.NumPage() {
		return fmt.Errorf("page %d out of range (document has %d pages)",
			pageIndex, d.doc.NumPage())
	}
	return nil
}

// PageBlocks extracts the page's text as positioned blocks, one per
// line of the renderer's text flow. Pages are zero-indexed.
func (d *Document) PageBlocks(pageIndex int) ([]TextBlock, error) {
	if err := d.checkPage(pageIndex); err != nil {
		return nil, err
	}
	text, err := d.doc.Text(pageIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from page %d: %w", pageIndex, err)
	}

	lines := strings.Split(text, "\n")
	blocks := make([]TextBlock, 0, len(lines))
	for i, line := range lines {
		blocks = append(blocks, TextBlock{Position: i, Text: line})
	}
	return blocks, nil
}

// EmbeddedImageCount reports how many image XObjects the page's
// resource dictionary declares. The second return is false when the
// document's cross-reference structure cannot be walked; callers
// should then fall through to a full extraction attempt rather than
// assume the page is image-free.
func (d *Document) EmbeddedImageCount(pageIndex int) (count int, known bool) {
	defer func() {
		// Malformed resource dictionaries can panic the parser.
		if recover() != nil {
			count, known = 0, false
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(d.data), int64(len(d.data)))
	if err != nil {
		return 0, false
	}

	page := reader.Page(pageIndex + 1)
	if page.V.IsNull() {
		return 0, false
	}
	resources := page.V.Key("Resources")
	if resources.IsNull() {
		return 0, true
	}
	xObjects := resources.Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return 0, true
	}

	for _, key := range xObjects.Keys() {
		obj := xObjects.Key(key)
		if obj.IsNull() {
			continue
		}
		if subtype := obj.Key("Subtype"); !subtype.IsNull() && subtype.Name() == "Image" {
			count++
		}
	}
	return count, true
}

// ExtractPageImages decodes the raster images embedded on one page.
// Images whose streams cannot be read are skipped, not fatal.
func (d *Document) ExtractPageImages(pageIndex int) ([]EmbeddedImage, error) {
	if err := d.checkPage(pageIndex); err != nil {
		return nil, err
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageNr := strconv.Itoa(pageIndex + 1)
	extracted, err := api.ExtractImagesRaw(bytes.NewReader(d.data), []string{pageNr}, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to extract images from page %d: %w", pageIndex, err)
	}

	var images []EmbeddedImage
	for _, pageImages := range extracted {
		for _, img := range pageImages {
			data, err := io.ReadAll(img)
			if err != nil || len(data) == 0 {
				continue
			}
			width, height := imageDimensions(data)
			images = append(images, EmbeddedImage{
				Name:   img.Name,
				Format: normalizeImageFormat(img.FileType),
				Width:  width,
				Height: height,
				Data:   data,
			})
		}
	}
	return images, nil
}

// RenderPage rasterizes the full page to a PNG at the given DPI.
func (d *Document) RenderPage(pageIndex int, dpi float64) (*RenderedPage, error) {
	if err := d.checkPage(pageIndex); err != nil {
		return nil, err
	}
	data, err := d.doc.ImagePNG(pageIndex, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", pageIndex, err)
	}
	width, height := imageDimensions(data)
	return &RenderedPage{
		Format: "png",
		Width:  width,
		Height: height,
		DPI:    dpi,
		Data:   data,
	}, nil
}

// imageDimensions decodes just the image header for pixel dimensions.
// Undecodable formats yield (0, 0).
func imageDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// normalizeImageFormat converts extractor file-type tags to canonical
// format names.
func normalizeImageFormat(fileType string) string {
	switch strings.ToLower(fileType) {
	case "jpg", "jpeg":
		return "jpeg"
	case "jp2", "jpx":
		return "jpeg2000"
	case "tif", "tiff":
		return "tiff"
	case "png":
		return "png"
	default:
		if fileType != "" {
			return strings.ToLower(fileType)
		}
		return "unknown"
	}
}
