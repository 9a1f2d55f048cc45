package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// minimalPDF builds the smallest well-formed single-page document the
// parsers in this package all accept: one empty US Letter page behind
// a classic cross-reference table with exact byte offsets.
func minimalPDF() []byte {
	var buf bytes.Buffer
	offsets := make([]int, 4)

	buf.WriteString("%PDF-1.4\n")
	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = buf.Len()
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n")

	xrefPos := buf.Len()
	buf.WriteString("xref\n0 4\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i < 4; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	buf.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefPos)
	return buf.Bytes()
}

func TestOpenBytes_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		errorMsg string
	}{
		{
			name:     "empty data",
			data:     []byte{},
			errorMsg: "document is empty",
		},
		{
			name:     "nil data",
			data:     nil,
			errorMsg: "document is empty",
		},
		{
			name:     "missing magic header",
			data:     []byte("plain text pretending to be a report"),
			errorMsg: "missing %PDF header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := OpenBytes("test.pdf", tt.data)
			if err == nil {
				doc.Close()
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
			}
			if doc != nil {
				t.Error("expected nil document on rejection")
			}
		})
	}
}

func TestOpenBytes_WellFormed(t *testing.T) {
	doc, err := OpenBytes("report.pdf", minimalPDF())
	if err != nil {
		t.Fatalf("failed to open well-formed PDF: %v", err)
	}
	defer doc.Close()

	if doc.SourceName() != "report.pdf" {
		t.Errorf("expected source name report.pdf, got %s", doc.SourceName())
	}
	if doc.PageCount() != 1 {
		t.Errorf("expected 1 page, got %d", doc.PageCount())
	}
	if doc.Size() != int64(len(minimalPDF())) {
		t.Errorf("expected size %d, got %d", len(minimalPDF()), doc.Size())
	}
}

func TestOpenFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "pdf_document_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "report.pdf")
	if err := os.WriteFile(path, minimalPDF(), 0o644); err != nil {
		t.Fatalf("failed to write PDF: %v", err)
	}

	doc, err := OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open PDF file: %v", err)
	}
	defer doc.Close()

	// The source name carries only the base name, never the full path.
	if doc.SourceName() != "report.pdf" {
		t.Errorf("expected source name report.pdf, got %s", doc.SourceName())
	}
	if doc.PageCount() != 1 {
		t.Errorf("expected 1 page, got %d", doc.PageCount())
	}
}

func TestOpenFile_MissingFile(t *testing.T) {
	doc, err := OpenFile("/non/existent/report.pdf")
	if err == nil {
		doc.Close()
		t.Fatal("expected error but got none")
	}
	if !strings.Contains(err.Error(), "cannot read file") {
		t.Errorf("expected read error, got %q", err.Error())
	}
}

func TestDocument_Close(t *testing.T) {
	doc, err := OpenBytes("report.pdf", minimalPDF())
	if err != nil {
		t.Fatalf("failed to open PDF: %v", err)
	}

	if err := doc.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := doc.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}

	if doc.PageCount() != 0 {
		t.Errorf("expected 0 pages after close, got %d", doc.PageCount())
	}
	if _, err := doc.PageBlocks(0); err == nil || !strings.Contains(err.Error(), "document is closed") {
		t.Errorf("expected closed-document error, got %v", err)
	}
	if _, err := doc.RenderPage(0, 72); err == nil || !strings.Contains(err.Error(), "document is closed") {
		t.Errorf("expected closed-document error, got %v", err)
	}
}

func TestDocument_PageBlocks(t *testing.T) {
	doc, err := OpenBytes("report.pdf", minimalPDF())
	if err != nil {
		t.Fatalf("failed to open PDF: %v", err)
	}
	defer doc.Close()

	blocks, err := doc.PageBlocks(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) == 0 {
		t.Fatal("expected at least one block")
	}
	for i, block := range blocks {
		if block.Position != i {
			t.Errorf("block %d has position %d", i, block.Position)
		}
	}
}

func TestDocument_PageBlocksOutOfRange(t *testing.T) {
	doc, err := OpenBytes("report.pdf", minimalPDF())
	if err != nil {
		t.Fatalf("failed to open PDF: %v", err)
	}
	defer doc.Close()

	tests := []struct {
		name      string
		pageIndex int
	}{
		{name: "negative index", pageIndex: -1},
		{name: "past last page", pageIndex: 1},
		{name: "far past last page", pageIndex: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := doc.PageBlocks(tt.pageIndex)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), "out of range") {
				t.Errorf("expected out-of-range error, got %q", err.Error())
			}
		})
	}
}

func TestDocument_EmbeddedImageCount(t *testing.T) {
	doc, err := OpenBytes("report.pdf", minimalPDF())
	if err != nil {
		t.Fatalf("failed to open PDF: %v", err)
	}
	defer doc.Close()

	count, known := doc.EmbeddedImageCount(0)
	if !known {
		t.Fatal("expected count to be known for a well-formed page")
	}
	if count != 0 {
		t.Errorf("expected 0 embedded images, got %d", count)
	}

	// Out-of-range pages resolve to a null page node.
	if _, known := doc.EmbeddedImageCount(5); known {
		t.Error("expected unknown count for out-of-range page")
	}
}

func TestDocument_ExtractPageImages(t *testing.T) {
	doc, err := OpenBytes("report.pdf", minimalPDF())
	if err != nil {
		t.Fatalf("failed to open PDF: %v", err)
	}
	defer doc.Close()

	images, err := doc.ExtractPageImages(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("expected no images on an empty page, got %d", len(images))
	}

	if _, err := doc.ExtractPageImages(3); err == nil {
		t.Error("expected error for out-of-range page")
	}
}

func TestDocument_RenderPage(t *testing.T) {
	doc, err := OpenBytes("report.pdf", minimalPDF())
	if err != nil {
		t.Fatalf("failed to open PDF: %v", err)
	}
	defer doc.Close()

	rendered, err := doc.RenderPage(0, 72)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rendered.Format != "png" {
		t.Errorf("expected png format, got %s", rendered.Format)
	}
	if rendered.DPI != 72 {
		t.Errorf("expected 72 DPI, got %f", rendered.DPI)
	}
	// US Letter at 72 DPI renders pixel-per-point.
	if rendered.Width != 612 || rendered.Height != 792 {
		t.Errorf("expected 612x792, got %dx%d", rendered.Width, rendered.Height)
	}
	if len(rendered.Data) == 0 {
		t.Error("expected rendered PNG data")
	}

	if _, err := doc.RenderPage(2, 72); err == nil {
		t.Error("expected error for out-of-range page")
	}
}

func TestImageDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}

	width, height := imageDimensions(buf.Bytes())
	if width != 8 || height != 6 {
		t.Errorf("expected 8x6, got %dx%d", width, height)
	}

	width, height = imageDimensions([]byte("not an image"))
	if width != 0 || height != 0 {
		t.Errorf("expected 0x0 for undecodable data, got %dx%d", width, height)
	}
}

func TestNormalizeImageFormat(t *testing.T) {
	tests := []struct {
		fileType string
		expected string
	}{
		{fileType: "jpg", expected: "jpeg"},
		{fileType: "jpeg", expected: "jpeg"},
		{fileType: "JPEG", expected: "jpeg"},
		{fileType: "jp2", expected: "jpeg2000"},
		{fileType: "jpx", expected: "jpeg2000"},
		{fileType: "tif", expected: "tiff"},
		{fileType: "tiff", expected: "tiff"},
		{fileType: "png", expected: "png"},
		{fileType: "PNG", expected: "png"},
		{fileType: "bmp", expected: "bmp"},
		{fileType: "", expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.fileType, func(t *testing.T) {
			got := normalizeImageFormat(tt.fileType)
			if got != tt.expected {
				t.Errorf("normalizeImageFormat(%q) = %q, want %q", tt.fileType, got, tt.expected)
			}
		})
	}
}

func BenchmarkNormalizeImageFormat(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = normalizeImageFormat("JPG")
	}
}
