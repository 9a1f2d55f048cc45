package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Validator handles pre-extraction validation of candidate documents
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new validator with the specified size limit
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile performs comprehensive validation on a PDF file,
// including a parse probe. Validation failures are reported in the
// result message, not as an error.
func (v *Validator) ValidateFile(path string) (*FileValidationResult, error) {
	result := &FileValidationResult{
		Path:  path,
		Valid: false,
	}

	err := v.validatePDFFile(path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	result.Valid = true
	return result, nil
}

// validatePDFFile performs detailed validation on a PDF file
func (v *Validator) validatePDFFile(path string) error {
	if err := v.CheckFile(path); err != nil {
		return err
	}

	// Try to open the PDF to validate it's a valid PDF file
	f, _, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	defer f.Close()

	return nil
}

// CheckFile runs the request-boundary checks on a file: existence,
// regular file, extension, size limit, and magic header. It does not
// parse the document; the extraction pipeline does that itself.
func (v *Validator) CheckFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return v.checkMagic(path)
}

func (v *Validator) checkMagic(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("cannot read file header: %w", err)
	}
	if !bytes.Equal(header, pdfMagic) {
		return fmt.Errorf("file is not a PDF: missing %%PDF header")
	}
	return nil
}

// CheckBytes runs the request-boundary checks on an in-memory
// document: non-empty, size limit, and magic header.
func (v *Validator) CheckBytes(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("document is empty")
	}
	if int64(len(data)) > v.maxFileSize {
		return fmt.Errorf("document too large: %d bytes (max: %d bytes)",
			len(data), v.maxFileSize)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return fmt.Errorf("document is not a PDF: missing %%PDF header")
	}
	return nil
}

// IsValidPDF performs a quick check to see if a file is a valid PDF
func (v *Validator) IsValidPDF(path string) bool {
	return v.validatePDFFile(path) == nil
}
