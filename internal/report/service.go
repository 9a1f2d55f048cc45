package report

import (
	"context"

	"github.com/starhawk-ag/drone-pdf-extractor/internal/pdf"
)

// Service ties request validation, document lifecycle, and extraction
// together for the transport boundaries.
type Service struct {
	maxFileSize int64
	validator   *pdf.Validator
	extractor   *Extractor
}

// NewService creates a service with all extraction components wired.
func NewService(maxFileSize int64, locator *MapImageLocator) *Service {
	return &Service{
		maxFileSize: maxFileSize,
		validator:   pdf.NewValidator(maxFileSize),
		extractor:   NewExtractor(locator),
	}
}

// ExtractFile validates the file at path and extracts its report.
func (s *Service) ExtractFile(ctx context.Context, path string, opts Options) (*ReportRecord, error) {
	if err := s.validator.CheckFile(path); err != nil {
		return nil, err
	}

	doc, err := pdf.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return s.extractor.Extract(ctx, doc, opts), nil
}

// ExtractBytes validates a report received as an in-memory byte
// stream and extracts it. The name is carried into record metadata.
func (s *Service) ExtractBytes(ctx context.Context, name string, data []byte, opts Options) (*ReportRecord, error) {
	if err := s.validator.CheckBytes(data); err != nil {
		return nil, err
	}

	doc, err := pdf.OpenBytes(name, data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return s.extractor.Extract(ctx, doc, opts), nil
}

// ValidateFile reports whether the file at path can be extracted,
// with the rejection reason in the result message.
func (s *Service) ValidateFile(path string) (*pdf.FileValidationResult, error) {
	return s.validator.ValidateFile(path)
}

// MaxFileSize returns the size limit requests are checked against.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}
