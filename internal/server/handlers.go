package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/starhawk-ag/drone-pdf-extractor/internal/report"
)

// uploadedSourceName labels records extracted from inline request
// content, where no file path exists.
const uploadedSourceName = "uploaded.pdf"

type extractRequest struct {
	PDFPath          string `json:"pdfPath,omitempty"`
	PDFContent       string `json:"pdfContent,omitempty"`
	IncludeImageData bool   `json:"includeImageData,omitempty"`
}

type extractResponse struct {
	Success       bool                 `json:"success"`
	ExtractedData *report.ReportRecord `json:"extractedData,omitempty"`
	Error         string               `json:"error,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// handleExtract accepts a report PDF by path or inline base64 content
// and responds with the extraction envelope. Validation and extraction
// failures are reported inside the envelope with HTTP 200; the status
// code only reflects transport-level problems.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, extractResponse{Success: false, Error: "method not allowed"})
		return
	}
	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, s.requestBodyLimit())

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusOK, extractResponse{
				Success: false,
				Error:   fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBytesErr.Limit),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, extractResponse{Success: false, Error: "invalid request body"})
		return
	}

	opts := report.Options{IncludeImageData: req.IncludeImageData}

	var (
		record *report.ReportRecord
		err    error
	)
	switch {
	case req.PDFContent != "":
		var data []byte
		data, err = base64.StdEncoding.DecodeString(req.PDFContent)
		if err != nil {
			writeJSON(w, http.StatusOK, extractResponse{Success: false, Error: "pdfContent is not valid base64"})
			return
		}
		record, err = s.svc.ExtractBytes(r.Context(), uploadedSourceName, data, opts)
	case req.PDFPath != "":
		record, err = s.svc.ExtractFile(r.Context(), req.PDFPath, opts)
	default:
		writeJSON(w, http.StatusOK, extractResponse{Success: false, Error: "either pdfPath or pdfContent must be provided"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusOK, extractResponse{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{Success: true, ExtractedData: record})
}

// handleHealth reports service liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, extractResponse{Success: false, Error: "method not allowed"})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: s.config.ServiceName,
		Version: s.config.Version,
	})
}

// requestBodyLimit bounds the request body; base64 encoding expands a
// max-size PDF by a third, so double leaves headroom for the JSON
// wrapper.
func (s *Server) requestBodyLimit() int64 {
	return s.config.MaxFileSize * 2
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
