package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"

	"document-extraction-service/internal/extractor"
	"document-extraction-service/internal/models"
	"document-extraction-service/internal/services"
	"document-extraction-service/internal/utils"
)

const (
	ServiceName    = "Document Extraction Service"
	ServiceVersion = "1.0.0"

	// minPDFSize rejects payloads that cannot be a structurally valid PDF.
	minPDFSize = 100
)

// extractionLibraries is what the health endpoint reports as the installed
// extraction backends, keyed by method name.
var extractionLibraries = map[string]string{
	"pdfreader": "github.com/ledongthuc/pdf",
	"fitz":      "github.com/gen2brain/go-fitz",
	"pdfcpu":    "github.com/pdfcpu/pdfcpu",
	"ocr":       "github.com/otiai10/gosseract",
}

type ExtractHandler struct {
	service     services.ExtractionService
	maxFileSize int64
	logger      *utils.Logger
}

func NewExtractHandler(service services.ExtractionService, maxFileSize int64, logger *utils.Logger) *ExtractHandler {
	return &ExtractHandler{
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Extract accepts a document as multipart form data (field "file") or as
// JSON carrying base64 content, runs it through the pipeline, and returns
// the uniform result. Extraction failures are HTTP 200 with success=false;
// only boundary problems (no payload, bad encoding, size) are 4xx.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	// Check Content-Length first to reject oversized requests early
	if r.ContentLength > h.maxFileSize {
		h.respondError(w, utils.NewBadRequestError(h.sizeLimitMessage()), "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	req, err := h.decodeRequest(r)
	if err != nil {
		h.respondError(w, err, "")
		return
	}

	h.logger.Info("Extraction request",
		"filename", req.Filename,
		"mime_type", req.MimeType,
		"size", len(req.Content))

	result := h.service.Extract(r.Context(), req)

	h.respondJSON(w, http.StatusOK, result)
}

// decodeRequest unwraps the wire format. The core never sees multipart or
// base64; it gets bytes plus the client's filename and MIME type hints.
func (h *ExtractHandler) decodeRequest(r *http.Request) (*models.ExtractionRequest, error) {
	contentType := r.Header.Get("Content-Type")

	var req *models.ExtractionRequest
	var err error

	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		req, err = h.decodeMultipart(r)
	case strings.Contains(contentType, "application/json"):
		req, err = h.decodeBase64JSON(r)
	default:
		return nil, utils.NewBadRequestError(
			`No document data provided. Send multipart form data with a "file" field or JSON with a base64 "data" field`)
	}
	if err != nil {
		return nil, err
	}

	if len(req.Content) == 0 {
		return nil, utils.NewBadRequestError("Document payload is empty")
	}

	// A PDF below the structural minimum cannot be parsed by any strategy.
	kind := extractor.DetectKind(req.Filename, req.MimeType, req.Content)
	if kind == models.KindPDF && len(req.Content) < minPDFSize {
		return nil, utils.NewBadRequestError("Invalid or empty PDF data")
	}

	return req, nil
}

func (h *ExtractHandler) decodeMultipart(r *http.Request) (*models.ExtractionRequest, error) {
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return nil, utils.NewBadRequestError(h.sizeLimitMessage())
		}
		return nil, utils.NewBadRequestError("Invalid form data")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, utils.NewBadRequestError("No file provided")
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, utils.NewBadRequestError("No file selected")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, utils.NewInternalError("Failed to read file")
	}

	return &models.ExtractionRequest{
		Content:  data,
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
	}, nil
}

func (h *ExtractHandler) decodeBase64JSON(r *http.Request) (*models.ExtractionRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return nil, utils.NewBadRequestError(h.sizeLimitMessage())
		}
		return nil, utils.NewBadRequestError("Failed to read request body")
	}

	var payload struct {
		Data     string `json:"data"`
		Filename string `json:"filename"`
		MimeType string `json:"mime_type"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, utils.NewBadRequestError("Invalid JSON body")
	}

	if payload.Data == "" {
		return nil, utils.NewBadRequestError("Missing base64 data field")
	}

	data, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Invalid base64 data: %v", err))
	}

	// No filename is fabricated here; classification falls back to the MIME
	// type and content sniffing.
	return &models.ExtractionRequest{
		Content:  data,
		Filename: payload.Filename,
		MimeType: payload.MimeType,
	}, nil
}

// Health reports service status and the extraction backends in use.
func (h *ExtractHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "OK",
		"service":    ServiceName,
		"version":    ServiceVersion,
		"go_version": runtime.Version(),
		"libraries":  extractionLibraries,
	})
}

// Test returns a canned successful result so deployments can verify the
// response schema without uploading a document.
func (h *ExtractHandler) Test(w http.ResponseWriter, r *http.Request) {
	testText := "This is a test extraction service response."

	result := models.NewSuccessResult(&models.ExtractionRequest{}, testText, "", map[string]string{"test": "true"})
	result.WithPages(1)

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "Test successful",
		"service":     ServiceName,
		"test_result": result,
	})
}

func (h *ExtractHandler) sizeLimitMessage() string {
	return fmt.Sprintf("File size exceeds %dMB limit", h.maxFileSize>>20)
}

func (h *ExtractHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError writes a boundary failure in the same shape as an extraction
// result, with the HTTP status carrying the boundary semantics.
func (h *ExtractHandler) respondError(w http.ResponseWriter, err error, filename string) {
	var status int
	var message string

	switch e := err.(type) {
	case *utils.AppError:
		status = e.StatusCode
		message = e.Message
	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	h.logger.Error("Request error", "status", status, "error", message)

	req := &models.ExtractionRequest{Filename: filename}
	h.respondJSON(w, status, models.NewFailureResult(req, message, nil))
}
