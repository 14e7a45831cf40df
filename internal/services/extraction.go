package services

import (
	"context"
	"errors"
	"fmt"

	"document-extraction-service/internal/config"
	"document-extraction-service/internal/extractor"
	"document-extraction-service/internal/models"
	"document-extraction-service/internal/utils"
)

// pdfExtractor is the strategy-chain contract the orchestrator depends on.
type pdfExtractor interface {
	Extract(data []byte) (*extractor.PDFResult, error)
	Metadata(data []byte) map[string]string
}

// imageExtractor runs OCR over a rasterized image.
type imageExtractor interface {
	Extract(data []byte) (string, error)
}

type ExtractionService interface {
	Extract(ctx context.Context, req *models.ExtractionRequest) *models.ExtractionResult
}

type extractionService struct {
	pdf       pdfExtractor
	ocr       imageExtractor
	encodings []string
	logger    *utils.Logger
}

func NewService(cfg *config.Config, logger *utils.Logger) ExtractionService {
	return &extractionService{
		pdf:       extractor.NewPDFChain(logger),
		ocr:       extractor.NewOCRExtractor(cfg.OCRLanguages),
		encodings: cfg.TextEncodings,
		logger:    logger,
	}
}

// Extract classifies the payload, dispatches to the matching extractor, and
// assembles the uniform result. It never returns an error and never panics;
// every failure becomes a failure-shaped result.
func (s *extractionService) Extract(ctx context.Context, req *models.ExtractionRequest) (result *models.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Extraction panicked", "filename", req.Filename, "panic", r)
			msg := extractor.NewError(extractor.KindInternal, fmt.Sprintf("unexpected failure: %v", r))
			result = models.NewFailureResult(req, msg.Error(), nil)
		}
	}()

	kind := extractor.DetectKind(req.Filename, req.MimeType, req.Content)

	s.logger.Info("Extraction started",
		"filename", req.Filename,
		"mime_type", req.MimeType,
		"kind", kind,
		"size", len(req.Content))

	switch kind {
	case models.KindPDF:
		result = s.extractPDF(req)
	case models.KindText:
		result = s.extractText(req)
	case models.KindImage:
		result = s.extractImage(req)
	default:
		s.logger.Warn("Unsupported document type", "filename", req.Filename, "mime_type", req.MimeType)
		err := extractor.NewError(extractor.KindUnsupportedType,
			fmt.Sprintf("cannot determine document type (filename %q, mime type %q)", req.Filename, req.MimeType))
		result = models.NewFailureResult(req, err.Error(), nil)
	}

	s.logger.Info("Extraction completed",
		"filename", req.Filename,
		"success", result.Success,
		"method", result.Method,
		"text_length", result.TextLength)

	return result
}

func (s *extractionService) extractPDF(req *models.ExtractionRequest) *models.ExtractionResult {
	res, err := s.pdf.Extract(req.Content)
	if err != nil {
		s.logger.Error("PDF extraction failed", "filename", req.Filename, "error", err)
		// Metadata can survive even when no strategy finds text.
		return models.NewFailureResult(req, errorMessage(err), s.pdf.Metadata(req.Content))
	}

	return models.NewSuccessResult(req, res.Text, res.Method, res.Metadata).WithPages(res.Pages)
}

func (s *extractionService) extractText(req *models.ExtractionRequest) *models.ExtractionResult {
	text, method, err := extractor.DecodeText(req.Content, s.encodings)
	if err != nil {
		s.logger.Error("Text decoding failed", "filename", req.Filename, "error", err)
		return models.NewFailureResult(req, errorMessage(err), nil)
	}

	return models.NewSuccessResult(req, text, method, nil)
}

func (s *extractionService) extractImage(req *models.ExtractionRequest) *models.ExtractionResult {
	text, err := s.ocr.Extract(req.Content)
	if err != nil {
		s.logger.Error("OCR extraction failed", "filename", req.Filename, "error", err)
		return models.NewFailureResult(req, errorMessage(err), nil)
	}

	return models.NewSuccessResult(req, text, "ocr", nil)
}

// errorMessage renders err in the "<kind>: <detail>" form clients branch on.
func errorMessage(err error) string {
	var e *extractor.Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return fmt.Sprintf("%s: %v", extractor.KindInternal, err)
}
