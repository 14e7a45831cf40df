package models

import "unicode/utf8"

// DocumentKind is the routing key the classifier assigns to a payload.
type DocumentKind string

const (
	KindPDF     DocumentKind = "pdf"
	KindText    DocumentKind = "text"
	KindImage   DocumentKind = "image"
	KindUnknown DocumentKind = "unknown"
)

// ExtractionRequest carries one document through the pipeline. Filename and
// MimeType are client hints and may be empty.
type ExtractionRequest struct {
	Content  []byte
	Filename string
	MimeType string
}

// ExtractionResult is the uniform response for every extraction attempt.
// Error is nil exactly when Success is true; Pages is set for PDF inputs only.
type ExtractionResult struct {
	Success    bool              `json:"success"`
	Text       string            `json:"text"`
	TextLength int               `json:"text_length"`
	Pages      *int              `json:"pages,omitempty"`
	Filename   string            `json:"filename"`
	MimeType   string            `json:"mime_type"`
	Method     string            `json:"method,omitempty"`
	Metadata   map[string]string `json:"metadata"`
	Error      *string           `json:"error"`
}

// NewSuccessResult builds a success-shaped result. TextLength counts
// characters, not bytes, matching what clients display as document length.
func NewSuccessResult(req *ExtractionRequest, text, method string, metadata map[string]string) *ExtractionResult {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &ExtractionResult{
		Success:    true,
		Text:       text,
		TextLength: utf8.RuneCountInString(text),
		Filename:   req.Filename,
		MimeType:   req.MimeType,
		Method:     method,
		Metadata:   metadata,
	}
}

// NewFailureResult builds a failure-shaped result around an error message.
func NewFailureResult(req *ExtractionRequest, errMsg string, metadata map[string]string) *ExtractionResult {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &ExtractionResult{
		Success:  false,
		Filename: req.Filename,
		MimeType: req.MimeType,
		Metadata: metadata,
		Error:    &errMsg,
	}
}

// WithPages attaches a page count to the result. Zero means the winning
// extractor could not report one, so the field stays absent.
func (r *ExtractionResult) WithPages(pages int) *ExtractionResult {
	if pages > 0 {
		r.Pages = &pages
	}
	return r
}
