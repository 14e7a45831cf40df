package services

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"document-extraction-service/internal/extractor"
	"document-extraction-service/internal/models"
	"document-extraction-service/internal/utils"
)

type stubPDFChain struct {
	result       *extractor.PDFResult
	err          error
	meta         map[string]string
	extractCalls int
}

func (s *stubPDFChain) Extract(data []byte) (*extractor.PDFResult, error) {
	s.extractCalls++
	return s.result, s.err
}

func (s *stubPDFChain) Metadata(data []byte) map[string]string {
	if s.meta == nil {
		return map[string]string{}
	}
	return s.meta
}

type stubOCR struct {
	text  string
	err   error
	calls int
}

func (s *stubOCR) Extract(data []byte) (string, error) {
	s.calls++
	return s.text, s.err
}

func newTestService(pdf pdfExtractor, ocr imageExtractor) *extractionService {
	return &extractionService{
		pdf:       pdf,
		ocr:       ocr,
		encodings: []string{"utf-8", "latin-1", "cp1252"},
		logger:    utils.NewLogger("error"),
	}
}

func errorHasKind(t *testing.T, res *models.ExtractionResult, kind extractor.FailureKind) {
	t.Helper()

	if res.Success {
		t.Fatalf("result succeeded, want %s failure", kind)
	}
	if res.Error == nil {
		t.Fatalf("failure result has nil error")
	}
	if !strings.HasPrefix(*res.Error, string(kind)+":") {
		t.Errorf("error = %q, want %q prefix", *res.Error, kind)
	}
}

func TestExtractPDFSuccess(t *testing.T) {
	pdf := &stubPDFChain{result: &extractor.PDFResult{
		Text:     "Grüße aus dem Bericht",
		Pages:    3,
		Method:   "pdfreader",
		Metadata: map[string]string{"title": "Bericht"},
	}}
	svc := newTestService(pdf, &stubOCR{})

	res := svc.Extract(context.Background(), &models.ExtractionRequest{
		Content:  []byte("%PDF-1.4 stub"),
		Filename: "bericht.pdf",
		MimeType: "application/pdf",
	})

	if !res.Success {
		t.Fatalf("Extract failed: %v", res.Error)
	}
	if res.Method != "pdfreader" {
		t.Errorf("method = %q, want %q", res.Method, "pdfreader")
	}
	if res.Pages == nil || *res.Pages != 3 {
		t.Errorf("pages = %v, want 3", res.Pages)
	}
	if res.Metadata["title"] != "Bericht" {
		t.Errorf("metadata = %v, want title set", res.Metadata)
	}
	if res.Error != nil {
		t.Errorf("error = %q on success, want nil", *res.Error)
	}
	// Rune count, not byte count.
	if res.TextLength != 21 {
		t.Errorf("text_length = %d, want 21", res.TextLength)
	}
}

func TestExtractPDFFailureKeepsMetadata(t *testing.T) {
	pdf := &stubPDFChain{
		err:  extractor.NewError(extractor.KindPDFEncrypted, "password required"),
		meta: map[string]string{"title": "Locked"},
	}
	svc := newTestService(pdf, &stubOCR{})

	res := svc.Extract(context.Background(), &models.ExtractionRequest{
		Content:  []byte("%PDF-1.4 stub"),
		Filename: "locked.pdf",
	})

	errorHasKind(t, res, extractor.KindPDFEncrypted)
	if res.Text != "" || res.TextLength != 0 {
		t.Errorf("failure carries text %q (len %d), want empty", res.Text, res.TextLength)
	}
	if res.Pages != nil {
		t.Errorf("pages = %v on failure, want nil", *res.Pages)
	}
	if res.Metadata["title"] != "Locked" {
		t.Errorf("metadata = %v, want trailer metadata kept on failure", res.Metadata)
	}
}

func TestExtractTextMethodNamesEncoding(t *testing.T) {
	svc := newTestService(&stubPDFChain{}, &stubOCR{})

	tests := []struct {
		name       string
		content    []byte
		wantMethod string
		wantText   string
	}{
		{"valid utf-8", []byte("Grüße aus Köln"), "utf-8", "Grüße aus Köln"},
		{"invalid utf-8 falls to latin-1", []byte{0x53, 0x74, 0x72, 0x61, 0xDF, 0x65}, "latin-1", "Straße"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.Extract(context.Background(), &models.ExtractionRequest{
				Content:  tt.content,
				Filename: "note.txt",
			})

			if !res.Success {
				t.Fatalf("Extract failed: %v", *res.Error)
			}
			if res.Method != tt.wantMethod {
				t.Errorf("method = %q, want %q", res.Method, tt.wantMethod)
			}
			if res.Text != tt.wantText {
				t.Errorf("text = %q, want %q", res.Text, tt.wantText)
			}
			if res.Pages != nil {
				t.Errorf("pages = %v for text input, want nil", *res.Pages)
			}
		})
	}
}

func TestExtractImageSuccess(t *testing.T) {
	ocr := &stubOCR{text: "Rechnung Nr. 42"}
	svc := newTestService(&stubPDFChain{}, ocr)

	res := svc.Extract(context.Background(), &models.ExtractionRequest{
		Content:  []byte("\x89PNG\r\n\x1a\nstub"),
		Filename: "scan.png",
		MimeType: "image/png",
	})

	if !res.Success {
		t.Fatalf("Extract failed: %v", *res.Error)
	}
	if res.Method != "ocr" {
		t.Errorf("method = %q, want %q", res.Method, "ocr")
	}
	if !strings.Contains(res.Text, "Rechnung") {
		t.Errorf("text = %q, want recognized content", res.Text)
	}
	if ocr.calls != 1 {
		t.Errorf("ocr calls = %d, want 1", ocr.calls)
	}
}

func TestExtractZeroByteImageIsUnreadable(t *testing.T) {
	// Real OCR extractor: validation rejects the payload before any engine
	// call, so the declared-but-empty image fails as unreadable, not a crash.
	svc := newTestService(&stubPDFChain{}, extractor.NewOCRExtractor([]string{"deu", "eng"}))

	res := svc.Extract(context.Background(), &models.ExtractionRequest{
		MimeType: "image/png",
	})

	errorHasKind(t, res, extractor.KindUnreadableImage)
}

func TestExtractUnknownKindIsUnsupported(t *testing.T) {
	pdf := &stubPDFChain{}
	ocr := &stubOCR{}
	svc := newTestService(pdf, ocr)

	res := svc.Extract(context.Background(), &models.ExtractionRequest{
		Content:  []byte{0x00, 0x01, 0x02, 0x03},
		Filename: "blob.bin",
		MimeType: "application/octet-stream",
	})

	errorHasKind(t, res, extractor.KindUnsupportedType)
	if pdf.extractCalls != 0 || ocr.calls != 0 {
		t.Errorf("extractors invoked for unknown kind: pdf=%d ocr=%d", pdf.extractCalls, ocr.calls)
	}
}

type panickingPDFChain struct{}

func (panickingPDFChain) Extract(data []byte) (*extractor.PDFResult, error) {
	panic("library exploded")
}

func (panickingPDFChain) Metadata(data []byte) map[string]string {
	return map[string]string{}
}

func TestExtractNeverPanics(t *testing.T) {
	svc := newTestService(panickingPDFChain{}, &stubOCR{})

	res := svc.Extract(context.Background(), &models.ExtractionRequest{
		Content:  []byte("%PDF-1.4 stub"),
		Filename: "boom.pdf",
	})

	errorHasKind(t, res, extractor.KindInternal)
}

func TestExtractIsIdempotent(t *testing.T) {
	pdf := &stubPDFChain{result: &extractor.PDFResult{
		Text:     "same every time",
		Pages:    1,
		Method:   "pdfreader",
		Metadata: map[string]string{},
	}}
	svc := newTestService(pdf, &stubOCR{})

	req := &models.ExtractionRequest{
		Content:  []byte("%PDF-1.4 stub"),
		Filename: "same.pdf",
		MimeType: "application/pdf",
	}

	first := svc.Extract(context.Background(), req)
	second := svc.Extract(context.Background(), req)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differs:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}
