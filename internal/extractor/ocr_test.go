package extractor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

type fakeEngine struct {
	text  string
	err   error
	calls int
}

func (e *fakeEngine) Recognize(image []byte) (string, error) {
	e.calls++
	return e.text, e.err
}

// pngImage renders a white image of the given size as PNG bytes.
func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestOCRExtractRecognizedText(t *testing.T) {
	engine := &fakeEngine{text: "  Rechnung Nr. 42\n\n"}
	ocr := &OCRExtractor{languages: []string{"deu", "eng"}, engine: engine}

	text, err := ocr.Extract(pngImage(t, 200, 100))
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !strings.Contains(strings.ToLower(text), "rechnung") {
		t.Errorf("text = %q, want it to contain %q", text, "Rechnung")
	}
	if engine.calls != 1 {
		t.Errorf("engine calls = %d, want 1", engine.calls)
	}
}

func TestOCRExtractEmptyPayload(t *testing.T) {
	engine := &fakeEngine{text: "should not run"}
	ocr := &OCRExtractor{languages: []string{"deu", "eng"}, engine: engine}

	_, err := ocr.Extract(nil)
	if err == nil {
		t.Fatalf("Extract succeeded on empty payload")
	}
	if kind := KindOf(err); kind != KindUnreadableImage {
		t.Errorf("KindOf(err) = %q, want %q", kind, KindUnreadableImage)
	}
	if engine.calls != 0 {
		t.Errorf("engine ran on empty payload")
	}
}

func TestOCRExtractUndecodableBytes(t *testing.T) {
	engine := &fakeEngine{}
	ocr := &OCRExtractor{languages: []string{"deu", "eng"}, engine: engine}

	_, err := ocr.Extract([]byte("this is not an image"))
	if err == nil {
		t.Fatalf("Extract succeeded on non-image bytes")
	}
	if kind := KindOf(err); kind != KindUnreadableImage {
		t.Errorf("KindOf(err) = %q, want %q", kind, KindUnreadableImage)
	}
	if engine.calls != 0 {
		t.Errorf("engine ran on undecodable bytes")
	}
}

func TestOCRExtractTinyImage(t *testing.T) {
	engine := &fakeEngine{}
	ocr := &OCRExtractor{languages: []string{"deu", "eng"}, engine: engine}

	_, err := ocr.Extract(pngImage(t, 4, 4))
	if err == nil {
		t.Fatalf("Extract succeeded on a 4x4 image")
	}
	if kind := KindOf(err); kind != KindUnreadableImage {
		t.Errorf("KindOf(err) = %q, want %q", kind, KindUnreadableImage)
	}
}

func TestOCRExtractBlankRecognitionIsFailure(t *testing.T) {
	engine := &fakeEngine{text: "   \n \t "}
	ocr := &OCRExtractor{languages: []string{"deu", "eng"}, engine: engine}

	_, err := ocr.Extract(pngImage(t, 64, 64))
	if err == nil {
		t.Fatalf("Extract succeeded with blank recognition output")
	}
	if kind := KindOf(err); kind != KindUnreadableImage {
		t.Errorf("KindOf(err) = %q, want %q", kind, KindUnreadableImage)
	}
}

func TestOCRExtractEngineError(t *testing.T) {
	engine := &fakeEngine{err: errors.New("tesseract: language model missing")}
	ocr := &OCRExtractor{languages: []string{"deu", "eng"}, engine: engine}

	_, err := ocr.Extract(pngImage(t, 64, 64))
	if err == nil {
		t.Fatalf("Extract succeeded despite engine error")
	}
	if kind := KindOf(err); kind != KindUnreadableImage {
		t.Errorf("KindOf(err) = %q, want %q", kind, KindUnreadableImage)
	}
}
