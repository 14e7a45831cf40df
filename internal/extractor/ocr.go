package extractor

import (
	"bytes"
	"fmt"
	"image"

	// Decoders registered for image validation before OCR.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/otiai10/gosseract/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// minOCRDimension is the smallest width or height worth handing to the
// engine; anything below cannot contain legible glyphs.
const minOCRDimension = 8

// ocrEngine recognizes text in a rasterized image.
type ocrEngine interface {
	Recognize(image []byte) (string, error)
}

// OCRExtractor turns scanned images into text through a Tesseract engine
// loaded with a fixed language set.
type OCRExtractor struct {
	languages []string
	engine    ocrEngine
}

// NewOCRExtractor builds an extractor recognizing the given languages as a
// single joint model, in priority order.
func NewOCRExtractor(languages []string) *OCRExtractor {
	return &OCRExtractor{
		languages: languages,
		engine:    &tesseractEngine{languages: languages},
	}
}

// Extract runs OCR over image bytes. Undecodable, extremely small, and
// blank images fail as unreadable rather than succeeding with empty text.
func (o *OCRExtractor) Extract(data []byte) (string, error) {
	if err := validateImage(data); err != nil {
		return "", err
	}

	text, err := o.engine.Recognize(data)
	if err != nil {
		return "", WrapError(KindUnreadableImage, fmt.Sprintf("ocr engine: %v", err), err)
	}

	text = cleanText(text)
	if text == "" {
		return "", NewError(KindUnreadableImage, "ocr produced no text")
	}

	return text, nil
}

func validateImage(data []byte) error {
	if len(data) == 0 {
		return NewError(KindUnreadableImage, "empty image payload")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return WrapError(KindUnreadableImage, "undecodable image payload", err)
	}

	if cfg.Width < minOCRDimension || cfg.Height < minOCRDimension {
		return NewError(KindUnreadableImage,
			fmt.Sprintf("image too small for recognition (%dx%d %s)", cfg.Width, cfg.Height, format))
	}

	return nil
}

// tesseractEngine is the production engine. One client per call; gosseract
// clients are not safe for concurrent use.
type tesseractEngine struct {
	languages []string
}

func (e *tesseractEngine) Recognize(image []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", err
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", err
	}

	return client.Text()
}
