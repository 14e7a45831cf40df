package extractor

import (
	"bytes"
	"path/filepath"
	"strings"

	"document-extraction-service/internal/models"
)

// DetectKind classifies a payload from its filename, declared MIME type, and
// content, in that order. The extension wins when it and the MIME type
// disagree; content sniffing is the last resort before KindUnknown.
func DetectKind(filename, mimeType string, content []byte) models.DocumentKind {
	if kind := kindFromExtension(filename); kind != models.KindUnknown {
		return kind
	}
	if kind := kindFromMimeType(mimeType); kind != models.KindUnknown {
		return kind
	}
	return kindFromContent(content)
}

func kindFromExtension(filename string) models.DocumentKind {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return models.KindPDF
	case ".txt", ".md", ".markdown", ".csv", ".log", ".text":
		return models.KindText
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return models.KindImage
	}

	return models.KindUnknown
}

func kindFromMimeType(mimeType string) models.DocumentKind {
	// Strip parameters such as "; charset=utf-8".
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))

	switch {
	case mimeType == "application/pdf":
		return models.KindPDF
	case strings.HasPrefix(mimeType, "text/"):
		return models.KindText
	case strings.HasPrefix(mimeType, "image/"):
		return models.KindImage
	}

	return models.KindUnknown
}

func kindFromContent(content []byte) models.DocumentKind {
	if len(content) == 0 {
		return models.KindUnknown
	}

	if bytes.HasPrefix(content, []byte("%PDF-")) {
		return models.KindPDF
	}
	if looksLikeImage(content) {
		return models.KindImage
	}
	if looksLikeText(content) {
		return models.KindText
	}

	return models.KindUnknown
}

var imageSignatures = [][]byte{
	[]byte("\x89PNG\r\n\x1a\n"),
	{0xFF, 0xD8, 0xFF}, // JPEG
	[]byte("GIF8"),
	[]byte("BM"),
	[]byte("II*\x00"), // TIFF little-endian
	[]byte("MM\x00*"), // TIFF big-endian
}

func looksLikeImage(content []byte) bool {
	for _, sig := range imageSignatures {
		if bytes.HasPrefix(content, sig) {
			return true
		}
	}
	// WebP: RIFF container with a WEBP fourcc.
	return len(content) >= 12 &&
		bytes.HasPrefix(content, []byte("RIFF")) &&
		bytes.Equal(content[8:12], []byte("WEBP"))
}

// looksLikeText reports whether a sample of the content is mostly printable
// or whitespace characters.
func looksLikeText(content []byte) bool {
	sampleSize := 512
	if len(content) < sampleSize {
		sampleSize = len(content)
	}

	printableCount := 0
	for i := 0; i < sampleSize; i++ {
		b := content[i]
		if (b >= 32 && b <= 126) || b == '\t' || b == '\n' || b == '\r' {
			printableCount++
		}
	}

	return float64(printableCount)/float64(sampleSize) >= 0.8
}
