package extractor

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// extractWithFitz renders the document through MuPDF, which tolerates
// structures the plain reader rejects. Page indexes are zero-based here.
func extractWithFitz(data []byte) (pdfPayload, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return pdfPayload{}, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()

	var textBuilder strings.Builder

	for i := 0; i < numPages; i++ {
		text, err := doc.Text(i)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return pdfPayload{
		text:     strings.TrimSpace(textBuilder.String()),
		pages:    numPages,
		metadata: doc.Metadata(),
	}, nil
}
