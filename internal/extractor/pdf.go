package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractWithPDFReader is the general-purpose fast path. It walks the text
// layer page by page and fails on encrypted or structurally unusual
// documents. Blank output with a nil error means the document parsed but
// carries no extractable text.
func extractWithPDFReader(data []byte) (pdfPayload, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return pdfPayload{}, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	numPages := reader.NumPage()
	fonts := make(map[string]*pdf.Font)

	var textBuilder strings.Builder

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}

		text, err := page.GetPlainText(fonts)
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
		metadata: infoDictFrom(reader),
	}, nil
}
