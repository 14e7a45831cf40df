package extractor

import (
	"fmt"
	"strings"

	"document-extraction-service/internal/utils"
)

// pdfPayload is what one strategy attempt produces: full text, page count
// (0 when the strategy cannot tell), and backend-shaped metadata.
type pdfPayload struct {
	text     string
	pages    int
	metadata map[string]string
}

// pdfStrategy is one complete extraction attempt under a single contract.
// The chain is a plain ordered walk over these, not a hierarchy.
type pdfStrategy struct {
	name string
	fn   func(data []byte) (pdfPayload, error)
}

// PDFResult is the outcome of a successful chain run.
type PDFResult struct {
	Text     string
	Pages    int
	Method   string
	Metadata map[string]string
}

// PDFChain tries extraction strategies in fixed order until one yields
// usable text: the general-purpose reader first, then the MuPDF renderer,
// then the raw content-stream scan.
type PDFChain struct {
	strategies []pdfStrategy
	logger     *utils.Logger
}

func NewPDFChain(logger *utils.Logger) *PDFChain {
	return &PDFChain{
		strategies: []pdfStrategy{
			{name: "pdfreader", fn: extractWithPDFReader},
			{name: "fitz", fn: extractWithFitz},
			{name: "pdfcpu", fn: extractWithContentStreams},
		},
		logger: logger,
	}
}

// Extract runs the chain over data. The first strategy producing
// non-whitespace text wins; parsing without text counts as a failure and the
// chain proceeds. When every strategy is exhausted the returned error is
// classified from the last real failure, or as unsupported structure when
// all strategies parsed but none found text.
func (c *PDFChain) Extract(data []byte) (*PDFResult, error) {
	var lastErr error

	for _, strategy := range c.strategies {
		payload, err := attempt(strategy, data)
		if err != nil {
			c.logger.Warn("PDF strategy failed", "strategy", strategy.name, "error", err)
			lastErr = err
			continue
		}

		if strings.TrimSpace(payload.text) == "" {
			c.logger.Warn("PDF strategy produced no text", "strategy", strategy.name)
			continue
		}

		// The trailer walk runs regardless of which strategy won; the
		// winner's own metadata takes precedence key by key.
		metadata := NormalizeMetadata(readInfoDict(data))
		for key, value := range NormalizeMetadata(payload.metadata) {
			metadata[key] = value
		}

		return &PDFResult{
			Text:     payload.text,
			Pages:    payload.pages,
			Method:   strategy.name,
			Metadata: metadata,
		}, nil
	}

	return nil, classifyPDFError(lastErr)
}

// Metadata reads document metadata without extracting text. Best-effort:
// unreadable documents yield an empty map.
func (c *PDFChain) Metadata(data []byte) map[string]string {
	return NormalizeMetadata(readInfoDict(data))
}

// attempt runs one strategy with panic containment; the parsing libraries
// can panic on malformed input and that must never abort the chain.
func attempt(strategy pdfStrategy, data []byte) (payload pdfPayload, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", strategy.name, r)
		}
	}()

	return strategy.fn(data)
}
