package extractor

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractWithContentStreams is the last-resort strategy: it reads raw page
// content streams under relaxed validation and scans the text-showing
// operators directly. Most tolerant of damaged documents, weakest fidelity,
// since spacing and glyph ordering may be lost.
func extractWithContentStreams(data []byte) (pdfPayload, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return pdfPayload{}, fmt.Errorf("pdfcpu read: %w", err)
	}

	var pageTexts []string

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		content, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || content == nil {
			continue
		}
		raw, err := io.ReadAll(content)
		if err != nil || len(raw) == 0 {
			continue
		}

		if pageText := scanContentStream(raw); pageText != "" {
			pageTexts = append(pageTexts, pageText)
		}
	}

	return pdfPayload{
		text:  strings.Join(pageTexts, "\n"),
		pages: ctx.PageCount,
	}, nil
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// scanContentStream walks a content stream line by line and collects the
// arguments of the text-showing operators Tj, TJ and '. Positioning
// operators contribute whitespace so words do not run together.
func scanContentStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		// (text) Tj
		if bytes.HasSuffix(line, []byte("Tj")) {
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}
		}

		// [(text) -100 (more text)] TJ
		if bytes.HasSuffix(line, []byte("TJ")) {
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}
		}

		// (text) '  — move to next line and show text
		if bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")) {
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(decodePDFString(m[1]))
			}
		}

		// Td/TD reposition the text cursor
		if bytes.HasSuffix(line, []byte("Td")) || bytes.HasSuffix(line, []byte("TD")) {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		}

		// T* moves to the start of the next line
		if bytes.Equal(line, []byte("T*")) {
			sb.WriteByte('\n')
		}
	}

	return collapseWhitespace(sb.String())
}

// decodePDFString resolves the escape sequences of a PDF string literal,
// including octal escapes such as \050.
func decodePDFString(raw []byte) string {
	var sb strings.Builder

	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}

		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}

	return sb.String()
}

// collapseWhitespace squeezes runs of whitespace to single spaces and drops
// non-printable runes.
func collapseWhitespace(text string) string {
	var sb strings.Builder
	prevSpace := false

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			prevSpace = false
		}
	}

	return strings.TrimSpace(sb.String())
}
