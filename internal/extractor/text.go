package extractor

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DecodeText decodes raw bytes by trying each named encoding in priority
// order, returning the decoded text and the name of the encoding that
// succeeded. UTF-8 is strict; undecodable bytes are never replaced silently.
// Unknown encoding names are skipped.
func DecodeText(data []byte, encodings []string) (string, string, error) {
	if len(data) == 0 {
		return "", "", NewError(KindDecodeFailure, "empty text payload")
	}

	// A UTF-8 BOM is an encoding marker, not content.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	for _, name := range encodings {
		text, ok := decodeWith(name, data)
		if !ok {
			continue
		}

		text = cleanText(text)
		if text == "" {
			return "", "", NewError(KindDecodeFailure, "no text content after decoding")
		}
		return text, name, nil
	}

	return "", "", NewError(KindDecodeFailure, "no configured encoding could decode the payload")
}

func decodeWith(name string, data []byte) (string, bool) {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		if utf8.Valid(data) {
			return string(data), true
		}
		return "", false

	case "latin-1", "latin1", "iso-8859-1":
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
		if err != nil {
			return "", false
		}
		return string(decoded), true

	case "cp1252", "windows-1252":
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return "", false
		}
		return string(decoded), true
	}

	return "", false
}

func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = strings.ReplaceAll(text, "\x00", "")

	lines := strings.Split(text, "\n")

	var cleanedLines []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	result := strings.Join(cleanedLines, "\n")

	return strings.TrimSpace(result)
}
