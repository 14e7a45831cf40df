package extractor

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// infoDictKeys are the document information dictionary entries worth keeping.
var infoDictKeys = []string{
	"Title", "Author", "Subject", "Keywords",
	"Creator", "Producer", "CreationDate", "ModDate",
}

// infoDictFrom reads the trailer's Info dictionary from an open reader.
// Values go through Text(), which resolves PDFDocEncoding and UTF-16BE.
func infoDictFrom(reader *pdf.Reader) map[string]string {
	meta := map[string]string{}

	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}

	for _, key := range infoDictKeys {
		val := info.Key(key)
		if val.IsNull() {
			continue
		}
		if text := val.Text(); text != "" {
			meta[key] = text
		}
	}

	return meta
}

// readInfoDict opens data just for its Info dictionary. Metadata is
// best-effort: parse failures and library panics yield an empty map.
func readInfoDict(data []byte) (meta map[string]string) {
	meta = map[string]string{}

	defer func() {
		if r := recover(); r != nil {
			meta = map[string]string{}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return meta
	}

	return infoDictFrom(reader)
}

// NormalizeMetadata maps backend-shaped metadata keys onto the flat schema
// (title, author, subject, keywords, creator, producer, creation_date,
// modification_date). Keys it cannot place and empty values are dropped.
// Nil input yields an empty, non-nil map.
func NormalizeMetadata(raw map[string]string) map[string]string {
	normalized := map[string]string{}

	for key, value := range raw {
		name := normalizeMetadataKey(key)
		if name == "" {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		normalized[name] = value
	}

	return normalized
}

// normalizeMetadataKey resolves the Info dictionary form ("/Title",
// "ModDate") and the lowercase map form ("title", "modDate") to one name.
// Unknown keys map to "".
func normalizeMetadataKey(key string) string {
	key = strings.TrimPrefix(key, "/")

	switch strings.ToLower(key) {
	case "title":
		return "title"
	case "author":
		return "author"
	case "subject":
		return "subject"
	case "keywords":
		return "keywords"
	case "creator":
		return "creator"
	case "producer":
		return "producer"
	case "creationdate", "creation_date":
		return "creation_date"
	case "moddate", "modificationdate", "modification_date":
		return "modification_date"
	}

	return ""
}
