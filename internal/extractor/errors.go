package extractor

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies why an extraction could not produce text. The kind
// is the stable, machine-readable prefix of the result's error string.
type FailureKind string

const (
	KindUnsupportedType         FailureKind = "unsupported-type"
	KindDecodeFailure           FailureKind = "decode-failure"
	KindPDFEncrypted            FailureKind = "pdf-encrypted"
	KindPDFCorrupted            FailureKind = "pdf-corrupted"
	KindPDFUnsupportedStructure FailureKind = "pdf-unsupported-structure"
	KindPDFUnknown              FailureKind = "pdf-unknown"
	KindUnreadableImage         FailureKind = "unreadable-image"
	KindInternal                FailureKind = "internal-error"
)

// Error is a classified extraction failure.
type Error struct {
	Kind    FailureKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewError(kind FailureKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind FailureKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf reports the failure kind carried by err, or KindInternal when err
// did not originate in this package.
func KindOf(err error) FailureKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// classifyPDFError maps the last error seen by the strategy chain onto the
// PDF failure taxonomy by inspecting the message. lastErr == nil means every
// strategy parsed the document but none found text.
func classifyPDFError(lastErr error) *Error {
	if lastErr == nil {
		return NewError(KindPDFUnsupportedStructure, "document parsed but no strategy produced text")
	}

	msg := strings.ToLower(lastErr.Error())

	switch {
	case strings.Contains(msg, "encrypt") || strings.Contains(msg, "password"):
		return WrapError(KindPDFEncrypted, lastErr.Error(), lastErr)
	case strings.Contains(msg, "xref") ||
		strings.Contains(msg, "trailer") ||
		strings.Contains(msg, "eof") ||
		strings.Contains(msg, "corrupt") ||
		strings.Contains(msg, "malformed") ||
		strings.Contains(msg, "pdf header"):
		return WrapError(KindPDFCorrupted, lastErr.Error(), lastErr)
	default:
		return WrapError(KindPDFUnknown, lastErr.Error(), lastErr)
	}
}
