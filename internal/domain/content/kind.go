package content

import (
	"fmt"
	"strings"
)

// SourceKind tags the input so the pipeline can pick an extractor.
type SourceKind string

const (
	KindPlainText      SourceKind = "text"
	KindWebPage        SourceKind = "webpage"
	KindDocument       SourceKind = "document"
	KindVideoReference SourceKind = "video"
)

// Kinds lists every supported kind in a stable order.
func Kinds() []SourceKind {
	return []SourceKind{KindPlainText, KindWebPage, KindDocument, KindVideoReference}
}

// ParseSourceKind maps user supplied names (and a few aliases) onto a SourceKind.
func ParseSourceKind(raw string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "text", "plain", "plaintext":
		return KindPlainText, nil
	case "webpage", "web", "url":
		return KindWebPage, nil
	case "document", "pdf":
		return KindDocument, nil
	case "video", "youtube":
		return KindVideoReference, nil
	default:
		return "", fmt.Errorf("unknown source kind %q", raw)
	}
}

// Valid reports whether k is one of the supported kinds.
func (k SourceKind) Valid() bool {
	switch k {
	case KindPlainText, KindWebPage, KindDocument, KindVideoReference:
		return true
	}
	return false
}

// RawInput is the request-scoped payload handed to an extractor.
// Text carries text, URLs and video references; Data carries document bytes.
type RawInput struct {
	Text     string
	Data     []byte
	Filename string
}

// IsEmpty reports whether the input carries nothing at all.
func (in RawInput) IsEmpty() bool {
	return strings.TrimSpace(in.Text) == "" && len(in.Data) == 0
}
