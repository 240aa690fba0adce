package extract

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/yanqian/content-digest/internal/domain/content"
	apperrors "github.com/yanqian/content-digest/pkg/errors"
)

// PlainText passes user supplied text through the normalizer.
type PlainText struct{}

// NewPlainText is a wire provider.
func NewPlainText() *PlainText {
	return &PlainText{}
}

// Extract implements content.Extractor.
func (PlainText) Extract(_ context.Context, in content.RawInput) (string, error) {
	raw := in.Text
	if raw == "" && len(in.Data) > 0 {
		raw = string(in.Data)
	}
	if strings.TrimSpace(raw) == "" {
		return "", apperrors.Wrap(content.CodeInvalidInput, "text is empty", nil)
	}
	if !utf8.ValidString(raw) {
		return "", apperrors.Wrap(content.CodeInvalidInput, "text is not valid utf-8", nil)
	}
	text := content.Normalize(raw)
	if text == "" {
		return "", apperrors.Wrap(content.CodeEmptyContent, "text has no printable characters", nil)
	}
	return text, nil
}

var _ content.Extractor = PlainText{}
