package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/yanqian/content-digest/internal/domain/content"
	apperrors "github.com/yanqian/content-digest/pkg/errors"
)

const defaultDocumentMaxBytes = 20 << 20

var pdfMagic = []byte("%PDF-")

// Document reads the text runs of an uploaded PDF.
type Document struct {
	maxBytes int64
}

// NewDocument caps accepted documents at maxBytes (20 MiB when unset).
func NewDocument(maxBytes int64) *Document {
	if maxBytes <= 0 {
		maxBytes = defaultDocumentMaxBytes
	}
	return &Document{maxBytes: maxBytes}
}

// Extract implements content.Extractor.
func (d *Document) Extract(_ context.Context, in content.RawInput) (string, error) {
	if len(in.Data) == 0 {
		return "", apperrors.Wrap(content.CodeInvalidInput, "document is empty", nil)
	}
	if int64(len(in.Data)) > d.maxBytes {
		return "", apperrors.Wrap(content.CodeUnreadableDocument, fmt.Sprintf("document exceeds %d bytes", d.maxBytes), nil)
	}
	if !bytes.HasPrefix(in.Data, pdfMagic) {
		return "", apperrors.Wrap(content.CodeUnreadableDocument, "document is not a pdf", nil)
	}

	pages, err := readPDF(in.Data)
	if err != nil {
		return "", apperrors.Wrap(content.CodeUnreadableDocument, "document could not be decoded", err)
	}
	text := content.Normalize(strings.Join(pages, "\n\n"))
	if text == "" {
		return "", apperrors.Wrap(content.CodeEmptyContent, "document has no extractable text", nil)
	}
	return text, nil
}

// readPDF returns the plain text of each page in order. The decoder panics
// on some malformed inputs, so panics are turned into errors.
func readPDF(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf decoder panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdf reader: %w", err)
	}
	total := r.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("pdf page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

var _ content.Extractor = (*Document)(nil)
