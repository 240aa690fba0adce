package content

import "context"

// Extractor turns a raw input of one kind into normalized text.
type Extractor interface {
	Extract(ctx context.Context, in RawInput) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, in RawInput) (string, error)

// Extract implements Extractor.
func (f ExtractorFunc) Extract(ctx context.Context, in RawInput) (string, error) {
	return f(ctx, in)
}
