package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/yanqian/content-digest/internal/domain/content"
)

// ResultCache stores successful results keyed by an input digest.
// Raw inputs are never stored.
type ResultCache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, result Result, ttl time.Duration) error
}

func cacheKey(kind content.SourceKind, strategy string, in content.RawInput) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(strategy))
	h.Write([]byte{0})
	h.Write([]byte(in.Text))
	h.Write([]byte{0})
	h.Write(in.Data)
	return "summary:" + hex.EncodeToString(h.Sum(nil))
}
