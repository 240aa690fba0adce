package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/yanqian/content-digest/internal/domain/content"
	apperrors "github.com/yanqian/content-digest/pkg/errors"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

var watchHosts = map[string]struct{}{
	"youtube.com":       {},
	"www.youtube.com":   {},
	"m.youtube.com":     {},
	"music.youtube.com": {},
}

// pathPrefixes hold the ID in the following path segment.
var pathPrefixes = []string{"/shorts/", "/embed/", "/live/"}

// Video summarizes a video from its catalog title and description.
type Video struct {
	catalog content.VideoCatalog
	logger  *slog.Logger
}

// NewVideo wires the extractor to a catalog.
func NewVideo(catalog content.VideoCatalog, logger *slog.Logger) *Video {
	return &Video{catalog: catalog, logger: logger.With("component", "extract.video")}
}

// Extract implements content.Extractor.
func (v *Video) Extract(ctx context.Context, in content.RawInput) (string, error) {
	if strings.TrimSpace(in.Text) == "" {
		return "", apperrors.Wrap(content.CodeInvalidInput, "video reference is empty", nil)
	}
	id, ok := ParseVideoID(in.Text)
	if !ok {
		return "", apperrors.Wrap(content.CodeInvalidReference, "no video id in reference", nil)
	}
	if v.catalog == nil {
		return "", apperrors.Wrap(content.CodeLookupFailed, "video catalog is not configured", nil)
	}

	meta, err := v.catalog.Lookup(ctx, id)
	if err != nil {
		v.logger.Warn("video lookup failed", "video_id", id, "error", err)
		return "", apperrors.Wrap(content.CodeLookupFailed, fmt.Sprintf("video %s lookup failed", id), err)
	}
	text := content.Normalize(meta.Title + "\n\n" + meta.Description)
	if text == "" {
		return "", apperrors.Wrap(content.CodeEmptyContent, "video has no title or description", nil)
	}
	return text, nil
}

// ParseVideoID finds the 11 character id in a watch, short-link, shorts,
// embed or live URL. A missing scheme is tolerated.
func ParseVideoID(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if !strings.Contains(ref, "://") {
		ref = "https://" + ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())

	var candidate string
	switch {
	case host == "youtu.be" || host == "www.youtu.be":
		candidate = firstSegment(u.Path)
	case isWatchHost(host):
		if u.Path == "/watch" {
			candidate = u.Query().Get("v")
			break
		}
		for _, prefix := range pathPrefixes {
			if strings.HasPrefix(u.Path, prefix) {
				candidate = firstSegment(strings.TrimPrefix(u.Path, prefix))
				break
			}
		}
	}
	if !videoIDPattern.MatchString(candidate) {
		return "", false
	}
	return candidate, true
}

func isWatchHost(host string) bool {
	_, ok := watchHosts[host]
	return ok
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

var _ content.Extractor = (*Video)(nil)
