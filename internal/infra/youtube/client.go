package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/yanqian/content-digest/internal/domain/content"
)

const defaultTimeout = 10 * time.Second

// ErrNotFound is returned when the catalog has no video for the id.
var ErrNotFound = errors.New("video not found")

// Config holds the Data API settings. Endpoint overrides the public API base.
type Config struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// Client looks up video metadata through the YouTube Data API.
type Client struct {
	svc     *yt.Service
	timeout time.Duration
}

// NewClient builds an API client. Extra options are appended after the key
// and endpoint, which lets tests inject an HTTP client.
func NewClient(ctx context.Context, cfg Config, extra ...option.ClientOption) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.New("youtube api key cannot be empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts := []option.ClientOption{option.WithAPIKey(key)}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(endpoint, "/")+"/"))
	}
	opts = append(opts, extra...)

	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Client{svc: svc, timeout: timeout}, nil
}

// Lookup implements content.VideoCatalog.
func (c *Client) Lookup(ctx context.Context, id string) (content.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Videos.List([]string{"snippet"}).Id(id).Context(ctx).Do()
	if err != nil {
		return content.Video{}, fmt.Errorf("youtube videos.list failed: %s", describe(err))
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return content.Video{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	snippet := resp.Items[0].Snippet
	return content.Video{
		ID:          id,
		Title:       snippet.Title,
		Description: snippet.Description,
	}, nil
}

// describe keeps the status and reason of API errors, e.g. quotaExceeded.
func describe(err error) string {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		reason := ""
		if len(apiErr.Errors) > 0 {
			reason = apiErr.Errors[0].Reason
		}
		if reason == "" && apiErr.Code == http.StatusForbidden {
			reason = "forbidden"
		}
		return fmt.Sprintf("status=%d reason=%s", apiErr.Code, reason)
	}
	return err.Error()
}

var _ content.VideoCatalog = (*Client)(nil)
