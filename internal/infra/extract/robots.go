package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
)

const (
	robotsTTL      = time.Hour
	robotsMaxBytes = 512 << 10
)

// robotsChecker caches parsed robots.txt per scheme and host for robotsTTL.
type robotsChecker struct {
	cache     *gocache.Cache
	client    *http.Client
	userAgent string
}

func newRobotsChecker(client *http.Client, userAgent string) *robotsChecker {
	return &robotsChecker{
		cache:     gocache.New(robotsTTL, 10*time.Minute),
		client:    client,
		userAgent: userAgent,
	}
}

// allowed reports whether target may be fetched. A robots.txt that cannot be
// read allows the fetch.
func (r *robotsChecker) allowed(ctx context.Context, target *url.URL) bool {
	data, err := r.load(ctx, target)
	if err != nil {
		return true
	}
	path := target.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, productToken(r.userAgent))
}

func (r *robotsChecker) load(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	key := target.Scheme + "://" + target.Host
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*robotstxt.RobotsData), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("build robots request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, robotsMaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	r.cache.SetDefault(key, data)
	return data, nil
}

// productToken trims "Name/1.0 (+info)" down to "Name" for group matching.
func productToken(ua string) string {
	fields := strings.Fields(ua)
	if len(fields) == 0 {
		return ua
	}
	return strings.SplitN(fields[0], "/", 2)[0]
}
