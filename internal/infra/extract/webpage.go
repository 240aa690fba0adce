package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"mvdan.cc/xurls/v2"

	"github.com/yanqian/content-digest/internal/domain/content"
	apperrors "github.com/yanqian/content-digest/pkg/errors"
)

const (
	defaultWebTimeout   = 15 * time.Second
	defaultWebMaxBytes  = 5 << 20
	defaultUserAgent    = "ContentDigest/1.0 (+https://github.com/yanqian/content-digest)"
	maxRedirects        = 5
	nonContentSelectors = "script, style, iframe, noscript, svg, template"
)

// WebPageConfig tunes the direct fetch.
type WebPageConfig struct {
	Timeout       time.Duration
	MaxBytes      int64
	UserAgent     string
	RespectRobots bool
}

// WebPage fetches raw markup over HTTP and reads its visible text.
type WebPage struct {
	cfg    WebPageConfig
	client *http.Client
	robots *robotsChecker
	logger *slog.Logger
}

// NewWebPage builds the extractor with its own HTTP client.
func NewWebPage(cfg WebPageConfig, logger *slog.Logger) *WebPage {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultWebTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultWebMaxBytes
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaultUserAgent
	}
	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	w := &WebPage{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "extract.webpage"),
	}
	if cfg.RespectRobots {
		w.robots = newRobotsChecker(client, cfg.UserAgent)
	}
	return w
}

// Extract implements content.Extractor.
func (w *WebPage) Extract(ctx context.Context, in content.RawInput) (string, error) {
	if strings.TrimSpace(in.Text) == "" {
		return "", apperrors.Wrap(content.CodeInvalidInput, "page address is empty", nil)
	}
	target, err := resolveURL(in.Text)
	if err != nil {
		return "", apperrors.Wrap(content.CodeInvalidReference, "page address is not a web url", err)
	}
	if w.robots != nil && !w.robots.allowed(ctx, target) {
		return "", apperrors.Wrap(content.CodeFetchFailed, "fetch disallowed by robots.txt", nil)
	}

	body, err := w.fetch(ctx, target)
	if err != nil {
		w.logger.Warn("page fetch failed", "host", target.Host, "error", err)
		return "", apperrors.Wrap(content.CodeFetchFailed, "page fetch failed", err)
	}
	text, err := pageText(body)
	if err != nil {
		return "", apperrors.Wrap(content.CodeFetchFailed, "page markup could not be parsed", err)
	}
	if text == "" {
		return "", apperrors.Wrap(content.CodeEmptyContent, "page has no visible text", nil)
	}
	w.logger.Debug("page extracted", "host", target.Host, "bytes", len(body), "words", content.WordCount(text))
	return text, nil
}

func (w *WebPage) fetch(ctx context.Context, target *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("User-Agent", w.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("page request error: status=%d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, w.cfg.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read page body: %w", err)
	}
	return body, nil
}

// resolveURL accepts a bare URL, a host without scheme, or prose containing a URL.
func resolveURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	candidate := raw
	if strings.ContainsAny(raw, " \t\r\n") || !strings.Contains(raw, "://") {
		if found := xurls.Strict().FindString(raw); found != "" {
			candidate = found
		} else if found := xurls.Relaxed().FindString(raw); found != "" {
			candidate = "https://" + found
		}
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host")
	}
	return u, nil
}

// pageText drops non-content nodes and returns the normalized visible text,
// prefixed by the document title when the body does not already carry it.
func pageText(markup []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(markup)))
	if err != nil {
		return "", err
	}
	doc.Find(nonContentSelectors).Remove()

	text := content.Normalize(visibleText(doc.Find("body").Nodes))
	if text == "" {
		return "", nil
	}
	title := content.Normalize(doc.Find("title").First().Text())
	if title != "" && !strings.Contains(text, title) {
		text = title + " " + text
	}
	return text, nil
}

func visibleText(nodes []*html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return b.String()
}

var _ content.Extractor = (*WebPage)(nil)
