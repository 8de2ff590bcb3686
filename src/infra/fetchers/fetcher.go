package fetchers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/contre95/lyr/src/music"
)

var (
	// ErrEmptyResponse is returned when a source answers with an empty body.
	ErrEmptyResponse = errors.New("empty response from lyrics source")
	// ErrNoMatches is returned when the extraction pattern matches nothing.
	ErrNoMatches = errors.New("no match found in source output")
	// ErrTransport wraps network and HTTP client failures.
	ErrTransport = errors.New("lyrics request failed")
)

const (
	// DefaultTimeout bounds a single source request.
	DefaultTimeout   = 10 * time.Second
	defaultUserAgent = "lyr/1.0"
	maxBodyBytes     = 5 << 20
)

// Client fetches lyrics from registered sources, one request per call.
type Client struct {
	registry   *Registry
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent to sources.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new fetch client over the given registry.
func NewClient(registry *Registry, opts ...Option) *Client {
	c := &Client{
		registry:   registry,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sources describes every registered source, keyed by identifier.
func (c *Client) Sources() map[string]music.LyricsProviderInfo {
	infos := make(map[string]music.LyricsProviderInfo)
	for _, id := range c.registry.IDs() {
		s, _ := c.registry.Get(id)
		infos[id] = music.LyricsProviderInfo{
			Name:        s.ID,
			DisplayName: s.DisplayName,
			URLTemplate: s.URLTemplate,
		}
	}
	return infos
}

// Fetch queries a single source and returns the extracted lyrics.
func (c *Client) Fetch(ctx context.Context, sourceID string, params music.LyricsSearchParams) (string, error) {
	source, err := c.registry.Get(sourceID)
	if err != nil {
		return "", err
	}

	slog.Info("Using fetcher", "source", source.DisplayName)
	url := source.URL(params.Title, params.Artist)

	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	if body == "" {
		return "", ErrEmptyResponse
	}

	raw := Extract(source.Pattern, body)
	if raw == "" {
		return "", ErrNoMatches
	}

	if !source.PostProcess {
		return raw, nil
	}

	lyrics, err := postProcess(raw)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(lyrics) == "" {
		return "", fmt.Errorf("%w: extracted text is blank", ErrNoMatches)
	}
	return lyrics, nil
}

// Extract concatenates every first capture group of pattern in the trimmed body, in order.
func Extract(pattern *regexp.Regexp, body string) string {
	var sb strings.Builder
	for _, match := range pattern.FindAllStringSubmatch(strings.TrimSpace(body), -1) {
		if len(match) > 1 {
			sb.WriteString(match[1])
		}
	}
	return sb.String()
}

func postProcess(raw string) (string, error) {
	// Source newlines would interfere with the <br> conversion.
	raw = strings.NewReplacer("\r", "", "\n", "").Replace(raw)

	lyrics, err := Normalize(raw)
	if err != nil {
		return "", fmt.Errorf("failed to normalize lyrics: %w", err)
	}
	if lyrics != "" && !strings.HasSuffix(lyrics, "\n") {
		lyrics += "\n"
	}
	return lyrics, nil
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	slog.Debug("Lyrics source responded", "url", url, "status", resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}
	return string(data), nil
}
