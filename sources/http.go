package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/brettbedarf/hierfs"
	"github.com/brettbedarf/hierfs/internal/util"
)

type HTTPMethod = string

const (
	HTTPMethodGet  HTTPMethod = "GET"
	HTTPMethodPost HTTPMethod = "POST"
)

// HTTPClient is the subset of *http.Client used by http sources
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSource contains http-specific source request fields
type HTTPSource struct {
	URL     string            `json:"url"`
	Method  *HTTPMethod       `json:"method,omitempty"` // Default is GET
	Headers map[string]string `json:"headers,omitempty"`
}

// HTTPProvider builds [HTTPContent] sources sharing one client
type HTTPProvider struct {
	client HTTPClient
}

func NewHTTPProvider(client HTTPClient) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{client: client}
}

func RegisterHTTP(r *Registry, client HTTPClient) {
	r.Register(HTTPSourceType, NewHTTPProvider(client))
}

// NewSource validates the definition. Only absolute http(s) URLs without
// user info are accepted.
func (p *HTTPProvider) NewSource(raw []byte) (hierfs.ContentSource, error) {
	var cfg HTTPSource
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	cfg.URL = strings.TrimSpace(cfg.URL)
	if err := validateURL(cfg.URL); err != nil {
		return nil, err
	}
	return &HTTPContent{config: &cfg, client: p.client}, nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("http source requires a url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	if u.User != nil {
		return fmt.Errorf("url %q must not contain user info", raw)
	}
	return nil
}

// HTTPContent implements [hierfs.ContentSource] by fetching a URL
type HTTPContent struct {
	config *HTTPSource
	client HTTPClient
}

func (h *HTTPContent) newRequest(ctx context.Context, method HTTPMethod) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, h.config.URL, nil)
	if err != nil {
		return nil, err
	}

	// Add custom headers
	for k, v := range h.config.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Content fetches the whole body. Non-2xx responses are errors.
func (h *HTTPContent) Content(ctx context.Context) ([]byte, error) {
	logger := util.GetLogger("HTTPContent")

	req, err := h.newRequest(ctx, h.getMethod())
	if err != nil {
		return nil, err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h.config.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", h.config.URL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", h.config.URL, err)
	}
	logger.Trace().Str("url", h.config.URL).Int("size", len(body)).Msg("Fetched http source")
	return body, nil
}

func (h *HTTPContent) getMethod() HTTPMethod {
	if h.config.Method != nil {
		return *h.config.Method
	}
	return HTTPMethodGet
}
