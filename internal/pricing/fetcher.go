package pricing

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"

	"tokencost/internal/core"
)

// DefaultCatalogURL is the published per-model pricing catalog: a JSON object
// keyed by model name.
const DefaultCatalogURL = "https://raw.githubusercontent.com/BerriAI/litellm/main/model_prices_and_context_window.json"

// maxCatalogBody caps the catalog download size. The published catalog is
// around 2 MB; anything past this limit is rejected as malformed.
const maxCatalogBody = 20 * 1024 * 1024

// Source fetches and validates the pricing catalog from the remote endpoint.
// A Source has no caching side effects: every Fetch re-downloads.
type Source struct {
	url    string
	client *http.Client
}

// NewSource creates a catalog source for the given URL. An empty URL falls
// back to DefaultCatalogURL. The client must not be nil.
func NewSource(url string, client *http.Client) *Source {
	if url == "" {
		url = DefaultCatalogURL
	}
	return &Source{url: url, client: client}
}

// URL returns the catalog endpoint this source fetches from.
func (s *Source) URL() string { return s.url }

// Fetch downloads and validates the catalog. Returns the validated catalog
// and the raw (decompressed) body bytes for snapshot persistence.
// Fails with a network_error when the request errors or returns a non-success
// status, and with a parse_error when the body is not a JSON object. Entries
// failing schema validation are dropped, not fatal.
func (s *Source) Fetch(ctx context.Context) (core.Catalog, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, nil, core.NewNetworkError("creating catalog request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, core.NewNetworkError("fetching pricing catalog", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, core.NewNetworkError(
			fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, s.url), nil)
	}

	body, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, nil, core.NewNetworkError("reading catalog body", err)
	}

	catalog, skipped, err := ParseCatalog(body)
	if err != nil {
		return nil, nil, err
	}
	if skipped > 0 {
		slog.Debug("dropped catalog entries failing schema validation", "skipped", skipped)
	}

	return catalog, body, nil
}

// decodeBody reads the response body with a size limit, decompressing gzip
// and brotli encodings. Setting Accept-Encoding manually disables the
// transport's automatic gzip handling, so both encodings are handled here.
func decodeBody(body io.Reader, contentEncoding string) ([]byte, error) {
	encoding := strings.TrimSpace(strings.Split(contentEncoding, ",")[0])
	switch strings.ToLower(encoding) {
	case "gzip":
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("opening gzip body: %w", err)
		}
		defer gz.Close()
		body = gz
	case "br":
		body = brotli.NewReader(body)
	case "", "identity":
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}

	raw, err := io.ReadAll(io.LimitReader(body, maxCatalogBody+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > maxCatalogBody {
		return nil, fmt.Errorf("catalog body exceeds %d bytes", maxCatalogBody)
	}
	return raw, nil
}
