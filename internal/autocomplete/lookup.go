package autocomplete

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/nhath/ezcomplete/internal/dom"
)

// Fetcher issues lookups. onLoad runs on the document's loop and only for
// successful responses.
type Fetcher interface {
	Fetch(target string, onLoad func([]Match))
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(target string, onLoad func([]Match))

// Fetch calls f(target, onLoad).
func (f FetcherFunc) Fetch(target string, onLoad func([]Match)) {
	f(target, onLoad)
}

// ErrNotArray is returned when a lookup response body is not a JSON array.
var ErrNotArray = errors.New("lookup response is not a JSON array")

// StatusError reports a non-2xx lookup response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lookup %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// componentUnescaper undoes the escapes url.QueryEscape adds beyond
// encodeURIComponent: '+' for space and the marks ! ' ( ) *.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeQuery escapes a query for appending to an endpoint template, with
// encodeURIComponent semantics: letters, digits and - _ . ! ~ * ' ( ) are
// kept, spaces become %20.
func EncodeQuery(q string) string {
	return componentUnescaper.Replace(url.QueryEscape(q))
}

// HTTPFetcherConfig holds configuration for an HTTPFetcher.
type HTTPFetcherConfig struct {
	// Origin resolves relative targets such as "/countries?matching=".
	Origin string

	// Loop receives completion callbacks. Defaults to dom.Immediate.
	Loop dom.Loop

	// Client defaults to a go-cleanhttp client, which has no overall
	// timeout.
	Client *http.Client

	Logger *log.Logger
}

// HTTPFetcher performs lookups with HTTP GET and decodes a JSON array of
// matches. Failed lookups are logged and dropped; the callback never runs
// for them. In-flight requests are not cancelled or sequenced.
type HTTPFetcher struct {
	client *http.Client
	origin *url.URL
	loop   dom.Loop
	logger *log.Logger
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher(cfg HTTPFetcherConfig) (*HTTPFetcher, error) {
	f := &HTTPFetcher{
		client: cfg.Client,
		loop:   cfg.Loop,
		logger: cfg.Logger,
	}
	if f.client == nil {
		f.client = cleanhttp.DefaultClient()
	}
	if f.loop == nil {
		f.loop = dom.Immediate
	}
	if f.logger == nil {
		f.logger = log.New(io.Discard)
	}
	if cfg.Origin != "" {
		u, err := url.Parse(cfg.Origin)
		if err != nil {
			return nil, fmt.Errorf("invalid lookup origin %q: %w", cfg.Origin, err)
		}
		if !u.IsAbs() {
			return nil, fmt.Errorf("lookup origin %q must be absolute", cfg.Origin)
		}
		f.origin = u
	}
	return f, nil
}

// Fetch implements Fetcher. The request runs on its own goroutine.
func (f *HTTPFetcher) Fetch(target string, onLoad func([]Match)) {
	go func() {
		matches, _, err := f.Get(context.Background(), target)
		if err != nil {
			f.logger.Debug("lookup failed", "url", target, "err", err)
			return
		}
		f.logger.Debug("lookup loaded", "url", target, "matches", len(matches))
		f.loop.Post(func() {
			onLoad(matches)
		})
	}()
}

// Get performs one lookup synchronously and returns the decoded matches
// together with the raw body.
func (f *HTTPFetcher) Get(ctx context.Context, target string) ([]Match, []byte, error) {
	u, err := f.resolve(target)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read lookup response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, body, &StatusError{URL: u, Code: resp.StatusCode}
	}

	matches, err := DecodeMatches(body)
	if err != nil {
		return nil, body, err
	}
	return matches, body, nil
}

func (f *HTTPFetcher) resolve(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid lookup url %q: %w", target, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	if f.origin == nil {
		return "", fmt.Errorf("relative lookup url %q without an origin", target)
	}
	return f.origin.ResolveReference(u).String(), nil
}

// DecodeMatches parses a JSON array of match records.
func DecodeMatches(body []byte) ([]Match, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}
	matches := []Match{}
	if err := json.Unmarshal(trimmed, &matches); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	return matches, nil
}
