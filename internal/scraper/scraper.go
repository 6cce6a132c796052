package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/dp-headlines/internal/headline"
	"github.com/pfrederiksen/dp-headlines/internal/markup"
)

const (
	HomepageURL = "https://www.thedp.com/"
	UserAgent   = "dp-headlines/1.0 (github.com/pfrederiksen/dp-headlines)"
	Timeout     = 30 * time.Second
)

// FetchError reports a transport failure, timeout, or non-OK response
type FetchError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Timeout reports whether the fetch failed because a deadline was exceeded
func (e *FetchError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(e.Err, &te) && te.Timeout()
}

// ParseError reports a response body that could not be parsed as markup
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Result is the outcome of a successful fetch and extraction
type Result struct {
	URL        string // final URL after redirects
	StatusCode int
	Headlines  []headline.Record
	Found      bool // false when the page has no featured section
}

// Scraper handles fetching and parsing the homepage
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithURL overrides the homepage URL
func WithURL(url string) Option {
	return func(s *Scraper) { s.url = url }
}

// WithTimeout bounds the whole request, including reading the body
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.client.Timeout = d }
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(s *Scraper) { s.userAgent = ua }
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url:       HomepageURL,
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the page the scraper fetches
func (s *Scraper) URL() string {
	return s.url
}

// Fetch downloads the homepage and returns its body, final URL and status code
func (s *Scraper) Fetch(ctx context.Context) ([]byte, string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, s.url, 0, &FetchError{URL: s.url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.url, 0, &FetchError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	finalURL := s.url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	if resp.StatusCode != http.StatusOK {
		return nil, finalURL, resp.StatusCode, &FetchError{
			URL:        finalURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, finalURL, resp.StatusCode, &FetchError{URL: finalURL, Err: fmt.Errorf("reading body: %w", err)}
	}

	return body, finalURL, resp.StatusCode, nil
}

// FetchHeadlines fetches the homepage and extracts the featured headlines
func (s *Scraper) FetchHeadlines(ctx context.Context) (*Result, error) {
	body, finalURL, status, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	root, err := markup.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	headlines, found := Extract(root)
	return &Result{
		URL:        finalURL,
		StatusCode: status,
		Headlines:  headlines,
		Found:      found,
	}, nil
}
