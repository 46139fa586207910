package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pfrederiksen/vanier-courses/internal/apperr"
	"github.com/pfrederiksen/vanier-courses/internal/config"
	"github.com/pfrederiksen/vanier-courses/internal/logger"
	"github.com/pfrederiksen/vanier-courses/internal/metrics"
	"github.com/pfrederiksen/vanier-courses/internal/sucuri"
)

const (
	// SchedulePath is the department-scoped schedule page, relative to the base URL.
	SchedulePath = "_msched_claraf2.asp"
	Timeout      = 30 * time.Second

	// Upstream pages are small; anything bigger is not the schedule.
	maxBodyBytes = 16 << 20
)

// Doer is the part of *http.Client the scraper uses.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Scraper handles fetching pages from the online schedule
type Scraper struct {
	client    Doer
	baseURL   string
	userAgent string
	metrics   *metrics.Metrics
}

// New creates a Scraper pointed at the public site with default settings
func New() *Scraper {
	return NewWithConfig(config.UpstreamConfig{
		BaseURL:     config.DefaultBaseURL,
		UserAgent:   config.DefaultUserAgent,
		HTTPTimeout: Timeout,
	})
}

// NewWithConfig creates a Scraper from upstream configuration
func NewWithConfig(cfg config.UpstreamConfig) *Scraper {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = Timeout
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		metrics:   metrics.Default(),
	}
}

// WithClient replaces the HTTP client, e.g. with an instrumented transport
func (s *Scraper) WithClient(client Doer) *Scraper {
	s.client = client
	return s
}

// WithMetrics swaps the metrics sink, for tests.
func (s *Scraper) WithMetrics(m *metrics.Metrics) *Scraper {
	s.metrics = m
	return s
}

// BaseURL returns the landing page URL.
func (s *Scraper) BaseURL() string {
	return s.baseURL
}

// ScheduleURL returns the schedule page URL for a department.
func (s *Scraper) ScheduleURL(department int) string {
	return s.baseURL + SchedulePath + "?dv=" + strconv.Itoa(department)
}

// FetchLanding fetches the landing page. With an empty token the response is
// the anti-bot challenge; with a valid token it is the real landing page.
func (s *Scraper) FetchLanding(ctx context.Context, token sucuri.Token) (string, error) {
	return s.get(ctx, "landing", s.baseURL, token)
}

// FetchSchedulePage fetches the raw schedule HTML for one department.
// The content is not validated here.
func (s *Scraper) FetchSchedulePage(ctx context.Context, department int, token sucuri.Token) (string, error) {
	return s.get(ctx, "schedule", s.ScheduleURL(department), token)
}

func (s *Scraper) get(ctx context.Context, page, url string, token sucuri.Token) (string, error) {
	const op = "scraper.get"

	start := time.Now()
	body, err := s.do(ctx, url, token)
	elapsed := time.Since(start)
	s.metrics.ObserveFetch(page, elapsed, err)

	if err != nil {
		logger.Error("Upstream fetch failed", logger.Fields{"page": page, "url": url}, err)
		return "", apperr.Fetch(op, page+" page", err)
	}

	logger.Debug("Fetched upstream page", logger.Fields{
		"page":       page,
		"url":        url,
		"bytes":      len(body),
		"elapsed_ms": elapsed.Milliseconds(),
	})
	return body, nil
}

func (s *Scraper) do(ctx context.Context, url string, token sucuri.Token) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	if cookie := token.Cookie(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return "", fmt.Errorf("response body exceeds %d bytes", maxBodyBytes)
	}
	return string(data), nil
}
