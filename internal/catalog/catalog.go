package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pfrederiksen/vanier-courses/internal/apperr"
	"github.com/pfrederiksen/vanier-courses/internal/config"
	"github.com/pfrederiksen/vanier-courses/internal/logger"
	"github.com/pfrederiksen/vanier-courses/internal/schedule"
	"github.com/pfrederiksen/vanier-courses/internal/scraper"
	"github.com/pfrederiksen/vanier-courses/internal/sucuri"
)

// Fetcher retrieves upstream pages with a session token.
type Fetcher interface {
	sucuri.LandingFetcher
	FetchSchedulePage(ctx context.Context, department int, token sucuri.Token) (string, error)
}

// TokenSource yields a fresh session token.
type TokenSource interface {
	Derive(ctx context.Context) (sucuri.Token, error)
}

// Catalog composes token derivation, page fetching and table parsing.
type Catalog struct {
	fetcher Fetcher
	tokens  TokenSource
	parser  *schedule.Parser

	concurrency int
	limiter     *rate.Limiter
}

// New creates a Catalog whose snapshots run one department at a time.
func New(fetcher Fetcher, tokens TokenSource) *Catalog {
	return &Catalog{
		fetcher:     fetcher,
		tokens:      tokens,
		parser:      schedule.NewParser(),
		concurrency: 1,
		limiter:     rate.NewLimiter(rate.Inf, 1),
	}
}

// NewFromConfig wires the real scraper, script engine and deriver.
func NewFromConfig(cfg *config.Config) *Catalog {
	s := scraper.NewWithConfig(cfg.Upstream)
	deriver := sucuri.NewDeriver(s, sucuri.NewGojaEngine(cfg.Upstream.ScriptTimeout))

	return New(s, deriver).WithLimits(cfg.Catalog.Concurrency, cfg.Catalog.RatePerSec)
}

// WithParser replaces the table parser.
func (c *Catalog) WithParser(p *schedule.Parser) *Catalog {
	c.parser = p
	return c
}

// WithLimits bounds Snapshot to concurrency parallel departments and
// perSecond department fetches. A non-positive rate means unlimited.
func (c *Catalog) WithLimits(concurrency int, perSecond float64) *Catalog {
	if concurrency < 1 {
		concurrency = 1
	}
	c.concurrency = concurrency

	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	c.limiter = rate.NewLimiter(limit, 1)
	return c
}

// Token derives a session token without fetching anything else.
func (c *Catalog) Token(ctx context.Context) (sucuri.Token, error) {
	return c.tokens.Derive(ctx)
}

// ListDepartments returns the department codes linked from the landing page,
// in page order with duplicates kept.
func (c *Catalog) ListDepartments(ctx context.Context) ([]int, error) {
	token, err := c.tokens.Derive(ctx)
	if err != nil {
		return nil, err
	}

	page, err := c.fetcher.FetchLanding(ctx, token)
	if err != nil {
		return nil, err
	}

	departments, err := scraper.ParseDepartments(page)
	if err != nil {
		return nil, err
	}

	logger.Info("Listed departments", logger.Fields{"count": len(departments)})
	return departments, nil
}

// ListCourses returns every section the department offers, in table order.
func (c *Catalog) ListCourses(ctx context.Context, department int) ([]schedule.Course, error) {
	if department < 0 {
		return nil, apperr.Validation("catalog.ListCourses", "invalid department: "+strconv.Itoa(department), nil)
	}

	token, err := c.tokens.Derive(ctx)
	if err != nil {
		return nil, err
	}

	page, err := c.fetcher.FetchSchedulePage(ctx, department, token)
	if err != nil {
		return nil, err
	}

	courses, err := c.parser.Parse(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	logger.Info("Listed courses", logger.Fields{
		"department": department,
		"count":      len(courses),
	})
	return courses, nil
}

// FindCourse returns the sections whose code equals code, ignoring case.
// The department is the number before the first '-'; a code without one is
// rejected before any request is made.
func (c *Catalog) FindCourse(ctx context.Context, code string) ([]schedule.Course, error) {
	department, err := DepartmentOf(code)
	if err != nil {
		return nil, err
	}

	courses, err := c.ListCourses(ctx, department)
	if err != nil {
		return nil, err
	}

	matches := []schedule.Course{}
	for _, course := range courses {
		if strings.EqualFold(course.Course, code) {
			matches = append(matches, course)
		}
	}

	logger.Debug("Found course sections", logger.Fields{
		"code":     code,
		"sections": len(matches),
	})
	return matches, nil
}

// DepartmentOf extracts the department number from a course code such as
// "420-101-VA".
func DepartmentOf(code string) (int, error) {
	prefix, _, _ := strings.Cut(code, "-")
	prefix = strings.TrimSpace(prefix)

	department, err := strconv.ParseUint(prefix, 10, 31)
	if err != nil {
		return 0, apperr.Validation("catalog.FindCourse", fmt.Sprintf("invalid course code %q", code), err)
	}
	return int(department), nil
}
