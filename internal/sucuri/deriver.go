package sucuri

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/vanier-courses/internal/apperr"
	"github.com/pfrederiksen/vanier-courses/internal/logger"
	"github.com/pfrederiksen/vanier-courses/internal/metrics"
)

// LandingFetcher retrieves the site's landing page. An empty token means the
// request goes out without a cookie, which is how the challenge is obtained.
type LandingFetcher interface {
	FetchLanding(ctx context.Context, token Token) (string, error)
}

// Deriver produces a fresh Token per call. It holds no per-call state and is
// safe for concurrent use.
type Deriver struct {
	fetcher LandingFetcher
	engine  ScriptEngine
	metrics *metrics.Metrics
}

// NewDeriver wires a fetcher and script engine together.
func NewDeriver(fetcher LandingFetcher, engine ScriptEngine) *Deriver {
	return &Deriver{
		fetcher: fetcher,
		engine:  engine,
		metrics: metrics.Default(),
	}
}

// WithMetrics swaps the metrics sink, for tests.
func (d *Deriver) WithMetrics(m *metrics.Metrics) *Deriver {
	d.metrics = m
	return d
}

// Derive fetches the landing page and runs its two-stage challenge.
func (d *Deriver) Derive(ctx context.Context) (Token, error) {
	token, err := d.derive(ctx)
	d.metrics.ObserveTokenDerivation(err)
	if err != nil {
		logger.Error("Token derivation failed", nil, err)
		return "", err
	}

	logger.Info("Derived session token", logger.Fields{"cookie": token.Name()})
	return token, nil
}

func (d *Deriver) derive(ctx context.Context) (Token, error) {
	page, err := d.fetcher.FetchLanding(ctx, "")
	if err != nil {
		return "", fmt.Errorf("fetching landing page: %w", err)
	}

	token, err := DeriveFromPage(ctx, d.engine, page)
	if err != nil {
		return "", err
	}
	return token, nil
}

// DeriveFromPage runs the challenge embedded in an already-fetched page.
// It performs no network I/O.
func DeriveFromPage(ctx context.Context, engine ScriptEngine, page string) (Token, error) {
	script, err := ExtractScript(page)
	if err != nil {
		return "", err
	}

	stage1, err := RewriteStage1(script)
	if err != nil {
		return "", err
	}
	logger.Debug("Running challenge stage 1", logger.Fields{"script_bytes": len(stage1)})

	decoded, err := engine.Call(ctx, stage1, stage1Func, "")
	if err != nil {
		return "", fmt.Errorf("stage 1: %w", err)
	}

	stage2, err := RewriteStage2(decoded)
	if err != nil {
		return "", err
	}
	logger.Debug("Running challenge stage 2", logger.Fields{"script_bytes": len(stage2)})

	cookie, err := engine.Call(ctx, stage2, stage2Func, "")
	if err != nil {
		return "", fmt.Errorf("stage 2: %w", err)
	}

	token := Token(cookie)
	if !token.Valid() {
		logger.Warn("Derived token lacks expected prefix", logger.Fields{"prefix": TokenPrefix})
	}
	if token.Cookie() == "" {
		return "", apperr.Parse("sucuri.DeriveFromPage", "challenge produced an empty cookie", nil)
	}
	return token, nil
}
