package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTokenDerivation(t *testing.T) {
	m := New()

	m.ObserveTokenDerivation(nil)
	m.ObserveTokenDerivation(nil)
	m.ObserveTokenDerivation(errors.New("no script"))

	if got := testutil.ToFloat64(m.tokenDerivations.WithLabelValues(ResultOK)); got != 2 {
		t.Errorf("ok derivations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.tokenDerivations.WithLabelValues(ResultError)); got != 1 {
		t.Errorf("error derivations = %v, want 1", got)
	}
}

func TestObserveParse(t *testing.T) {
	m := New()

	m.ObserveParse(3, 1)
	m.ObserveParse(2, 0)

	if got := testutil.ToFloat64(m.coursesParsed); got != 5 {
		t.Errorf("courses parsed = %v, want 5", got)
	}
	if got := testutil.ToFloat64(m.rowsSkipped); got != 1 {
		t.Errorf("rows skipped = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveHTTPRequest(http.MethodGet, "/api/departments", http.StatusOK, 20*time.Millisecond)
	m.ObserveFetch("landing", 50*time.Millisecond, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`http_requests_total{method="GET",path="/api/departments",status="200"} 1`,
		`scraper_fetch_duration_seconds_count{page="landing",result="ok"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
