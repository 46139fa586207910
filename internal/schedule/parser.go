package schedule

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/vanier-courses/internal/apperr"
	"github.com/pfrederiksen/vanier-courses/internal/logger"
	"github.com/pfrederiksen/vanier-courses/internal/metrics"
)

// QualifyingChildCount is the number of cells in a schedule data row.
// Layout rows, spacers and footers have a different count.
const QualifyingChildCount = 21

// Parser decodes schedule pages.
type Parser struct {
	metrics *metrics.Metrics
}

// NewParser creates a Parser that reports to the default metrics registry.
func NewParser() *Parser {
	return &Parser{metrics: metrics.Default()}
}

// WithMetrics swaps the metrics sink, for tests.
func (p *Parser) WithMetrics(m *metrics.Metrics) *Parser {
	p.metrics = m
	return p
}

// Parse decodes a schedule page with a default Parser.
func Parse(r io.Reader) ([]Course, error) {
	return NewParser().Parse(r)
}

// Parse returns every course section in the page, in row order. The first
// qualifying row is the header and is never returned. Rows that fail to
// decode are skipped; a page with no data rows yields an empty slice.
func (p *Parser) Parse(r io.Reader) ([]Course, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, apperr.Parse("schedule.Parse", "failed to read schedule html", err)
	}

	courses := []Course{}
	skipped := 0
	headerSeen := false

	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		children := row.Children()
		if children.Length() != QualifyingChildCount {
			return
		}
		if !headerSeen {
			headerSeen = true
			return
		}

		course, err := decodeRow(cells(children))
		if err != nil {
			skipped++
			logger.Debug("Skipping schedule row", logger.Fields{
				"row":    i,
				"reason": err.Error(),
			})
			return
		}
		courses = append(courses, course)
	})

	if p.metrics != nil {
		p.metrics.ObserveParse(len(courses), skipped)
	}
	logger.Debug("Parsed schedule page", logger.Fields{
		"courses": len(courses),
		"skipped": skipped,
	})
	return courses, nil
}

func cells(children *goquery.Selection) []Cell {
	out := make([]Cell, 0, children.Length())
	children.Each(func(_ int, cell *goquery.Selection) {
		lines := cellLines(cell)
		bg, _ := cell.Attr("bgcolor")
		out = append(out, Cell{
			Text:    strings.Join(lines, "\n"),
			Lines:   lines,
			BgColor: bg,
		})
	})
	return out
}

// cellLines returns the text of a cell split at each <br>, at any depth.
// Comments and other non-element nodes contribute nothing.
func cellLines(cell *goquery.Selection) []string {
	lines := []string{""}

	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, n *goquery.Selection) {
			switch name := goquery.NodeName(n); {
			case name == "br":
				lines = append(lines, "")
			case name == "#text":
				lines[len(lines)-1] += n.Text()
			case !strings.HasPrefix(name, "#"):
				walk(n)
			}
		})
	}
	walk(cell)

	return lines
}
