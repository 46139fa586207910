package scraper

import (
	"regexp"
	"strconv"

	"github.com/pfrederiksen/vanier-courses/internal/apperr"
)

// Department links on the landing page look like "...?dv=420&dt=...".
var departmentPattern = regexp.MustCompile(`\?dv=(\d+)&dt=`)

// ParseDepartments returns every department code linked from the landing
// page, in document order. Duplicates are kept.
func ParseDepartments(html string) ([]int, error) {
	matches := departmentPattern.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		return nil, apperr.Parse("scraper.ParseDepartments", "no department links found", nil)
	}

	departments := make([]int, 0, len(matches))
	for _, m := range matches {
		dept, err := strconv.Atoi(m[1])
		if err != nil {
			// Only reachable for digit runs that overflow int.
			return nil, apperr.Parse("scraper.ParseDepartments", "department code out of range: "+m[1], err)
		}
		departments = append(departments, dept)
	}
	return departments, nil
}
