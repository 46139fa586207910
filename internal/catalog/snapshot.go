package catalog

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/vanier-courses/internal/logger"
	"github.com/pfrederiksen/vanier-courses/internal/schedule"
)

// Snapshot lists several departments in parallel, bounded by the catalog's
// concurrency and rate limits. Repeated departments are fetched once. The
// first failure cancels the rest and is returned.
func (c *Catalog) Snapshot(ctx context.Context, departments []int) (map[int][]schedule.Course, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	var mu sync.Mutex
	result := make(map[int][]schedule.Course, len(departments))
	seen := make(map[int]bool, len(departments))

	for _, dept := range departments {
		if seen[dept] {
			continue
		}
		seen[dept] = true

		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return err
			}

			courses, err := c.ListCourses(gctx, dept)
			if err != nil {
				return fmt.Errorf("department %d: %w", dept, err)
			}

			mu.Lock()
			result[dept] = courses
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Catalog snapshot failed", logger.Fields{"departments": len(seen)}, err)
		return nil, err
	}

	logger.Info("Catalog snapshot complete", logger.Fields{"departments": len(result)})
	return result, nil
}

// SnapshotAll lists every department linked from the landing page.
func (c *Catalog) SnapshotAll(ctx context.Context) (map[int][]schedule.Course, error) {
	departments, err := c.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	return c.Snapshot(ctx, departments)
}
