package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/vanier-courses/internal/api"
	"github.com/pfrederiksen/vanier-courses/internal/metrics"
	"github.com/pfrederiksen/vanier-courses/internal/planner"
	"github.com/pfrederiksen/vanier-courses/internal/schedule"
)

func newServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schedule as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := o.calendarOptions()
			if err != nil {
				return err
			}

			router := api.NewRouter(api.NewHandler(o.catalog, cal), api.RouterOptions{
				AllowedOrigins: o.cfg.CORS.AllowedOrigins,
				Metrics:        metrics.Default(),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return api.Serve(ctx, ":"+strconv.Itoa(o.cfg.Port), router)
		},
	}

	cmd.Flags().Int("port", 0, "Port to listen on (env PORT)")
	cmd.Flags().String("origins", "", "Comma-separated CORS origins, empty allows all (env ALLOWED_ORIGINS)")
	o.bind(cmd.Flags(), map[string]string{
		"port":    "PORT",
		"origins": "ALLOWED_ORIGINS",
	})
	return cmd
}

func newTokenCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Derive a session token and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := o.catalog.Token(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if o.outputFormat() == FormatJSON {
				return writeJSON(w, map[string]interface{}{
					"cookie": token.Cookie(),
					"name":   token.Name(),
					"raw":    string(token),
					"valid":  token.Valid(),
				})
			}

			if o.verbose {
				fmt.Fprintln(w, string(token))
				return nil
			}
			fmt.Fprintln(w, token.Cookie())
			return nil
		},
	}
}

func newDepartmentsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "List department codes linked from the landing page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			departments, err := o.catalog.ListDepartments(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if o.outputFormat() == FormatJSON {
				return writeJSON(w, map[string]interface{}{
					"checked_at":  o.now().UTC(),
					"departments": departments,
					"count":       len(departments),
				})
			}

			for _, d := range departments {
				fmt.Fprintln(w, d)
			}
			fmt.Fprintf(w, "\nTotal: %d departments\n", len(departments))
			return nil
		},
	}
}

func newCoursesCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses <department>",
		Short: "List the sections a department offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dept, err := parseDepartment(args[0])
			if err != nil {
				return err
			}
			f, err := o.buildFilter()
			if err != nil {
				return err
			}

			courses, err := o.catalog.ListCourses(cmd.Context(), dept)
			if err != nil {
				return err
			}

			result := &OutputResult{
				CheckedAt:  o.now().UTC(),
				Department: &dept,
				Filter:     filterLabel(f.IsEmpty(), f.String()),
			}
			return o.writeCourses(cmd, result, f.Apply(courses))
		},
	}
	addFilterFlags(cmd, o)
	return cmd
}

func newFindCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <course-code>",
		Short: "Find every section of a course code, e.g. 420-101-VA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.buildFilter()
			if err != nil {
				return err
			}

			courses, err := o.catalog.FindCourse(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			result := &OutputResult{
				CheckedAt: o.now().UTC(),
				Query:     args[0],
				Filter:    filterLabel(f.IsEmpty(), f.String()),
			}
			if err := o.writeCourses(cmd, result, f.Apply(courses)); err != nil {
				return err
			}
			if result.Count == 0 {
				return ErrNoResults
			}
			return nil
		},
	}
	addFilterFlags(cmd, o)
	return cmd
}

func newPlanCmd(o *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "plan <course-code>...",
		Short: "List timetables with one conflict-free section per course",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.buildFilter()
			if err != nil {
				return err
			}

			groups := make([][]schedule.Course, 0, len(args))
			for _, code := range args {
				sections, err := o.catalog.FindCourse(cmd.Context(), code)
				if err != nil {
					return err
				}
				groups = append(groups, f.Apply(sections))
			}

			plans := planner.Combinations(groups, limit)
			result := &PlanResult{
				CheckedAt: o.now().UTC(),
				Codes:     args,
				Plans:     plans,
				Count:     len(plans),
			}
			if err := WritePlans(cmd.OutOrStdout(), result, o.outputFormat(), o.verbose); err != nil {
				return err
			}
			if result.Count == 0 {
				return ErrNoResults
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", planner.DefaultLimit, "Maximum number of timetables")
	addFilterFlags(cmd, o)
	return cmd
}

func newCatalogCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog [department]...",
		Short: "Fetch several departments at once (all when none are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			departments := make([]int, 0, len(args))
			for _, arg := range args {
				dept, err := parseDepartment(arg)
				if err != nil {
					return err
				}
				departments = append(departments, dept)
			}

			var (
				snapshot map[int][]schedule.Course
				err      error
			)
			if len(departments) == 0 {
				snapshot, err = o.catalog.SnapshotAll(cmd.Context())
			} else {
				snapshot, err = o.catalog.Snapshot(cmd.Context(), departments)
			}
			if err != nil {
				return err
			}

			result := &SnapshotResult{
				CheckedAt:   o.now().UTC(),
				Departments: snapshot,
				Count:       len(snapshot),
			}
			return WriteSnapshot(cmd.OutOrStdout(), result, o.outputFormat(), o.verbose)
		},
	}

	cmd.Flags().Int("concurrency", 0, "Departments fetched in parallel (env CATALOG_CONCURRENCY)")
	cmd.Flags().Float64("rate", 0, "Department fetches per second, 0 for unlimited (env CATALOG_RATE)")
	o.bind(cmd.Flags(), map[string]string{
		"concurrency": "CATALOG_CONCURRENCY",
		"rate":        "CATALOG_RATE",
	})
	return cmd
}

func (o *options) writeCourses(cmd *cobra.Command, result *OutputResult, courses []schedule.Course) error {
	sortCourses(courses, o.sortOrder())
	result.Courses = courses
	result.Count = len(courses)

	cal, err := o.calendarOptions()
	if err != nil && o.outputFormat() == FormatICS {
		return err
	}
	return WriteOutput(cmd.OutOrStdout(), result, o.outputFormat(), o.verbose, cal)
}

func filterLabel(empty bool, label string) string {
	if empty {
		return ""
	}
	return label
}
