package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/vanier-courses/internal/calendar"
	"github.com/pfrederiksen/vanier-courses/internal/catalog"
	"github.com/pfrederiksen/vanier-courses/internal/config"
	"github.com/pfrederiksen/vanier-courses/internal/filter"
	"github.com/pfrederiksen/vanier-courses/internal/logger"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNoResults = 2
)

// ErrNoResults is returned by find and plan when nothing matched. The output
// has already been written; Execute maps it to ExitNoResults.
var ErrNoResults = errors.New("no results")

// options holds flag values and the objects built from them for one run.
type options struct {
	format  string
	sort    string
	verbose bool

	days     string
	teachers string
	titles   string
	courses  string
	between  string
	open     bool
	changed  bool

	v       *viper.Viper
	cfg     *config.Config
	catalog *catalog.Catalog
	now     func() time.Time
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{v: viper.New(), now: time.Now}

	cmd := &cobra.Command{
		Use:   "vanier-courses",
		Short: "Browse the Vanier College online course schedule",
		Long: `A CLI and HTTP API for the Vanier College online course schedule.
Passes the site's bot check, fetches department schedules and turns them
into structured course sections.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.setup,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.format, "format", "text", "Output format: text, json or ics")
	pf.StringVar(&opts.sort, "sort", "", "Sort sections by section, course, title or seats")
	pf.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging and detailed output")
	pf.String("base-url", "", "Schedule site URL (env VANIER_URL)")
	pf.String("log-format", "", "Log encoding: json or console (env LOG_FORMAT)")
	pf.String("timezone", "", "Timezone for calendar export (env TIMEZONE)")
	pf.String("term-start", "", "First day of term for calendar export, YYYY-MM-DD (env TERM_START)")
	pf.String("term-end", "", "Last day of term for calendar export, YYYY-MM-DD (env TERM_END)")

	opts.bind(pf, map[string]string{
		"base-url":   "VANIER_URL",
		"log-format": "LOG_FORMAT",
		"timezone":   "TIMEZONE",
		"term-start": "TERM_START",
		"term-end":   "TERM_END",
	})

	cmd.AddCommand(
		newServeCmd(opts),
		newTokenCmd(opts),
		newDepartmentsCmd(opts),
		newCoursesCmd(opts),
		newFindCmd(opts),
		newPlanCmd(opts),
		newCatalogCmd(opts),
	)

	return cmd
}

// bind ties flags to configuration keys so a set flag overrides the
// environment and .env.
func (o *options) bind(flags *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		if err := o.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding --%s: %v", flag, err))
		}
	}
}

// setup loads configuration, installs the logger and builds the catalog.
func (o *options) setup(cmd *cobra.Command, args []string) error {
	if _, err := ParseFormat(o.format); err != nil {
		return err
	}
	if _, err := ParseSortOrder(o.sort); err != nil {
		return err
	}

	cfg, err := config.LoadWith(o.v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Only the server logs at the configured level; one-shot commands keep
	// stderr quiet unless asked.
	level := logger.LevelWarn
	if cmd.Name() == "serve" {
		level = logger.ParseLevel(cfg.Log.Level)
	}
	if o.verbose {
		level = logger.LevelDebug
	}

	logger.SetDefault(logger.NewWithOptions(logger.Options{
		Level:  level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	}))

	o.cfg = cfg
	o.catalog = catalog.NewFromConfig(cfg)
	return nil
}

func (o *options) outputFormat() OutputFormat {
	f, _ := ParseFormat(o.format)
	return f
}

func (o *options) sortOrder() SortOrder {
	s, _ := ParseSortOrder(o.sort)
	return s
}

func (o *options) calendarOptions() (calendar.Options, error) {
	opts, err := calendar.OptionsFromConfig(o.cfg.Calendar)
	if err != nil {
		return calendar.Options{}, err
	}
	opts.Now = o.now
	return opts, nil
}

func addFilterFlags(cmd *cobra.Command, o *options) {
	f := cmd.Flags()
	f.StringVar(&o.days, "day", "", "Only sections meeting on these days, e.g. Mon,Wed")
	f.StringVar(&o.teachers, "teacher", "", "Teacher name contains (comma-separated)")
	f.StringVar(&o.titles, "title", "", "Title contains (comma-separated)")
	f.StringVar(&o.courses, "course", "", "Course code starts with (comma-separated), e.g. 420-1")
	f.StringVar(&o.between, "between", "", "Only sections meeting within H:MM-H:MM")
	f.BoolVar(&o.open, "open", false, "Only sections with seats left")
	f.BoolVar(&o.changed, "changed", false, "Only recently changed sections")
}

func (o *options) buildFilter() (*filter.Filter, error) {
	f := filter.NewFilter()

	if o.days != "" {
		days, err := filter.ParseDays(o.days)
		if err != nil {
			return nil, fmt.Errorf("--day: %w", err)
		}
		f.Days = days
	}

	if o.between != "" {
		w, err := filter.ParseWindow(o.between)
		if err != nil {
			return nil, fmt.Errorf("--between: %w", err)
		}
		f.Window = w
	}

	f.Teachers = filter.SplitList(o.teachers)
	f.Titles = filter.SplitList(o.titles)
	f.Courses = filter.SplitList(o.courses)
	f.OpenOnly = o.open
	f.ChangedOnly = o.changed
	return f, nil
}

func parseDepartment(arg string) (int, error) {
	dept, err := strconv.Atoi(arg)
	if err != nil || dept < 0 {
		return 0, fmt.Errorf("invalid department: %s", arg)
	}
	return dept, nil
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	_ = logger.Default().Sync()

	switch {
	case err == nil:
	case errors.Is(err, ErrNoResults):
		os.Exit(ExitNoResults)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
