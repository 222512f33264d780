package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tayloree/dinecli/internal/cache"
	"github.com/tayloree/dinecli/internal/display"
	"github.com/tayloree/dinecli/internal/filter"
	"github.com/tayloree/dinecli/internal/menu"
	"github.com/tayloree/dinecli/internal/overview"
	"github.com/tayloree/dinecli/internal/snapshot"
)

var (
	flagData      string
	flagFeed      string
	flagDate      string
	flagMeal      string
	flagLocation  string
	flagLimit     int
	flagThreshold float64
	flagJSON      bool
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "dinecli",
	Short: "Show rare dining hall menu highlights",
	Long: "CLI tool that ranks dining hall menu items by how rarely they are served\n" +
		"and shows today's highlights per location and meal.\n\n" +
		"Agent-friendly mode: minor syntax issues are auto-corrected when intent is clear " +
		"(for example: -date tomorrow, meal=dinner, --mael lunch).",
	Example: `  dinecli
  dinecli --date tomorrow --meal dinner
  dinecli search "chicken florentine"
  dinecli stations --location Chase
  dinecli menu --meal lunch --sort time
  dinecli compare --meal lunch --json
  dinecli ingest --from 2023-09-01 --to 2023-09-30`,
	RunE: runOverview,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagData, "data", "", "Snapshot CSV path (default $"+envDataPath+" or "+defaultDataPath+")")
	pf.StringVarP(&flagLocation, "location", "l", "", "Restrict to one dining location (e.g., Chase)")
	pf.BoolVar(&flagJSON, "json", false, "Output as JSON")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")

	registerHighlightFlags(rootCmd.Flags())
}

// Execute runs the root command.
func Execute() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	resetCLIState()

	normalizedArgs, notes := normalizeCLIArgs(args)
	for _, note := range notes {
		display.PrintWarning(stderr, "note: "+note)
	}

	if len(normalizedArgs) == 0 && !isTTY(stdout) {
		if err := printQuickStart(stdout, true); err != nil {
			cliErr := classifyCLIError(err)
			display.PrintError(stderr, formatCLIErrorText(cliErr))
			return cliErr.ExitCode
		}
		return ExitSuccess
	}

	if shouldAutoJSON(normalizedArgs, isTTY(stdout)) {
		normalizedArgs = append(normalizedArgs, "--json")
	}

	setCommandIO(rootCmd, stdout, stderr)
	rootCmd.SetArgs(normalizedArgs)

	if err := rootCmd.Execute(); err != nil {
		cliErr := classifyCLIError(err)
		if hasJSONPreference(normalizedArgs) {
			if jerr := printCLIErrorJSON(stderr, cliErr); jerr != nil {
				display.PrintError(stderr, formatCLIErrorText(classifyCLIError(jerr)))
				return ExitInternal
			}
		} else {
			display.PrintError(stderr, formatCLIErrorText(cliErr))
		}
		return cliErr.ExitCode
	}
	return ExitSuccess
}

func setCommandIO(cmd *cobra.Command, stdout, stderr io.Writer) {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	for _, child := range cmd.Commands() {
		setCommandIO(child, stdout, stderr)
	}
}

func resetCLIState() {
	flagData = ""
	flagFeed = ""
	flagDate = ""
	flagMeal = ""
	flagLocation = ""
	flagLimit = 0
	flagThreshold = 0
	flagJSON = false
	flagVerbose = false
	flagExact = false
	flagSort = ""
	flagFrom = ""
	flagTo = ""
	resetFlags(rootCmd)
}

// resetFlags restores every flag to its default so repeated in-process runs
// do not inherit values such as a previous --help.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func registerHighlightFlags(f *pflag.FlagSet) {
	f.StringVarP(&flagDate, "date", "d", "", "Date to show: today, tomorrow, yesterday or YYYY-MM-DD (default today)")
	f.StringVarP(&flagMeal, "meal", "m", "", "Meal to show: lunch, dinner or both (default both)")
	f.IntVarP(&flagLimit, "limit", "n", 0, "Highlights per location and meal (0 = default 8)")
	f.Float64Var(&flagThreshold, "threshold", 0, "Maximum serving probability for a highlight (0 = default 0.2)")
}

func selectedMeals() ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(flagMeal)) {
	case "", "both", "all":
		return overview.Meals, nil
	case "lunch":
		return []string{"lunch"}, nil
	case "dinner":
		return []string{"dinner"}, nil
	default:
		return nil, invalidArgsError(
			fmt.Sprintf("invalid value %q for --meal (use lunch, dinner, or both)", flagMeal),
			"dinecli --meal lunch",
			"dinecli --meal dinner",
		)
	}
}

func selectedRules() (filter.Rules, error) {
	rules := filter.DefaultRules()
	if flagLimit < 0 {
		return rules, invalidArgsError("--limit must not be negative", "dinecli --limit 5")
	}
	if flagThreshold < 0 || flagThreshold > 1 {
		return rules, invalidArgsError("--threshold must be between 0 and 1", "dinecli --threshold 0.1")
	}
	if flagLimit > 0 {
		rules.Limit = flagLimit
	}
	if flagThreshold > 0 {
		rules.Threshold = flagThreshold
	}
	return rules, nil
}

// session is the loaded state shared by the query commands.
type session struct {
	cfg    config
	logger *slog.Logger
	store  *menu.Store
	agg    *overview.Aggregator
}

func openSession(cmd *cobra.Command) (*session, error) {
	return openSessionWith(newLogger(cmd.ErrOrStderr(), flagVerbose))
}

func openSessionWith(logger *slog.Logger) (*session, error) {
	rules, err := selectedRules()
	if err != nil {
		return nil, err
	}
	cfg := loadConfig(logger)

	store, err := loadSnapshot(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("snapshot loaded", "path", cfg.DataPath, "records", store.Len(), "triples", store.Triples())

	opts := []overview.Option{
		overview.WithCache(cache.New(cache.WithLogger(logger))),
		overview.WithRules(rules),
	}
	if len(cfg.Locations) > 0 {
		opts = append(opts, overview.WithLocations(cfg.Locations...))
	}

	return &session{
		cfg:    cfg,
		logger: logger,
		store:  store,
		agg:    overview.New(store, opts...),
	}, nil
}

func loadSnapshot(path string) (*menu.Store, error) {
	store, err := snapshot.Load(path)
	if err == nil {
		return store, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFoundError(
			fmt.Sprintf("no menu snapshot at %s", path),
			"dinecli ingest --from 2023-09-01 --to 2023-09-30",
			fmt.Sprintf("Set %s or --data to an existing snapshot.", envDataPath),
		)
	}
	var mErr *menu.MalformedRecordError
	if errors.As(err, &mErr) {
		return nil, dataError(err)
	}
	return nil, err
}

func runOverview(cmd *cobra.Command, _ []string) error {
	meals, err := selectedMeals()
	if err != nil {
		return err
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	daily, err := s.agg.Daily(flagDate)
	if err != nil {
		return domainError(err)
	}

	if flagJSON {
		return display.PrintDailyJSON(cmd.OutOrStdout(), daily, meals)
	}
	display.PrintStoreContext(cmd.OutOrStdout(), s.store, s.cfg.DataPath)
	display.PrintDaily(cmd.OutOrStdout(), daily, meals)
	return nil
}
