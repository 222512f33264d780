package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tayloree/dinecli/internal/api"
	"github.com/tayloree/dinecli/internal/display"
	"github.com/tayloree/dinecli/internal/menu"
	"github.com/tayloree/dinecli/internal/snapshot"
	"github.com/tayloree/dinecli/internal/when"
)

var (
	flagFrom string
	flagTo   string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch menu records from the dining feed and rebuild the snapshot",
	Long: "Download raw menu rows for a date range from the feed at $" + envFeedURL + ",\n" +
		"recompute item statistics and atomically replace the snapshot file.",
	Example: `  dinecli ingest --from 2023-09-01 --to 2023-09-30
  dinecli ingest --from today --to tomorrow --feed http://localhost:8080/menu
  dinecli ingest --from 2023-09-01 --to 2023-09-07 --data week.csv --json`,
	RunE: runIngest,
}

type ingestResult struct {
	Path    string `json:"path"`
	From    string `json:"from"`
	To      string `json:"to"`
	Records int    `json:"records"`
	Items   int    `json:"items"`
	Triples int    `json:"triples"`
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	f := ingestCmd.Flags()
	f.StringVar(&flagFrom, "from", "", "First date to fetch (today, tomorrow or YYYY-MM-DD)")
	f.StringVar(&flagTo, "to", "", "Last date to fetch (default same as --from)")
	f.StringVar(&flagFeed, "feed", "", "Feed URL (default $"+envFeedURL+")")
}

func runIngest(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd.ErrOrStderr(), flagVerbose)
	cfg := loadConfig(logger)

	if cfg.FeedURL == "" {
		return invalidArgsError(
			"no feed configured",
			"dinecli ingest --feed https://example.edu/menu --from today",
			fmt.Sprintf("Set %s in the environment or .env file.", envFeedURL),
		)
	}
	if flagFrom == "" {
		return invalidArgsError(
			"--from is required for ingest",
			"dinecli ingest --from 2023-09-01 --to 2023-09-30",
		)
	}

	now := time.Now()
	from, err := when.Date(flagFrom, now)
	if err != nil {
		return domainError(err)
	}
	to := from
	if flagTo != "" {
		if to, err = when.Date(flagTo, now); err != nil {
			return domainError(err)
		}
	}
	if to.Before(from) {
		return invalidArgsError(
			"--to must not be before --from",
			"dinecli ingest --from 2023-09-01 --to 2023-09-30",
		)
	}

	logger.Debug("fetching records", "feed", cfg.FeedURL, "from", from, "to", to)
	store, err := api.NewClient(cfg.FeedURL).FetchStore(cmd.Context(), from, to)
	if err != nil {
		return ingestError(err)
	}
	if store.Len() == 0 {
		return notFoundError(
			fmt.Sprintf("no records between %s and %s", from.Format(menu.DateLayout), to.Format(menu.DateLayout)),
			"Widen the range with --from/--to.",
		)
	}

	if err := snapshot.Save(cfg.DataPath, store); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	logger.Info("snapshot written", "path", cfg.DataPath, "records", store.Len())

	result := ingestResult{
		Path:    cfg.DataPath,
		From:    from.Format(menu.DateLayout),
		To:      to.Format(menu.DateLayout),
		Records: store.Len(),
		Items:   len(store.Items()),
		Triples: store.Triples(),
	}
	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
	}
	display.PrintStoreContext(cmd.OutOrStdout(), store, cfg.DataPath)
	fmt.Fprintf(cmd.OutOrStdout(), "%d distinct items across %d meal periods\n", result.Items, result.Triples)
	return nil
}

func ingestError(err error) error {
	var mErr *menu.MalformedRecordError
	if errors.As(err, &mErr) {
		return dataError(err)
	}
	return upstreamError("ingest", err)
}
