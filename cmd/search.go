package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/tayloree/dinecli/internal/display"
	"github.com/tayloree/dinecli/internal/overview"
)

var flagExact bool

var searchCmd = &cobra.Command{
	Use:   "search <item name>",
	Short: "Show when an item was last served and when it is coming up",
	Long: "Resolve an item name against the catalog (typos are tolerated) and list its\n" +
		"five most recent and five next appearances by date and location.",
	Example: `  dinecli search "chicken florentine"
  dinecli search chiken florentin --json
  dinecli search "Beef Stroganoff" --exact`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVarP(&flagExact, "exact", "x", false, "Require an exact, case-sensitive item name")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return invalidArgsError(
			"search query must not be empty",
			`dinecli search "chicken florentine"`,
		)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	if s.store.Len() == 0 {
		return notFoundError(
			"no records in snapshot "+s.cfg.DataPath,
			"dinecli ingest --from 2023-09-01 --to 2023-09-30",
		)
	}

	var h overview.History
	if flagExact {
		h, err = s.agg.HistoryExact(query)
	} else {
		h, err = s.agg.History(query)
	}
	if err != nil {
		return domainError(err)
	}
	s.logger.Debug("item resolved", "query", query, "match", h.Match, "score", h.Score)

	if flagJSON {
		return display.PrintHistoryJSON(cmd.OutOrStdout(), h)
	}
	display.PrintHistory(cmd.OutOrStdout(), h)
	return nil
}
