package cmd

import (
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tayloree/dinecli/internal/display"
	"golang.org/x/term"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse highlights and item history interactively in the terminal",
	Example: `  dinecli tui
  dinecli tui --date tomorrow --meal dinner
  dinecli tui --location Chase --threshold 0.1`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	registerHighlightFlags(tuiCmd.Flags())
}

func runTUI(cmd *cobra.Command, _ []string) error {
	meals, err := selectedMeals()
	if err != nil {
		return err
	}
	if _, err := selectedRules(); err != nil {
		return err
	}

	if flagJSON {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		daily, err := s.agg.Daily(flagDate)
		if err != nil {
			return domainError(err)
		}
		return display.PrintDailyJSON(cmd.OutOrStdout(), daily, meals)
	}

	if !isInteractiveSession(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return invalidArgsError(
			"`dinecli tui` requires an interactive terminal",
			"Use `dinecli --date today --json` in pipelines.",
		)
	}

	model := newLoadingHighlightsTUIModel(tuiLoadConfig{
		dateToken: flagDate,
		meal:      flagMeal,
		// Logging would corrupt the alternate screen.
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(highlightsTUIModel); ok && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}

func isInteractiveSession(stdin io.Reader, stdout io.Writer) bool {
	inputFile, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(inputFile.Fd())) {
		return false
	}
	return isTTY(stdout)
}
