package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tayloree/dinecli/internal/display"
	"github.com/tayloree/dinecli/internal/filter"
	"github.com/tayloree/dinecli/internal/menu"
	"github.com/tayloree/dinecli/internal/when"
)

var flagSort string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "List every item served on a date, rarest first by default",
	Example: `  dinecli menu
  dinecli menu --date tomorrow --meal dinner --location Chase
  dinecli menu --sort time --json`,
	RunE: runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
	f := menuCmd.Flags()
	f.StringVarP(&flagDate, "date", "d", "", "Date to list: today, tomorrow, yesterday or YYYY-MM-DD (default today)")
	f.StringVarP(&flagMeal, "meal", "m", "", "Meal to list: lunch, dinner or both (default both)")
	f.StringVar(&flagSort, "sort", "", "Order by "+strings.Join(filter.SortKeyNames, ", ")+" (default rarity)")
}

func selectedSortKey() (filter.SortKey, error) {
	key, ok := filter.NormalizeSortKey(flagSort)
	if !ok {
		return key, invalidArgsError(
			fmt.Sprintf("invalid value %q for --sort (use %s)", flagSort, strings.Join(filter.SortKeyNames, ", ")),
			"dinecli menu --sort rarity",
			"dinecli menu --sort time",
		)
	}
	return key, nil
}

func runMenu(cmd *cobra.Command, _ []string) error {
	meals, err := selectedMeals()
	if err != nil {
		return err
	}
	key, err := selectedSortKey()
	if err != nil {
		return err
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	now := time.Now()
	date, err := when.Date(flagDate, now)
	if err != nil {
		return domainError(err)
	}
	v := filter.All(s.store).OnDate(date)
	if loc := strings.TrimSpace(flagLocation); loc != "" {
		v = v.AtLocation(loc)
	}
	if len(meals) == 1 {
		v, err = v.ForMeal(meals[0], now)
		if err != nil {
			return domainError(err)
		}
	}
	// Item breaks ties so equal keys list alphabetically.
	v = v.SortBy(true, key, filter.SortItem)

	if v.Empty() {
		return notFoundError(
			fmt.Sprintf("no menu records on %s for the requested location and meal", date.Format(menu.DateLayout)),
			"dinecli menu --date today",
			"dinecli stations",
		)
	}

	if flagJSON {
		return display.PrintMenuJSON(cmd.OutOrStdout(), v.Records())
	}
	display.PrintMenu(cmd.OutOrStdout(), "Menu for "+date.Format("Monday, 02 Jan"), v.Records())
	return nil
}
