package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tayloree/dinecli/internal/display"
	"github.com/tayloree/dinecli/internal/filter"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List serving stations and how many items each has served",
	Example: `  dinecli stations
  dinecli stations --location Chase
  dinecli stations -l Lenoir --date today --json`,
	RunE: runStations,
}

func init() {
	rootCmd.AddCommand(stationsCmd)
	stationsCmd.Flags().StringVarP(&flagDate, "date", "d", "", "Only count records on this date (default all dates)")
}

func runStations(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	v := filter.All(s.store)
	if loc := strings.TrimSpace(flagLocation); loc != "" {
		v = v.AtLocation(loc)
	}
	if flagDate != "" {
		v, err = v.ForDate(flagDate, time.Now())
		if err != nil {
			return domainError(err)
		}
	}

	stations := v.Stations()
	if len(stations) == 0 {
		return notFoundError(
			"no records match the requested location and date",
			"dinecli stations",
			"dinecli stations --location Chase",
		)
	}

	if flagJSON {
		return display.PrintStationsJSON(cmd.OutOrStdout(), stations)
	}
	display.PrintStations(cmd.OutOrStdout(), stations, flagLocation)
	return nil
}
