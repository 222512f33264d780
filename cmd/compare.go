package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/tayloree/dinecli/internal/display"
	"github.com/tayloree/dinecli/internal/menu"
	"github.com/tayloree/dinecli/internal/overview"
)

type compareResult struct {
	Rank       int     `json:"rank"`
	Location   string  `json:"location"`
	Meal       string  `json:"meal"`
	Period     string  `json:"period"`
	Highlights int     `json:"highlights"`
	MeanProb   float64 `json:"meanProbability"`
	Score      float64 `json:"score"`
	Rarest     string  `json:"rarest"`
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Rank dining locations by how rare their highlights are",
	Example: `  dinecli compare
  dinecli compare --meal dinner --date tomorrow
  dinecli compare --threshold 0.1 --json`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	registerHighlightFlags(compareCmd.Flags())
}

func runCompare(cmd *cobra.Command, _ []string) error {
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

	results := compareBlocks(daily, meals)
	if len(results) == 0 {
		return notFoundError(
			fmt.Sprintf("no highlights on %s", daily.Date.Format(menu.DateLayout)),
			"dinecli compare --date tomorrow",
			"dinecli compare --threshold 0.5",
		)
	}

	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(results)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nLocation comparison for %s (%d with highlights)\n\n", daily.Date.Format("Monday, 02 Jan"), len(results))
	for _, r := range results {
		fmt.Fprintf(
			out,
			"%d. %s %s (%s)\n   highlights: %d | mean rarity: %.0f%% | score: %.1f\n   rarest: %s\n\n",
			r.Rank,
			r.Location,
			display.MealTitle(r.Meal),
			emptyIf(r.Period, "N/A"),
			r.Highlights,
			r.MeanProb*100,
			r.Score,
			r.Rarest,
		)
	}
	return nil
}

// compareBlocks scores every non-empty block. Each highlight contributes
// 1-p, so more and rarer highlights rank higher.
func compareBlocks(daily overview.Daily, meals []string) []compareResult {
	var results []compareResult
	for _, meal := range meals {
		for _, block := range daily.Meal(meal) {
			if len(block.Highlights) == 0 {
				continue
			}
			var sum, score float64
			for _, h := range block.Highlights {
				sum += h.Probability
				score += 1 - h.Probability
			}
			results = append(results, compareResult{
				Location:   block.Location,
				Meal:       block.Meal,
				Period:     block.Period,
				Highlights: len(block.Highlights),
				MeanProb:   sum / float64(len(block.Highlights)),
				Score:      score,
				Rarest:     block.Highlights[0].String(),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].MeanProb != results[j].MeanProb {
			return results[i].MeanProb < results[j].MeanProb
		}
		return results[i].Location < results[j].Location
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

func emptyIf(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
