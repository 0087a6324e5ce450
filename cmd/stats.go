package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newStatsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show points, level and lesson counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := e.openTracker(cmd.Context())
			if err != nil {
				return err
			}
			defer tracker.Close()

			out := cmd.OutOrStdout()
			lp := tracker.LevelProgress()

			fmt.Fprintf(out, "%-14s %d\n", "Points:", tracker.TotalPoints())
			if lp.Next != nil {
				fmt.Fprintf(out, "%-14s %s (%d pts to %s)\n", "Level:",
					lp.Current.DisplayName(), lp.Remaining(), lp.Next.DisplayName())
			} else {
				fmt.Fprintf(out, "%-14s %s (max)\n", "Level:", lp.Current.DisplayName())
			}
			fmt.Fprintf(out, "%-14s %d of %d\n", "Lessons:",
				len(tracker.CompletedLessons()), len(tracker.Catalog().Lessons))
			fmt.Fprintf(out, "%-14s %d of %d\n", "Achievements:",
				tracker.UnlockedCount(), len(tracker.Achievements()))

			counts := tracker.CategoryCounts()
			if len(counts) == 0 {
				return nil
			}
			categories := make([]string, 0, len(counts))
			for c := range counts {
				categories = append(categories, c)
			}
			sort.Strings(categories)

			fmt.Fprintln(out)
			fmt.Fprintln(out, "By category:")
			for _, c := range categories {
				total := len(tracker.Catalog().LessonsIn(c))
				if total > 0 {
					fmt.Fprintf(out, "  %-12s %d/%d\n", c, counts[c], total)
				} else {
					fmt.Fprintf(out, "  %-12s %d\n", c, counts[c])
				}
			}
			return nil
		},
	}
}
