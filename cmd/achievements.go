package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAchievementsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "List achievements and when they were unlocked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := e.openTracker(cmd.Context())
			if err != nil {
				return err
			}
			defer tracker.Close()

			lockedOnly, _ := cmd.Flags().GetBool("locked")
			out := cmd.OutOrStdout()

			shown := 0
			for _, a := range tracker.Achievements() {
				if lockedOnly && a.Unlocked {
					continue
				}
				mark, when := " ", "locked"
				if a.Unlocked {
					mark, when = "✓", "unlocked"
					if a.UnlockedAt != nil {
						when = a.UnlockedAt.Local().Format("Jan 02, 2006 15:04")
					}
				}
				fmt.Fprintf(out, "[%s] %-22s %-20s %s\n", mark, a.Title, when, a.Description)
				shown++
			}
			if shown == 0 {
				fmt.Fprintln(out, "All achievements unlocked!")
				return nil
			}
			fmt.Fprintf(out, "\n%d of %d unlocked\n", tracker.UnlockedCount(), len(tracker.Achievements()))
			return nil
		},
	}
	cmd.Flags().Bool("locked", false, "Show only achievements still locked")
	return cmd
}
