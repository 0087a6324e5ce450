package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRecentCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recently completed lessons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := cmd.Flags().GetInt("limit")
			if n < 1 {
				return fmt.Errorf("--limit must be positive, got %d", n)
			}

			tracker, err := e.openTracker(cmd.Context())
			if err != nil {
				return err
			}
			defer tracker.Close()

			out := cmd.OutOrStdout()
			recent := tracker.RecentActivity(n)
			if len(recent) == 0 {
				fmt.Fprintln(out, "No lessons completed yet.")
				return nil
			}
			for _, c := range recent {
				fmt.Fprintf(out, "%s  %-24s %s\n",
					c.CompletedAt.Local().Format("2006-01-02 15:04"), c.ID, c.Category)
			}
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 5, "Number of completions to show")
	return cmd
}
