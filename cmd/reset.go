package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newResetCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				fmt.Fprint(out, "This erases every completed lesson and achievement. Type \"yes\" to continue: ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(strings.ToLower(answer)) != "yes" {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			tracker, err := e.openTracker(cmd.Context())
			if err != nil {
				return err
			}
			defer tracker.Close()

			tracker.Reset(cmd.Context())
			fmt.Fprintln(out, "Progress reset.")
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
