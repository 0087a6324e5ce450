package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCompleteCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete <lesson-id>",
		Short: "Mark a lesson as completed",
		Long: "Mark a lesson as completed. The category defaults to the lesson's catalog " +
			"category; lessons the catalog does not know are recorded as \"other\".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := e.openTracker(cmd.Context())
			if err != nil {
				return err
			}
			defer tracker.Close()

			id := strings.TrimSpace(args[0])
			category, _ := cmd.Flags().GetString("category")
			if !cmd.Flags().Changed("category") {
				if l, ok := tracker.Catalog().Lesson(id); ok {
					category = l.Category
				}
			}

			res, err := tracker.CompleteLesson(cmd.Context(), id, category)
			if err != nil {
				return fmt.Errorf("complete lesson: %w", err)
			}

			out := cmd.OutOrStdout()
			if res.Duplicate {
				fmt.Fprintf(out, "%s was already completed on %s\n",
					res.Completion.ID, res.Completion.CompletedAt.Local().Format("Jan 02, 2006"))
				return nil
			}

			fmt.Fprintf(out, "Completed %s (%s): +%d pts\n",
				res.Completion.ID, res.Completion.Category, res.PointsAfter-res.PointsBefore)
			fmt.Fprintf(out, "Points: %d · %s\n", res.PointsAfter, res.LevelAfter.DisplayName())
			if res.LeveledUp() {
				fmt.Fprintf(out, "Level up! %s\n", res.LevelAfter.DisplayName())
			}
			for _, a := range res.Unlocked {
				fmt.Fprintf(out, "Unlocked: %s %s: %s\n", a.Icon, a.Title, a.Description)
			}
			return nil
		},
	}
	cmd.Flags().String("category", "", "Lesson category (tutorial, training, game, project, ...)")
	return cmd
}
