package cmd

import (
	"github.com/spf13/cobra"

	"github.com/omrilahav/cursor-for-designers/internal/app"
)

func newDashboardCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, e)
		},
	}
}

// runDashboard opens the tracker and launches the TUI.
func runDashboard(cmd *cobra.Command, e *env) error {
	tracker, err := e.openTracker(cmd.Context())
	if err != nil {
		return err
	}
	defer tracker.Close()

	return app.Run(app.Options{Tracker: tracker, Logger: e.logger})
}
