package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/devpath/internal/app"
)

// runInteractive opens the terminal UI over the learner's progress.
func runInteractive(cmd *cobra.Command, askGoal bool) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	return app.Run(cmd.Context(), e.svc, conf.HoursPerWeek, askGoal)
}
