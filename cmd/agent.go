package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/martinemde/cobalt/agent"
)

var agentCmd = &cobra.Command{
	Use:   "agent <task>...",
	Short: "Run one task to completion and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.logger.Close()

		task := joinArgs(args)
		rt.console.Separator()
		rt.console.Bold("AGENT EXECUTION STARTED")
		rt.console.Separator()
		rt.console.Bold("Task: " + task)

		result, err := rt.newAgent().Run(cmd.Context(), task)
		if err != nil {
			return err
		}
		if result.State == agent.StateAborted {
			return errors.New(result.Reason)
		}
		return nil
	},
}
