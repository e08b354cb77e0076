package cmd

import (
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		printTools(rt)
		return nil
	},
}

func printTools(rt *runtime) {
	rt.console.Header("Available Tools")
	for i, def := range rt.registry.Definitions() {
		gate := "[Auto]"
		if def.RequiresConfirmation {
			gate = "[Confirm]"
		}
		rt.console.Printf("  %d. %s %s", i+1, def.Name, gate)
		rt.console.Printf("     %s", def.Description)
	}
}
