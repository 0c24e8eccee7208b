/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// encounterCmd represents the encounter command
var encounterCmd = &cobra.Command{
	Use:     "encounter",
	Aliases: []string{"enc"},
	Short:   "Create, inspect and manage stored encounters",
	Long: `The encounter command manages the stored encounters.

Use 'create' to start a new one, 'add' and 'roster' to fill it with
combatants, 'show' and 'log' to inspect it and 'repl' to run it.`,
}

func init() {
	rootCmd.AddCommand(encounterCmd)
}
