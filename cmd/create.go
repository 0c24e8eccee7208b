/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suderio/skirmish/internal/engine"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new empty encounter",
	Long: `Creates an encounter with no combatants and an empty log and saves it
in the configured store. A seed makes every roll of the encounter
reproducible.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		system, _ := cmd.Flags().GetString("system")
		seed, _ := cmd.Flags().GetString("seed")

		title := ""
		if len(args) == 1 {
			title = args[0]
		}

		switch engine.System(system) {
		case engine.SystemD20, engine.SystemD6Pool:
		default:
			fmt.Printf("Error: unknown system %q (want %s or %s)\n", system, engine.SystemD20, engine.SystemD6Pool)
			os.Exit(1)
		}

		store := mustOpenStore()
		defer store.Close()

		enc := engine.CreateEncounter(engine.EncounterOptions{
			Title:  title,
			System: engine.System(system),
			Seed:   seed,
		})
		if err := store.Save(context.Background(), enc); err != nil {
			fmt.Printf("Error creating encounter: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Successfully created encounter!\n")
		fmt.Printf("ID: %s\n", enc.ID)
	},
}

func init() {
	encounterCmd.AddCommand(createCmd)

	createCmd.Flags().StringP("system", "s", string(engine.SystemD20), "rule system: d20 or d6pool")
	createCmd.Flags().String("seed", "", "seed for reproducible dice (empty rolls randomly)")
}
