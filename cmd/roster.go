package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rosterCmd = &cobra.Command{
	Use:   "roster [id] [roster]",
	Short: "Add every member of a roster to an encounter",
	Long: `Reads rosters/<roster>.yaml from the data directories and adds its
members in order. Members with a count above one are numbered
("Goblin 1", "Goblin 2"). Nothing is added if any template is missing.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		loader, err := newDataLoader()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		roster, err := loader.LoadRoster(args[1])
		if err != nil {
			fmt.Printf("Error loading roster: %v\n", err)
			os.Exit(1)
		}

		store := mustOpenStore()
		defer store.Close()

		enc := mustLoad(ctx, store, args[0])
		added, err := loader.Populate(enc, roster)
		if err != nil {
			fmt.Printf("Error populating encounter: %v\n", err)
			os.Exit(1)
		}
		if err := store.Save(ctx, enc); err != nil {
			fmt.Printf("Error saving encounter: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Added %d combatants from %s:\n", len(added), roster.Name)
		for _, c := range added {
			fmt.Printf(" - %s (%s)\n", c.Name, c.ID)
		}
	},
}

func init() {
	encounterCmd.AddCommand(rosterCmd)
}
