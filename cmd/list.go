package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored encounters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		defer store.Close()

		summaries, err := store.List(context.Background())
		if err != nil {
			fmt.Printf("Error listing encounters: %v\n", err)
			os.Exit(1)
		}
		if len(summaries) == 0 {
			fmt.Println("No encounters stored.")
			return
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#874BFD"))).
			Headers("ID", "TITLE", "SYSTEM", "COMBATANTS", "ENTRIES", "CREATED")
		for _, s := range summaries {
			t.Row(s.ID, s.Title, string(s.System),
				fmt.Sprint(s.Combatants), fmt.Sprint(s.Entries), s.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Println(t.Render())
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a stored encounter and its journal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		defer store.Close()

		if err := store.Delete(context.Background(), args[0]); err != nil {
			fmt.Printf("Error deleting encounter: %v\n", err)
			os.Exit(1)
		}
		if err := os.Remove(journalManager().JournalPath(args[0])); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: journal not removed: %v\n", err)
		}
		fmt.Printf("Deleted encounter %s\n", args[0])
	},
}

func init() {
	encounterCmd.AddCommand(listCmd)
	encounterCmd.AddCommand(deleteCmd)
}
