package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suderio/skirmish/internal/engine"
	"github.com/suderio/skirmish/internal/persistence"
	"github.com/suderio/skirmish/internal/session"
)

var logCmd = &cobra.Command{
	Use:   "log [id]",
	Short: "Print the log of an encounter",
	Long: `Prints every log entry with its position, which 'rewind <n>' in the
REPL accepts, and its id.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		defer store.Close()

		enc := mustLoad(context.Background(), store, args[0])
		printLog(enc)
	},
}

var recoverCmd = &cobra.Command{
	Use:   "recover [id]",
	Short: "Rebuild an encounter from its journal",
	Long: `Replays the journal of an encounter, honouring rewinds, and saves the
result over the stored encounter. Use it when the stored document is lost
or corrupt. Combatants added outside the REPL only come back once an entry
recorded after they were added is replayed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		id := args[0]
		title, _ := cmd.Flags().GetString("title")

		path := journalManager().JournalPath(id)
		if _, err := os.Stat(path); err != nil {
			fmt.Printf("Error: no journal for %s: %v\n", id, err)
			os.Exit(1)
		}
		journal, err := persistence.NewJournal(path)
		if err != nil {
			fmt.Printf("Error opening journal: %v\n", err)
			os.Exit(1)
		}
		defer journal.Close()

		records, err := journal.Load()
		if err != nil {
			fmt.Printf("Error reading journal: %v\n", err)
			os.Exit(1)
		}
		enc, err := session.Replay(id, title, records)
		if err != nil {
			fmt.Printf("Error replaying journal: %v\n", err)
			os.Exit(1)
		}

		store := mustOpenStore()
		defer store.Close()
		if err := store.Save(ctx, enc); err != nil {
			fmt.Printf("Error saving encounter: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Recovered %s from %d journal records\n", id, len(records))
		printLog(enc)
	},
}

func init() {
	encounterCmd.AddCommand(logCmd)
	encounterCmd.AddCommand(recoverCmd)

	recoverCmd.Flags().String("title", "", "title of the rebuilt encounter")
}

func printLog(enc *engine.Encounter) {
	if len(enc.Log) == 0 {
		fmt.Println(infoStyle.Render("The log is empty."))
		return
	}
	for i, e := range enc.Log {
		fmt.Printf("%s %s %s\n",
			nameStyle.Render(fmt.Sprintf("#%d", i+1)),
			infoStyle.Render(e.Timestamp.Local().Format("15:04:05")+" "+e.ID),
			e.Message())
	}
}
