/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suderio/skirmish/internal/session"
)

var replCmd = &cobra.Command{
	Use:   "repl [id]",
	Short: "Start the interactive REPL shell on an encounter",
	Long: `Starts the read-eval-print loop for an encounter. Every command that
changes the encounter is saved and journaled immediately.
Usage:
	> attack by: Fighter to: Goblin bonus: 5 dice: 1d8+3
	> save of: Goblin and: Orc stat: dex dc: 15 dice: 8d6
	> test by: Samurai to: Ganger attack: 8 defense: 4 damage: 5 physical soak
	> pool by: Decker dice: 6 need: 2
	> init Goblin 14
	> sort
	> next
	> cond Goblin +prone
	> rewind 3
	> roll 1d20+5 adv`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		id := args[0]
		plain, _ := cmd.Flags().GetBool("plain")

		store := mustOpenStore()
		defer store.Close()

		journal, err := journalManager().OpenJournal(id)
		if err != nil {
			fmt.Printf("Failed to open journal: %v\n", err)
			os.Exit(1)
		}

		app, err := session.Open(ctx, store, id, session.WithJournal(journal))
		if err != nil {
			journal.Close()
			fmt.Printf("Failed to open encounter: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		if plain {
			runPlain(ctx, app, os.Stdin, os.Stdout)
			return
		}
		if err := RunTUI(app); err != nil {
			fmt.Printf("Fatal TUI Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().Bool("plain", false, "line mode without the full-screen interface (for pipes and scripts)")
}

// runPlain reads one command per line until EOF, exit or quit.
func runPlain(ctx context.Context, app *session.Session, in io.Reader, out io.Writer) {
	enc := app.Encounter()
	fmt.Fprintf(out, "Starting REPL for '%s'...\nType 'exit' or 'quit' to leave.\n\n", strings.TrimSpace(encounterTitle(enc)))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return
		case "show":
			fmt.Fprintln(out, renderEncounter(app.Encounter(), 0))
			continue
		case "help":
			fmt.Fprintln(out, helpText())
			continue
		}

		res, err := app.Execute(ctx, line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, res.Message)
	}
}
