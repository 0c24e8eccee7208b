package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suderio/skirmish/internal/dice"
	"github.com/suderio/skirmish/internal/rng"
	"github.com/suderio/skirmish/internal/rules"
)

var evalCmd = &cobra.Command{
	Use:   "eval [id] [combatant] [expression]",
	Short: "Evaluate a CEL expression against a combatant",
	Long: `Evaluates an expression with the combatant bound to 'self' (id, name,
hp, ac, conditions, incapacitated) and its stats bound to 'stats'. The
functions mod(score) and roll('2d6') are available; roll uses the
encounter seed.

Examples:
	skirmish encounter eval <id> Goblin "self.hp < 5 || 'prone' in self.conditions"
	skirmish encounter eval <id> Fighter "mod(stats.str_score) + 2"`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		defer store.Close()

		enc := mustLoad(context.Background(), store, args[0])
		c := enc.Lookup(args[1])
		if c == nil {
			fmt.Printf("Error: combatant %s not found\n", args[1])
			os.Exit(1)
		}

		registry, err := rules.NewRegistry(func(notation string) int {
			spec, err := dice.ParseSpec(notation)
			if err != nil {
				return 0
			}
			return dice.RollDice(spec, rng.New(enc.Seed), nil).Total
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		out, err := registry.Eval(args[2], rules.ContextFromCombatant(c))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
	},
}

func init() {
	encounterCmd.AddCommand(evalCmd)
}
