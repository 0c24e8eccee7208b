package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suderio/skirmish/internal/dice"
	"github.com/suderio/skirmish/internal/rng"
)

var rollCmd = &cobra.Command{
	Use:   "roll [notation]",
	Short: "Roll dice outside any encounter",
	Long: `Rolls dice in XdY+Z notation. A d20 can be rolled with advantage or
disadvantage. With --seed the same command always gives the same result.

Examples:
	skirmish roll 2d6+3
	skirmish roll 1d20+5 --mode adv
	skirmish roll 3d8 --seed fireball`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mode, _ := cmd.Flags().GetString("mode")
		seed, _ := cmd.Flags().GetString("seed")

		spec, err := dice.ParseSpec(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(rollLine(spec, dice.ParseMode(mode), rng.New(seed)))
	},
}

func init() {
	rootCmd.AddCommand(rollCmd)

	rollCmd.Flags().StringP("mode", "m", "", "adv or dis (1d20 only)")
	rollCmd.Flags().String("seed", "", "seed for a reproducible roll")
}

func rollLine(spec dice.Spec, mode dice.Mode, src rng.Source) string {
	if spec.Count == 1 && spec.Sides == 20 && mode != dice.ModeNormal {
		r := dice.RollD20(dice.D20Spec{Bonus: spec.Bonus, Mode: mode}, src, nil)
		return fmt.Sprintf("%s %s: %v -> %d", spec, r.Mode, r.Rolls, r.Total)
	}
	r := dice.RollDice(spec, src, nil)
	return fmt.Sprintf("%s: %v -> %d", spec, r.Rolls, r.Total)
}
