/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/suderio/skirmish/internal/engine"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [id] [name]",
	Short: "Add a combatant to an encounter",
	Long: `Adds one combatant. Fields come from the flags or, with --template,
from combatants/<template>.yaml in the data directories; flags given
together with a template override its values.

Examples:
	skirmish encounter add <id> Goblin --hp 7 --ac 15 --stat dex=2
	skirmish encounter add <id> "Big Bob" --template ogre --init 12
	skirmish encounter add <id> Ganger --phys-max 9 --soak 4`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		name := ""
		if len(args) == 2 {
			name = args[1]
		}

		spec, err := combatantSpec(cmd.Flags(), name)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if spec.Name == "" {
			fmt.Println("Error: must specify either [name] argument or --template flag")
			os.Exit(1)
		}

		store := mustOpenStore()
		defer store.Close()

		enc := mustLoad(ctx, store, args[0])
		if err := checkCombatantID(enc, spec.ID); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if enc.Lookup(spec.Name) != nil {
			fmt.Printf("Warning: a combatant named %s already exists; refer to the new one by id\n", spec.Name)
		}
		c := engine.AddCombatant(enc, spec)
		if err := store.Save(ctx, enc); err != nil {
			fmt.Printf("Error saving encounter: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added %s (%s)\n", c.Name, c.ID)
	},
}

func init() {
	encounterCmd.AddCommand(addCmd)

	addCmd.Flags().StringP("template", "t", "", "combatant template name")
	addCmd.Flags().String("combatant-id", "", "explicit combatant id (default: generated)")
	addCmd.Flags().Int("hp", 0, "hit points")
	addCmd.Flags().Int("ac", 0, "armor class")
	addCmd.Flags().Int("init", 0, "initiative score")
	addCmd.Flags().StringToInt("stat", nil, "stat values, e.g. dex=2,dex_save=4")
	addCmd.Flags().StringSlice("cond", nil, "starting conditions")
	addCmd.Flags().Int("stun-max", engine.DefaultStunMax, "stun track size (d6pool)")
	addCmd.Flags().Int("phys-max", engine.DefaultPhysMax, "physical track size (d6pool)")
	addCmd.Flags().Int("soak", 0, "soak dice (d6pool)")
}

// combatantSpec builds the spec from the template, if any, and then the
// flags the user actually set.
func combatantSpec(flags *pflag.FlagSet, name string) (engine.CombatantSpec, error) {
	var spec engine.CombatantSpec

	if tmplName, _ := flags.GetString("template"); tmplName != "" {
		loader, err := newDataLoader()
		if err != nil {
			return spec, err
		}
		tmpl, err := loader.LoadCombatant(tmplName)
		if err != nil {
			return spec, err
		}
		spec = tmpl.Spec(name)
	} else {
		spec.Name = name
	}

	spec.ID, _ = flags.GetString("combatant-id")

	optional := map[string]**int{
		"hp":       &spec.HP,
		"ac":       &spec.AC,
		"init":     &spec.Initiative,
		"stun-max": &spec.StunMax,
		"phys-max": &spec.PhysMax,
		"soak":     &spec.SoakDice,
	}
	for flag, target := range optional {
		if !flags.Changed(flag) {
			continue
		}
		v, err := flags.GetInt(flag)
		if err != nil {
			return spec, err
		}
		*target = engine.IntPtr(v)
	}

	if flags.Changed("stat") {
		stats, _ := flags.GetStringToInt("stat")
		merged := make(map[string]int, len(spec.Stats)+len(stats))
		for k, v := range spec.Stats {
			merged[k] = v
		}
		for k, v := range stats {
			merged[k] = v
		}
		spec.Stats = merged
	}
	if flags.Changed("cond") {
		conds, _ := flags.GetStringSlice("cond")
		spec.Conditions = append(append([]string{}, spec.Conditions...), conds...)
	}
	return spec, nil
}

// checkCombatantID rejects an explicit id that is already in use.
func checkCombatantID(enc *engine.Encounter, id string) error {
	if id != "" && enc.HasCombatant(id) {
		return fmt.Errorf("combatant id %s is already in use", id)
	}
	return nil
}
