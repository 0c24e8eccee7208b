package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suderio/skirmish/internal/engine"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print the current state of an encounter",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		defer store.Close()

		enc := mustLoad(context.Background(), store, args[0])
		fmt.Println(titleStyle.Render(encounterTitle(enc)))
		fmt.Println(renderEncounter(enc, 0))
	},
}

func init() {
	encounterCmd.AddCommand(showCmd)
}

func encounterTitle(enc *engine.Encounter) string {
	title := enc.Title
	if title == "" {
		title = enc.ID
	}
	return fmt.Sprintf(" %s | %s ", title, enc.System)
}

// renderEncounter draws the combatants in turn order inside a box. A width
// of zero lets the box fit its content.
func renderEncounter(enc *engine.Encounter, width int) string {
	var b strings.Builder
	b.WriteString("=== Turn Order ===\n\n")

	if len(enc.Combatants) == 0 {
		b.WriteString("No combatants.")
	}

	current := engine.CurrentActor(enc)
	for _, c := range enc.Combatants {
		marker := "  "
		if c == current {
			marker = currentStyle.Render("> ")
		}
		b.WriteString(marker + combatantLine(enc.System, c) + "\n")
	}
	b.WriteString(infoStyle.Render(fmt.Sprintf("\n%d log entries", len(enc.Log))))

	style := stateBoxStyle
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(b.String())
}

func combatantLine(system engine.System, c *engine.Combatant) string {
	parts := []string{nameStyle.Render(c.Name)}
	if c.Initiative != nil {
		parts = append(parts, fmt.Sprintf("init %d", *c.Initiative))
	}
	if c.HP != nil {
		hp := fmt.Sprintf("%d HP", *c.HP)
		if *c.HP == 0 {
			hp = downStyle.Render(hp)
		}
		parts = append(parts, hp)
	}
	if c.AC != nil {
		parts = append(parts, fmt.Sprintf("AC %d", *c.AC))
	}
	if system == engine.SystemD6Pool {
		tracks := engine.Tracks(c).String()
		if engine.IsIncapacitated(c) {
			tracks = downStyle.Render(tracks)
		}
		parts = append(parts, tracks)
	}
	line := strings.Join(parts, "  ")
	if len(c.Conditions) > 0 {
		line += " " + conditionStyle.Render("["+strings.Join(c.Conditions, ", ")+"]")
	}
	return line
}
