package parser

import (
	"fmt"
	"strings"
)

// Usage lists the syntax of every REPL command.
var Usage = map[string]string{
	"attack": "attack by: Actor to: Target [bonus: N] [dice: XdY+Z] [adv|dis] [nocrit] [roll: N|[a,b]] [dmg: N|[a,b]]",
	"save":   "save [by: Caster] of: Target1 [and: Target2]* stat: key dc: N [dice: XdY+Z] [half|none] [roll: Target=N|[a], ...] [dmg: N|[a,b]]",
	"test":   "test by: Attacker to: Defender attack: N [limit: N] defense: N [limit: N] [damage: N] [stun|physical] [soak[: N]] [roll: [..]] [defroll: [..]] [soakroll: [..]]",
	"pool":   "pool by: Actor dice: N [limit: N] [need: N] [roll: [..]]",
	"init":   "init Actor N",
	"sort":   "sort",
	"next":   "next",
	"rewind": "rewind <entry id|log position>",
	"roll":   "roll XdY+Z [adv|dis]",
	"cond":   "cond Actor +tag|-tag",
}

// MapError takes a raw input and a participle error, and returns a human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("I wasn't able to understand your command")
	}

	cmd := strings.Fields(strings.ToLower(input))[0]
	if usage, ok := Usage[cmd]; ok {
		return fmt.Errorf("The command %s must be: %s", cmd, usage)
	}

	return fmt.Errorf("I wasn't able to understand your command")
}
