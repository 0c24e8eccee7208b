package dice

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidNotation is returned when a dice expression cannot be parsed.
var ErrInvalidNotation = errors.New("invalid dice notation")

var notationRegex = regexp.MustCompile(`(?i)^(\d*)d(\d+)([+-]\d+)?$`)

// ParseSpec parses NdS[+/-M] notation. A bare integer is a flat amount with
// no dice, which is how fixed damage is written.
func ParseSpec(raw string) (Spec, error) {
	expr := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if expr == "" {
		return Spec{}, fmt.Errorf("%w: empty expression", ErrInvalidNotation)
	}

	if flat, err := strconv.Atoi(expr); err == nil {
		return Spec{Bonus: flat}, nil
	}

	matches := notationRegex.FindStringSubmatch(expr)
	if matches == nil {
		return Spec{}, fmt.Errorf("%w: %s", ErrInvalidNotation, raw)
	}

	count := 1
	if matches[1] != "" {
		n, err := strconv.Atoi(matches[1])
		if err != nil || n > MaxDice {
			return Spec{}, fmt.Errorf("%w: at most %d dice, got %s", ErrInvalidNotation, MaxDice, matches[1])
		}
		count = n
	}
	sides, err := strconv.Atoi(matches[2])
	if err != nil || sides <= 0 {
		return Spec{}, fmt.Errorf("%w: cannot roll a die with %s sides", ErrInvalidNotation, matches[2])
	}
	bonus := 0
	if matches[3] != "" {
		if bonus, err = strconv.Atoi(matches[3]); err != nil {
			return Spec{}, fmt.Errorf("%w: modifier %s out of range", ErrInvalidNotation, matches[3])
		}
	}

	return Spec{Count: count, Sides: sides, Bonus: bonus}, nil
}

// String renders the spec back into notation.
func (s Spec) String() string {
	if s.Count == 0 || s.Sides == 0 {
		return strconv.Itoa(s.Bonus)
	}
	if s.Bonus == 0 {
		return fmt.Sprintf("%dd%d", s.Count, s.Sides)
	}
	return fmt.Sprintf("%dd%d%+d", s.Count, s.Sides, s.Bonus)
}

// ParseMode maps "adv"/"advantage" and "dis"/"disadvantage" to their modes.
// Anything else is ModeNormal.
func ParseMode(raw string) Mode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "adv", "advantage", "a":
		return ModeAdvantage
	case "dis", "disadvantage", "d":
		return ModeDisadvantage
	}
	return ModeNormal
}
