// Package rules evaluates CEL formulas over combatant stats.
package rules

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"

	"github.com/suderio/skirmish/internal/dice"
	"github.com/suderio/skirmish/internal/rng"
)

// RollFunc evaluates a dice notation such as "2d6+1" and returns the total.
// It is injected so tests stay deterministic.
type RollFunc func(notation string) int

// Registry holds the CEL environment used for derived stats.
type Registry struct {
	env *cel.Env
}

// predeclared is the set of variables declared in the base environment.
var predeclared = map[string]bool{"stats": true, "self": true}

// NewRegistry builds the environment. A nil rollFunc rolls with an unseeded
// source.
func NewRegistry(rollFunc RollFunc) (*Registry, error) {
	if rollFunc == nil {
		rollFunc = defaultRoll
	}

	env, err := cel.NewEnv(
		ext.Strings(),

		cel.Variable("stats", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("self", cel.DynType),

		cel.Function("roll",
			cel.Overload("roll_string",
				[]*cel.Type{cel.StringType},
				cel.IntType,
				cel.UnaryBinding(func(val ref.Val) ref.Val {
					return types.Int(rollFunc(val.Value().(string)))
				}),
			),
		),
		cel.Function("mod",
			cel.Overload("mod_int",
				[]*cel.Type{cel.IntType},
				cel.IntType,
				cel.UnaryBinding(func(val ref.Val) ref.Val {
					return types.Int(Modifier(val.Value().(int64)))
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Registry{env: env}, nil
}

// Modifier is the d20 ability modifier, (score - 10) / 2 rounded down.
func Modifier(score int64) int64 {
	d := score - 10
	if d < 0 && d%2 != 0 {
		return d/2 - 1
	}
	return d / 2
}

// Eval compiles and runs an expression against ctx. Context keys that are not
// predeclared are added as dynamic variables.
func (r *Registry) Eval(expression string, ctx map[string]any) (any, error) {
	env, err := r.extend(ctx)
	if err != nil {
		return nil, fmt.Errorf("CEL env extension error: %w", err)
	}

	ast, iss := env.Compile(expression)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("CEL compile error: %w", iss.Err())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error: %w", err)
	}

	if _, ok := ctx["stats"]; !ok {
		ctx = maps.Clone(ctx)
		if ctx == nil {
			ctx = map[string]any{}
		}
		ctx["stats"] = map[string]any{}
	}
	out, _, err := prog.Eval(ctx)
	if err != nil {
		return nil, fmt.Errorf("CEL eval error: %w", err)
	}
	return out.Value(), nil
}

// EvalInt runs a formula that must produce an integer.
func (r *Registry) EvalInt(expression string, ctx map[string]any) (int, error) {
	out, err := r.Eval(expression, ctx)
	if err != nil {
		return 0, err
	}
	switch v := out.(type) {
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	}
	return 0, fmt.Errorf("formula %q returned %T, want int", expression, out)
}

// Derive evaluates each formula against the base stats and returns the
// results. Formulas only see base stats, never each other.
func (r *Registry) Derive(stats map[string]int, formulas map[string]string) (map[string]int, error) {
	ctx := map[string]any{"stats": StatsContext(stats)}
	out := make(map[string]int, len(formulas))
	for _, key := range slices.Sorted(maps.Keys(formulas)) {
		v, err := r.EvalInt(formulas[key], ctx)
		if err != nil {
			return nil, fmt.Errorf("derived stat %s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

func (r *Registry) extend(ctx map[string]any) (*cel.Env, error) {
	var opts []cel.EnvOption
	for key := range ctx {
		if predeclared[key] {
			continue
		}
		opts = append(opts, cel.Variable(key, cel.DynType))
	}
	if len(opts) == 0 {
		return r.env, nil
	}
	return r.env.Extend(opts...)
}

func defaultRoll(notation string) int {
	spec, err := dice.ParseSpec(notation)
	if err != nil {
		return 0
	}
	return dice.RollDice(spec, rng.New(""), nil).Total
}
