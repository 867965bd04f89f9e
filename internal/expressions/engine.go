package expressions

import "context"

// Engine evaluates guard and script expressions against the action context
// environment (top-level data/record/user variables). Implementations must
// resolve missing properties to nil rather than erroring.
type Engine interface {
	Name() string
	Evaluate(ctx context.Context, expression string, env map[string]any) (any, error)
}
