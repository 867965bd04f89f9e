// Package handlers ships ready-made custom action handlers that hosts can
// register on a runner. They exercise the same extension surface available
// to host applications.
package handlers

import (
	"context"

	"github.com/schemaui/actioneer/internal/expressions"
	"github.com/schemaui/actioneer/pkg/runner"
	"github.com/schemaui/actioneer/pkg/schema"
)

// TypeTransform is the action type served by Transform.
const TypeTransform = "transform"

// Transform returns a handler for "transform" actions: it evaluates the jq
// query in params.query against the action context (top-level data/record/
// user) and returns the reshaped value as the result data.
func Transform() runner.HandlerFunc {
	engine := expressions.NewGoJQEngine()

	return func(ctx context.Context, action *schema.ActionDef, actx *schema.ActionContext) *schema.ActionResult {
		query, _ := action.Params["query"].(string)
		if query == "" {
			return schema.NewError(schema.ErrCodeValidation, "No transform query").Result()
		}

		val, err := engine.Evaluate(ctx, query, actx.Env())
		if err != nil {
			return schema.Failed(schema.Message(err))
		}
		return schema.SucceededWith(val)
	}
}

// Register installs all bundled handlers on the runner.
func Register(r *runner.Runner) error {
	return r.RegisterHandler(TypeTransform, Transform())
}
