package runner

import (
	"context"
	"net/url"

	"github.com/schemaui/actioneer/pkg/schema"
)

// dispatch resolves an action to a concrete handler, first match wins:
// registry handler, built-in type, legacy callback (empty type), then the
// unresolved fallbacks. Every path contains its own failures.
func (r *Runner) dispatch(ctx context.Context, action *schema.ActionDef) *schema.ActionResult {
	if action.Type != "" {
		if fn, ok := r.handler(action.Type); ok {
			return r.invokeHandler(ctx, fn, action)
		}
	}

	switch action.Type {
	case schema.TypeScript:
		return r.dispatchScript(ctx, action)
	case schema.TypeURL:
		return r.dispatchURL(ctx, action)
	case schema.TypeNavigation:
		return r.dispatchNavigation(ctx, action)
	case schema.TypeModal:
		return r.dispatchModal(ctx, action)
	case schema.TypeAPI:
		return r.dispatchAPI(ctx, action)
	case "":
		return r.dispatchLegacy(ctx, action)
	case schema.TypeFlow:
		// Flow actions always need an external handler; the target check
		// comes first so misconfigured definitions fail descriptively.
		missingTarget := action.Target == nil
		if s, ok := action.Target.(string); ok && s == "" {
			missingTarget = true
		}
		if missingTarget {
			return schema.NewError(schema.ErrCodeValidation, "No flow target").Result()
		}
		return schema.NewError(schema.ErrCodeHandlerUnavailable, "Flow handler not registered").Result()
	default:
		return schema.NewErrorf(schema.ErrCodeHandlerUnavailable, "Unhandled action type: %s", action.Type).Result()
	}
}

// invokeHandler calls a registered handler with panic containment.
func (r *Runner) invokeHandler(ctx context.Context, fn HandlerFunc, action *schema.ActionDef) (res *schema.ActionResult) {
	defer func() {
		if rec := recover(); rec != nil {
			res = schema.NewErrorf(schema.ErrCodeExecution, "handler for %q panicked: %v", action.Type, rec).Result()
		}
	}()

	res = fn(ctx, action, r.Context())
	if res == nil {
		res = schema.NewErrorf(schema.ErrCodeExecution, "handler for %q returned no result", action.Type).Result()
	}
	return res
}

// dispatchScript evaluates the action's expression against the context.
// Execute is preferred; Target is accepted as a fallback expression string.
func (r *Runner) dispatchScript(ctx context.Context, action *schema.ActionDef) *schema.ActionResult {
	expression := action.Execute
	if expression == "" {
		expression = action.TargetString()
	}
	if expression == "" {
		return schema.NewError(schema.ErrCodeValidation, "No script provided").Result()
	}

	val, err := r.evaluator.Evaluate(ctx, expression, r.env())
	if err != nil {
		return schema.Failed(schema.Message(err))
	}
	return schema.SucceededWith(val)
}

// dispatchURL validates the target URL and either delegates to the navigate
// port or surfaces a redirect on the result.
func (r *Runner) dispatchURL(ctx context.Context, action *schema.ActionDef) *schema.ActionResult {
	target := action.TargetString()
	if target == "" {
		return schema.NewError(schema.ErrCodeValidation, "No URL provided").Result()
	}
	return r.resolveNavigation(ctx, target, false)
}

// dispatchNavigation behaves like dispatchURL with the replace flag
// forwarded to the navigate port.
func (r *Runner) dispatchNavigation(ctx context.Context, action *schema.ActionDef) *schema.ActionResult {
	if action.Navigate == nil || action.Navigate.To == "" {
		return schema.NewError(schema.ErrCodeValidation, "No URL provided").Result()
	}
	return r.resolveNavigation(ctx, action.Navigate.To, action.Navigate.Replace)
}

// resolveNavigation classifies the target by scheme. Relative URLs stay
// in-app; absolute http(s) URLs open externally in a new tab; any other
// scheme (javascript:, data:, ...) is rejected to block script injection.
func (r *Runner) resolveNavigation(ctx context.Context, target string, replace bool) *schema.ActionResult {
	u, err := url.Parse(target)
	if err != nil {
		return schema.NewError(schema.ErrCodeInvalidURL, "Invalid URL").Result()
	}

	switch u.Scheme {
	case "":
		if nav := r.navigatePort(); nav != nil {
			nav(ctx, target, NavigateOptions{Replace: replace})
			return schema.Succeeded()
		}
		return &schema.ActionResult{Success: true, Redirect: target}
	case "http", "https":
		if nav := r.navigatePort(); nav != nil {
			nav(ctx, target, NavigateOptions{External: true, NewTab: true, Replace: replace})
			return schema.Succeeded()
		}
		return &schema.ActionResult{Success: true, Redirect: target}
	default:
		return schema.NewError(schema.ErrCodeInvalidURL, "Invalid URL").Result()
	}
}

// dispatchModal delegates to the modal port when one is registered,
// otherwise hands the schema back to the caller on the result.
func (r *Runner) dispatchModal(ctx context.Context, action *schema.ActionDef) *schema.ActionResult {
	modalSchema := action.Modal
	if modalSchema == nil {
		modalSchema = action.Target
	}
	if modalSchema == nil {
		return schema.NewError(schema.ErrCodeValidation, "No modal schema/target").Result()
	}

	open := r.modalPort()
	if open == nil {
		return &schema.ActionResult{Success: true, Modal: modalSchema}
	}

	res, err := open(ctx, modalSchema, r.Context())
	if err != nil {
		return schema.Failed(schema.Message(err))
	}
	if res == nil {
		return schema.NewError(schema.ErrCodeExecution, "modal handler returned no result").Result()
	}
	return res
}

// dispatchLegacy invokes the OnClick callback. Success iff the callback
// neither errors nor panics; its return value is not surfaced as data.
func (r *Runner) dispatchLegacy(ctx context.Context, action *schema.ActionDef) (res *schema.ActionResult) {
	if action.OnClick == nil {
		return schema.Succeeded()
	}

	defer func() {
		if rec := recover(); rec != nil {
			res = schema.NewErrorf(schema.ErrCodeExecution, "onClick panicked: %v", rec).Result()
		}
	}()

	if err := action.OnClick(ctx); err != nil {
		return schema.Failed(schema.Message(err))
	}
	return schema.Succeeded()
}
