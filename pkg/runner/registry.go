package runner

import (
	"context"

	"github.com/schemaui/actioneer/pkg/schema"
)

// HandlerFunc is a pluggable handler for a custom action type. It must
// contain its own failures and always return a result; returning nil is
// treated as an execution failure by the dispatcher.
type HandlerFunc func(ctx context.Context, action *schema.ActionDef, actx *schema.ActionContext) *schema.ActionResult

// RegisterHandler binds a handler to an action type. Registered handlers are
// consulted before built-in dispatchers, so a handler may shadow a built-in
// type. Re-registration overwrites the previous handler.
func (r *Runner) RegisterHandler(actionType string, fn HandlerFunc) error {
	if actionType == "" {
		return schema.NewError(schema.ErrCodeValidation, "action type is empty")
	}
	if fn == nil {
		return schema.NewError(schema.ErrCodeValidation, "handler is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[actionType] = fn
	return nil
}

// UnregisterHandler removes the handler for a type, reverting that type to
// built-in or unresolved dispatch.
func (r *Runner) UnregisterHandler(actionType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, actionType)
}

// HasHandler reports whether a handler is registered for the type.
func (r *Runner) HasHandler(actionType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[actionType]
	return ok
}

func (r *Runner) handler(actionType string) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.handlers[actionType]
	return fn, ok
}
