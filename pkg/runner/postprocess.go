package runner

import (
	"context"

	"github.com/schemaui/actioneer/pkg/schema"
)

// defaultSuccessMessage is shown when a successful action sets no
// successMessage of its own.
const defaultSuccessMessage = "Action completed"

// postProcess runs callback fan-out, toast notification, and reload
// signaling. It is applied only to dispatch/chain results; guard failures
// and cancellations never reach it.
func (r *Runner) postProcess(ctx context.Context, action *schema.ActionDef, result *schema.ActionResult) {
	if result.Success {
		r.runCallbacks(ctx, action.OnSuccess)
	} else {
		r.runCallbacks(ctx, action.OnFailure)
	}

	r.notify(action, result)

	if action.RefreshAfter && result.Success {
		result.Reload = true
	}
}

// runCallbacks executes each callback action in order, awaiting each.
// Callback outcomes never alter the outer result.
func (r *Runner) runCallbacks(ctx context.Context, callbacks schema.ActionList) {
	for _, cb := range callbacks {
		_ = r.Execute(ctx, cb)
	}
}

// notify routes the outcome to the toast port unless the action suppressed
// it. No port registered means no-op.
func (r *Runner) notify(action *schema.ActionDef, result *schema.ActionResult) {
	toast := r.toastPort()
	if toast == nil {
		return
	}

	spec := action.Toast
	duration := 0
	if spec != nil {
		duration = spec.Duration
	}

	if result.Success {
		if spec != nil && spec.ShowOnSuccess != nil && !*spec.ShowOnSuccess {
			return
		}
		message := action.SuccessMessage
		if message == "" {
			message = defaultSuccessMessage
		}
		toast(message, ToastOptions{Type: "success", Duration: duration})
		return
	}

	if spec != nil && spec.ShowOnError != nil && !*spec.ShowOnError {
		return
	}
	message := action.ErrorMessage
	if message == "" {
		message = result.Error
	}
	toast(message, ToastOptions{Type: "error", Duration: duration})
}
