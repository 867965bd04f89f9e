package runner

import (
	"context"

	"github.com/schemaui/actioneer/pkg/schema"
)

// The four side-effect ports are the engine's only coupling to a concrete UI
// host. Each is a single slot: last registration wins, and every subset may
// be left unset — absence triggers the documented fallback per port.

// ConfirmOptions carries the structured confirmation fields.
type ConfirmOptions struct {
	Title       string
	ConfirmText string
	CancelText  string
}

// ConfirmFunc asks the host for confirmation. Returning false (or an error)
// cancels the action.
type ConfirmFunc func(ctx context.Context, message string, opts ConfirmOptions) (bool, error)

// NavigateOptions describes how the host should perform a navigation.
type NavigateOptions struct {
	External bool
	NewTab   bool
	Replace  bool
}

// NavigateFunc performs a navigation on the host.
type NavigateFunc func(ctx context.Context, url string, opts NavigateOptions)

// ModalFunc opens a modal on the host and returns the interaction result.
type ModalFunc func(ctx context.Context, modal any, actx *schema.ActionContext) (*schema.ActionResult, error)

// ToastOptions carries toast presentation hints.
type ToastOptions struct {
	Type     string // "success" or "error"
	Duration int    // milliseconds, 0 = host default
}

// ToastFunc shows a transient notification on the host.
type ToastFunc func(message string, opts ToastOptions)

// SetConfirmHandler installs the confirmation port.
func (r *Runner) SetConfirmHandler(fn ConfirmFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirm = fn
}

// SetNavigationHandler installs the navigation port.
func (r *Runner) SetNavigationHandler(fn NavigateFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigate = fn
}

// SetModalHandler installs the modal port.
func (r *Runner) SetModalHandler(fn ModalFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modal = fn
}

// SetToastHandler installs the toast port.
func (r *Runner) SetToastHandler(fn ToastFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toast = fn
}

func (r *Runner) confirmPort() ConfirmFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.confirm
}

func (r *Runner) navigatePort() NavigateFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.navigate
}

func (r *Runner) modalPort() ModalFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.modal
}

func (r *Runner) toastPort() ToastFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.toast
}
