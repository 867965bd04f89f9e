package schema

import (
	"bytes"
	"context"
	"encoding/json"
)

// Built-in action types. Any other non-empty type resolves through the
// handler registry only.
const (
	TypeScript     = "script"
	TypeURL        = "url"
	TypeNavigation = "navigation"
	TypeModal      = "modal"
	TypeAPI        = "api"
	TypeFlow       = "flow"
)

// Chain execution modes.
const (
	ChainSequential = "sequential"
	ChainParallel   = "parallel"
)

// ActionDef is the declarative description of one action. It is a tagged
// union keyed by Type; an empty Type selects legacy callback mode (OnClick).
type ActionDef struct {
	Type string `json:"type,omitempty"`

	// Guards, evaluated before confirmation and dispatch.
	Condition string      `json:"condition,omitempty"`
	Disabled  *BoolOrExpr `json:"disabled,omitempty"`

	// Confirmation. ConfirmText is the short form; Confirm carries the
	// structured title/button options.
	ConfirmText string       `json:"confirmText,omitempty"`
	Confirm     *ConfirmSpec `json:"confirm,omitempty"`

	// OnClick is the legacy callback, invoked only when Type is empty.
	// It cannot arrive over the wire; hosts set it programmatically.
	OnClick func(ctx context.Context) error `json:"-"`

	// Composition.
	OnSuccess ActionList   `json:"onSuccess,omitempty"`
	OnFailure ActionList   `json:"onFailure,omitempty"`
	Chain     []*ActionDef `json:"chain,omitempty"`
	ChainMode string       `json:"chainMode,omitempty"`

	// Post-processing.
	SuccessMessage string     `json:"successMessage,omitempty"`
	ErrorMessage   string     `json:"errorMessage,omitempty"`
	Toast          *ToastSpec `json:"toast,omitempty"`
	RefreshAfter   bool       `json:"refreshAfter,omitempty"`

	// Free-form parameters for custom handlers.
	Params map[string]any `json:"params,omitempty"`

	// Type-specific payloads. Target is shared: an expression string for
	// script, a URL string for url, a modal schema for modal.
	Execute  string        `json:"execute,omitempty"`
	Target   any           `json:"target,omitempty"`
	Navigate *NavigateSpec `json:"navigate,omitempty"`
	Modal    any           `json:"modal,omitempty"`
	API      *APISpec      `json:"api,omitempty"`
	Endpoint string        `json:"endpoint,omitempty"`
}

// Mode returns the effective chain mode, defaulting to sequential.
func (a *ActionDef) Mode() string {
	if a.ChainMode == ChainParallel {
		return ChainParallel
	}
	return ChainSequential
}

// TargetString returns Target when it holds a string, else "".
func (a *ActionDef) TargetString() string {
	if s, ok := a.Target.(string); ok {
		return s
	}
	return ""
}

// ConfirmSpec is the structured confirmation form.
type ConfirmSpec struct {
	Title       string `json:"title,omitempty"`
	Message     string `json:"message"`
	ConfirmText string `json:"confirmText,omitempty"`
	CancelText  string `json:"cancelText,omitempty"`
}

// ToastSpec controls post-execution toast behavior. Nil Show* pointers mean
// "show" — only an explicit false suppresses the toast.
type ToastSpec struct {
	ShowOnSuccess *bool `json:"showOnSuccess,omitempty"`
	ShowOnError   *bool `json:"showOnError,omitempty"`
	Duration      int   `json:"duration,omitempty"`
}

// NavigateSpec is the payload of navigation actions.
type NavigateSpec struct {
	To      string `json:"to"`
	Replace bool   `json:"replace,omitempty"`
}

// APISpec describes a single HTTP request. On the wire it is either a bare
// endpoint string or the full object form.
type APISpec struct {
	URL         string            `json:"url"`
	Method      string            `json:"method,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        any               `json:"body,omitempty"`
	QueryParams map[string]string `json:"queryParams,omitempty"`
}

// UnmarshalJSON accepts a bare string (the URL) or the object form.
func (s *APISpec) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var u string
		if err := json.Unmarshal(trimmed, &u); err != nil {
			return err
		}
		*s = APISpec{URL: u}
		return nil
	}

	type alias APISpec
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*s = APISpec(obj)
	return nil
}

// BoolOrExpr is a guard value that is either a boolean literal or an
// expression string evaluated against the action context.
type BoolOrExpr struct {
	Literal *bool
	Expr    string
}

// UnmarshalJSON accepts true/false or an expression string.
func (b *BoolOrExpr) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*b = BoolOrExpr{Expr: s}
		return nil
	}

	var lit bool
	if err := json.Unmarshal(trimmed, &lit); err != nil {
		return NewErrorf(ErrCodeValidation, "disabled must be a boolean or an expression string").WithCause(err)
	}
	*b = BoolOrExpr{Literal: &lit}
	return nil
}

// MarshalJSON emits the literal when set, else the expression string.
func (b BoolOrExpr) MarshalJSON() ([]byte, error) {
	if b.Literal != nil {
		return json.Marshal(*b.Literal)
	}
	return json.Marshal(b.Expr)
}

// ActionList holds the onSuccess/onFailure fan-out targets. On the wire it
// is a single action object or an ordered array of them.
type ActionList []*ActionDef

// UnmarshalJSON accepts one action object or an array of actions.
func (l *ActionList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []*ActionDef
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*l = list
		return nil
	}

	var single ActionDef
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	*l = ActionList{&single}
	return nil
}
