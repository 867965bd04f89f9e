package schema

// ActionContext is the data bag actions and expressions resolve against.
// It is owned by the runner instance for the runner's whole lifetime; there
// is no implicit reset between executions.
type ActionContext struct {
	Data   map[string]any `json:"data,omitempty"`
	Record map[string]any `json:"record,omitempty"`
	User   map[string]any `json:"user,omitempty"`
}

// NewActionContext creates an empty context with an allocated Data map.
func NewActionContext() *ActionContext {
	return &ActionContext{Data: map[string]any{}}
}

// Merge applies a partial context on top of the receiver. Each of the three
// scopes is replaced wholesale when present in the partial; absent scopes
// are left untouched.
func (c *ActionContext) Merge(partial *ActionContext) {
	if partial == nil {
		return
	}
	if partial.Data != nil {
		c.Data = partial.Data
	}
	if partial.Record != nil {
		c.Record = partial.Record
	}
	if partial.User != nil {
		c.User = partial.User
	}
}

// Env builds the expression environment: the three scopes exposed as
// top-level variables. Nil scopes become empty maps so expression engines
// resolve missing properties to nil instead of erroring.
func (c *ActionContext) Env() map[string]any {
	env := map[string]any{
		"data":   map[string]any{},
		"record": map[string]any{},
		"user":   map[string]any{},
	}
	if c == nil {
		return env
	}
	if c.Data != nil {
		env["data"] = c.Data
	}
	if c.Record != nil {
		env["record"] = c.Record
	}
	if c.User != nil {
		env["user"] = c.User
	}
	return env
}
