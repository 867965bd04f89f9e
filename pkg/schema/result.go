package schema

// ActionResult is the single value returned from every execution path.
// Success and Error are never contradictory: a successful result carries
// no error message, a failed one no redirect/modal/reload flags.
type ActionResult struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Modal    any    `json:"modal,omitempty"`
	Reload   bool   `json:"reload,omitempty"`
}

// Succeeded returns a bare success result.
func Succeeded() *ActionResult {
	return &ActionResult{Success: true}
}

// SucceededWith returns a success result carrying data.
func SucceededWith(data any) *ActionResult {
	return &ActionResult{Success: true, Data: data}
}

// Failed returns a failure result with the given message.
func Failed(message string) *ActionResult {
	return &ActionResult{Success: false, Error: message}
}
