package runner

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/schemaui/actioneer/internal/expressions"
	"github.com/schemaui/actioneer/internal/metrics"
	"github.com/schemaui/actioneer/pkg/schema"
)

// Evaluator evaluates guard and script expressions against an environment
// built from the action context. It must resolve missing properties to nil
// rather than erroring, and must be free of side effects.
type Evaluator interface {
	Evaluate(ctx context.Context, expression string, env map[string]any) (any, error)
}

// Runner is the action execution orchestrator: it evaluates guards, requests
// confirmation, dispatches through the handler registry and built-in type
// dispatchers, runs chains, and applies post-processing.
//
// Every execution terminates with exactly one non-nil ActionResult; no error
// or panic crosses the Execute boundary. A Runner instance owns its
// ActionContext and port slots; concurrent Execute calls on one instance are
// safe for the engine's own state, but hosts mutating the context mid-flight
// need their own discipline.
type Runner struct {
	evaluator  Evaluator
	logger     *slog.Logger
	httpClient Doer
	apiTimeout time.Duration

	// confirmDefault decides confirmation-gated actions when no confirm
	// port is registered: true proceeds, false cancels.
	confirmDefault bool

	// mu guards the handler registry, the four ports, and the context.
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	confirm  ConfirmFunc
	navigate NavigateFunc
	modal    ModalFunc
	toast    ToastFunc
	actx     *schema.ActionContext
}

// Option configures a Runner.
type Option func(*Runner)

// WithEvaluator replaces the default expr-lang evaluator.
func WithEvaluator(ev Evaluator) Option {
	return func(r *Runner) {
		if ev != nil {
			r.evaluator = ev
		}
	}
}

// WithCELEvaluator switches expression evaluation to CEL.
func WithCELEvaluator() Option {
	return func(r *Runner) {
		// CEL env construction only fails on malformed declarations.
		if eng, err := expressions.NewCELEngine(); err == nil {
			r.evaluator = eng
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHTTPClient replaces the HTTP client used by the api dispatcher.
func WithHTTPClient(client Doer) Option {
	return func(r *Runner) {
		if client != nil {
			r.httpClient = client
		}
	}
}

// WithAPITimeout sets the per-request timeout of the api dispatcher.
func WithAPITimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.apiTimeout = d
		}
	}
}

// WithConfirmDefault sets the decision taken when an action requires
// confirmation but no confirm port is registered. The default is to proceed.
func WithConfirmDefault(proceed bool) Option {
	return func(r *Runner) {
		r.confirmDefault = proceed
	}
}

// WithContext sets the initial action context.
func WithContext(actx *schema.ActionContext) Option {
	return func(r *Runner) {
		if actx != nil {
			r.actx = actx
		}
	}
}

// New creates a Runner with the expr-lang evaluator, a 30s API timeout, and
// auto-confirm when no confirm port is set.
func New(opts ...Option) *Runner {
	r := &Runner{
		evaluator:      expressions.NewExprEngine(),
		logger:         slog.Default(),
		httpClient:     &http.Client{},
		apiTimeout:     defaultAPITimeout,
		confirmDefault: true,
		handlers:       make(map[string]HandlerFunc),
		actx:           schema.NewActionContext(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExecuteAction constructs a transient Runner and executes a single action
// against the given context. Useful for one-off, non-interactive scripting;
// no ports are registered, so side effects surface on the result itself.
func ExecuteAction(ctx context.Context, action *schema.ActionDef, actx *schema.ActionContext) *schema.ActionResult {
	return New(WithContext(actx)).Execute(ctx, action)
}

// Execute runs one action through the full pipeline: guards, confirmation,
// dispatch (or chain), post-processing. It always returns a non-nil result.
func (r *Runner) Execute(ctx context.Context, action *schema.ActionDef) *schema.ActionResult {
	if action == nil {
		return schema.NewError(schema.ErrCodeValidation, "No action provided").Result()
	}

	log := r.logger.With(
		slog.String("run_id", uuid.NewString()),
		slog.String("action_type", typeLabel(action)),
	)

	// Guard failures are pure short-circuits: no confirmation, no dispatch,
	// no callbacks, no toast.
	if res := r.evalGuards(ctx, action); res != nil {
		log.Debug("action guarded", slog.String("reason", res.Error))
		metrics.ActionsExecuted.WithLabelValues(typeLabel(action), metrics.OutcomeGuarded).Inc()
		return res
	}

	if res := r.confirmAction(ctx, action); res != nil {
		log.Debug("action cancelled")
		metrics.ActionsExecuted.WithLabelValues(typeLabel(action), metrics.OutcomeCancelled).Inc()
		return res
	}

	start := time.Now()
	var result *schema.ActionResult
	if len(action.Chain) > 0 {
		result = r.runChain(ctx, action.Chain, action.Mode())
	} else {
		result = r.dispatch(ctx, action)
	}
	metrics.DispatchDuration.Observe(float64(time.Since(start).Milliseconds()))

	r.postProcess(ctx, action, result)

	outcome := metrics.OutcomeSuccess
	if !result.Success {
		outcome = metrics.OutcomeFailure
		log.Debug("action failed", slog.String("error", result.Error))
	}
	metrics.ActionsExecuted.WithLabelValues(typeLabel(action), outcome).Inc()

	return result
}

// evalGuards checks disabled then condition. A non-nil return is the
// terminal guard-failure result.
func (r *Runner) evalGuards(ctx context.Context, action *schema.ActionDef) *schema.ActionResult {
	if d := action.Disabled; d != nil {
		disabled := false
		switch {
		case d.Literal != nil:
			disabled = *d.Literal
		case d.Expr != "":
			// Evaluation errors behave like an undefined value: not disabled.
			val, err := r.evaluator.Evaluate(ctx, d.Expr, r.env())
			disabled = err == nil && truthy(val)
		}
		if disabled {
			return schema.NewError(schema.ErrCodeGuard, "Action is disabled").Result()
		}
	}

	if action.Condition != "" {
		val, err := r.evaluator.Evaluate(ctx, action.Condition, r.env())
		if err != nil || !truthy(val) {
			return schema.NewError(schema.ErrCodeGuard, "Action condition not met").Result()
		}
	}

	return nil
}

// confirmAction consults the confirm port when the action requires
// confirmation. A non-nil return is the terminal cancellation result.
func (r *Runner) confirmAction(ctx context.Context, action *schema.ActionDef) *schema.ActionResult {
	if action.ConfirmText == "" && action.Confirm == nil {
		return nil
	}

	message := action.ConfirmText
	var opts ConfirmOptions
	if action.Confirm != nil {
		message = action.Confirm.Message
		opts = ConfirmOptions{
			Title:       action.Confirm.Title,
			ConfirmText: action.Confirm.ConfirmText,
			CancelText:  action.Confirm.CancelText,
		}
	}

	confirm := r.confirmPort()
	if confirm == nil {
		if r.confirmDefault {
			return nil
		}
		return schema.NewError(schema.ErrCodeCancelled, "Action cancelled by user").Result()
	}

	ok, err := confirm(ctx, message, opts)
	if err != nil || !ok {
		return schema.NewError(schema.ErrCodeCancelled, "Action cancelled by user").Result()
	}
	return nil
}

// Context returns the runner's action context.
func (r *Runner) Context() *schema.ActionContext {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actx
}

// SetContext replaces the action context wholesale.
func (r *Runner) SetContext(actx *schema.ActionContext) {
	if actx == nil {
		actx = schema.NewActionContext()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actx = actx
}

// UpdateContext merges a partial context: each present scope replaces the
// corresponding one, absent scopes are kept.
func (r *Runner) UpdateContext(partial *schema.ActionContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actx.Merge(partial)
}

// Evaluator returns the expression evaluator in use.
func (r *Runner) Evaluator() Evaluator {
	return r.evaluator
}

func (r *Runner) env() map[string]any {
	return r.Context().Env()
}

func typeLabel(action *schema.ActionDef) string {
	if action.Type == "" {
		return "legacy"
	}
	return action.Type
}

// truthy applies loose truthiness to evaluated guard values: nil, false,
// zero numbers, NaN, and empty strings are falsy; everything else is truthy.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case uint:
		return t != 0
	case uint32:
		return t != 0
	case uint64:
		return t != 0
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case float64:
		return t != 0 && !math.IsNaN(t)
	default:
		return true
	}
}
