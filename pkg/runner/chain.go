package runner

import (
	"context"
	"sync"

	"github.com/schemaui/actioneer/internal/metrics"
	"github.com/schemaui/actioneer/pkg/schema"
)

// ExecuteChain runs a list of actions as a top-level sequential chain,
// without guard or confirmation wrapping around the list itself. An empty
// list trivially succeeds.
func (r *Runner) ExecuteChain(ctx context.Context, entries []*schema.ActionDef) *schema.ActionResult {
	return r.runChain(ctx, entries, schema.ChainSequential)
}

func (r *Runner) runChain(ctx context.Context, entries []*schema.ActionDef, mode string) *schema.ActionResult {
	metrics.ChainsExecuted.WithLabelValues(mode).Inc()
	if mode == schema.ChainParallel {
		return r.runParallel(ctx, entries)
	}
	return r.runSequential(ctx, entries)
}

// runSequential executes entries strictly in order. The first failure is
// returned verbatim and later entries are never started. When all succeed,
// the last entry's result is returned.
func (r *Runner) runSequential(ctx context.Context, entries []*schema.ActionDef) *schema.ActionResult {
	result := schema.Succeeded()
	for _, entry := range entries {
		res := r.Execute(ctx, entry)
		if !res.Success {
			return res
		}
		result = res
	}
	return result
}

// runParallel starts every entry before awaiting any of them, then joins on
// a WaitGroup barrier. Aggregation policy: the first failure in definition
// order wins; when all succeed, Data holds the per-entry data slice in
// definition order.
func (r *Runner) runParallel(ctx context.Context, entries []*schema.ActionDef) *schema.ActionResult {
	if len(entries) == 0 {
		return schema.Succeeded()
	}

	results := make([]*schema.ActionResult, len(entries))
	var wg sync.WaitGroup
	wg.Add(len(entries))
	for i, entry := range entries {
		go func(i int, entry *schema.ActionDef) {
			defer wg.Done()
			results[i] = r.Execute(ctx, entry)
		}(i, entry)
	}
	wg.Wait()

	data := make([]any, len(results))
	for i, res := range results {
		if !res.Success {
			return res
		}
		data[i] = res.Data
	}
	return schema.SucceededWith(data)
}
