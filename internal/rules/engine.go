package rules

import "context"

// Engine runs an ordered list of rules against one candidate.  The
// order is significant: cheap date-sanity rules run before the
// repository-backed ones, and each operation assembles its own
// list, so not every rule runs for every operation.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine over the given rules.  The slice is
// evaluated in the order supplied.
func NewEngine(rules ...Rule) *Engine { return &Engine{rules: rules} }

// Process evaluates every rule in order.  The first failure aborts
// the pipeline and is returned unchanged; no rule is retried.  A
// nil return means the candidate passed the whole list.
func (e *Engine) Process(ctx context.Context, cand Candidate) error {
	for _, r := range e.rules {
		if err := r.Validate(ctx, cand); err != nil {
			return err
		}
	}
	return nil
}
