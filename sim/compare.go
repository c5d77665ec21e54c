package sim

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Comparison is the outcome of one policy inside a Compare call.
type Comparison struct {
	Policy  string
	Result  *Result // nil on failure or timeout
	Metrics Metrics
	Err     error
	// TimedOut is true when the wall-clock budget expired before the run returned.
	// It distinguishes an abandoned run from a converged or non-converged one.
	TimedOut bool
	Elapsed  time.Duration
}

// OK reports whether the run produced a usable result (converged or partial).
func (c Comparison) OK() bool {
	return c.Result != nil && !c.TimedOut
}

// Compare runs every named policy on an independent copy of the workload, one goroutine
// per policy. Results come back through per-task channels and are merged in names order.
// An empty names slice compares every built-in policy.
//
// The descriptors are validated once up front; an invalid workload fails the whole call.
// ctx bounds the wall-clock time; runs still going when it expires are reported as
// TimedOut and abandoned (they finish on their own, bounded by MaxIterations).
func Compare(ctx context.Context, specs []ProcessSpec, params Params, names []string) ([]Comparison, error) {
	if err := ValidateSpecs(specs); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names = BuiltinPolicyNames()
	}

	channels := make([]chan Comparison, len(names))
	for i, name := range names {
		ch := make(chan Comparison, 1)
		channels[i] = ch
		workload := append([]ProcessSpec(nil), specs...)
		go func(name string) {
			started := time.Now()
			res, err := RunPolicy(name, workload, params)
			c := Comparison{Policy: name, Result: res, Err: err, Elapsed: time.Since(started)}
			if res != nil {
				c.Metrics = res.Metrics()
			}
			ch <- c
		}(name)
	}

	out := make([]Comparison, len(names))
	for i, ch := range channels {
		select {
		case c := <-ch:
			out[i] = c
		case <-ctx.Done():
			select {
			case c := <-ch:
				out[i] = c
			default:
				logrus.Warnf("compare: %s abandoned: %v", names[i], ctx.Err())
				out[i] = Comparison{Policy: names[i], Err: ctx.Err(), TimedOut: true}
			}
		}
	}
	return out, nil
}

// BestPolicy returns the comparison entry that wins under criterion. Only entries with a
// usable result take part; ties keep the earlier entry. ok is false if none qualifies.
func BestPolicy(comparisons []Comparison, criterion Criterion) (best Comparison, ok bool) {
	for _, c := range comparisons {
		if !c.OK() {
			continue
		}
		if !ok || criterion.better(c.Metrics, best.Metrics) {
			best, ok = c, true
		}
	}
	return best, ok
}
