package vm

import (
	"context"

	"github.com/codahale/metrics"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/engylemure/askql/core/askcode"
)

// FanOut calls fn(ctx, i) concurrently for each i in [0, n), at
// most Config.MaxFanOut at a time, and returns the results
// indexed by i. The entry of a call that
// failed is nil when the policy lets the fan-out succeed anyway.
//
// A fatal error, or any error under Strict, cancels the
// remaining calls and is returned. Under Collect every call runs
// to completion and all failures are returned together.
func (vm *VM) FanOut(ctx context.Context, n int, fn func(context.Context, int) (askcode.Value, error)) ([]askcode.Value, error) {
	results := make([]askcode.Value, n)
	errs := make([]error, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(vm.config.MaxFanOut)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			v, err := fn(gctx, i)
			if err != nil {
				errs[i] = err
				if vm.config.Policy == Strict || IsFatal(err) {
					return err
				}
				return nil
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merr *multierror.Error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if vm.config.Policy == Collect {
			merr = multierror.Append(merr, err)
		} else {
			metrics.Counter("vm.dropped").Add()
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunAll evaluates nodes concurrently, without args, and returns
// the values of those that succeeded in declaration order.
func (vm *VM) RunAll(ctx context.Context, nodes []askcode.Node, scope Scope) ([]askcode.Value, error) {
	results, err := vm.FanOut(ctx, len(nodes), func(ctx context.Context, i int) (askcode.Value, error) {
		return vm.Run(ctx, nodes[i], nil, scope)
	})
	if err != nil {
		return nil, err
	}
	return compact(results), nil
}

// RunSeq is like RunAll but evaluates nodes one at a time, in
// order.
func (vm *VM) RunSeq(ctx context.Context, nodes []askcode.Node, scope Scope) ([]askcode.Value, error) {
	var (
		out  []askcode.Value
		merr *multierror.Error
	)
	for _, n := range nodes {
		v, err := vm.Run(ctx, n, nil, scope)
		if err == nil {
			out = append(out, v)
			continue
		}
		switch {
		case vm.config.Policy == Strict || IsFatal(err):
			return nil, err
		case vm.config.Policy == Collect:
			merr = multierror.Append(merr, err)
		default:
			metrics.Counter("vm.dropped").Add()
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// Soften returns v and err unchanged unless err is a non-fatal
// error under BestEffort, in which case it returns Null and no
// error. Resources use it where a failed evaluation stands for a
// missing value.
func (vm *VM) Soften(v askcode.Value, err error) (askcode.Value, error) {
	if err == nil {
		return v, nil
	}
	if vm.config.Policy == BestEffort && !IsFatal(err) {
		metrics.Counter("vm.dropped").Add()
		return askcode.Null{}, nil
	}
	return nil, err
}

func compact(vals []askcode.Value) []askcode.Value {
	out := make([]askcode.Value, 0, len(vals))
	for _, v := range vals {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}
