package vm

import (
	"context"

	"github.com/engylemure/askql/core/askcode"
)

// A Resource is a named operation. Compute receives the
// invocation as written; it decides itself which parameters to
// evaluate and how. args is nil unless the resource is being
// called as a function (see the call resource), in which case it
// holds already evaluated argument values.
type Resource interface {
	Name() string
	Compute(ctx context.Context, vm *VM, code askcode.Code, args []askcode.Value, scope Scope) (askcode.Value, error)
}

// Resolver is a Resource for functions of evaluated values.
// When called without args, the invocation's parameters are
// evaluated concurrently (see VM.RunAll) and passed to Fn.
// When called with args, they replace the parameters.
type Resolver struct {
	ResourceName string
	Fn           func(ctx context.Context, args []askcode.Value) (askcode.Value, error)
}

func (r Resolver) Name() string {
	return r.ResourceName
}

func (r Resolver) Compute(ctx context.Context, vm *VM, code askcode.Code, args []askcode.Value, scope Scope) (askcode.Value, error) {
	if args == nil {
		var err error
		args, err = vm.RunAll(ctx, code.Params, scope)
		if err != nil {
			return nil, err
		}
	}
	return r.Fn(ctx, args)
}

// ComputeFunc adapts an ordinary function to the Resource
// interface under the given name.
func ComputeFunc(name string, f func(ctx context.Context, vm *VM, code askcode.Code, args []askcode.Value, scope Scope) (askcode.Value, error)) Resource {
	return computeFunc{name, f}
}

type computeFunc struct {
	name string
	f    func(context.Context, *VM, askcode.Code, []askcode.Value, Scope) (askcode.Value, error)
}

func (c computeFunc) Name() string { return c.name }

func (c computeFunc) Compute(ctx context.Context, vm *VM, code askcode.Code, args []askcode.Value, scope Scope) (askcode.Value, error) {
	return c.f(ctx, vm, code, args, scope)
}
