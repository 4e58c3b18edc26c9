package resources

import (
	"context"

	"github.com/engylemure/askql/core/askcode"
	"github.com/engylemure/askql/core/vm"
	"github.com/engylemure/askql/errors"
)

// Fun returns a statement-block resource named name. Its
// parameters are statements and its result is the value of the
// last statement that succeeded, or Null.
//
// Called with args, as a function body, the statements run one
// after another. Otherwise they run concurrently; the result is
// still the last one in declaration order.
func Fun(name string) vm.Resource {
	return vm.ComputeFunc(name, func(ctx context.Context, m *vm.VM, code askcode.Code, args []askcode.Value, scope vm.Scope) (askcode.Value, error) {
		var (
			vals []askcode.Value
			err  error
		)
		if args != nil {
			vals, err = m.RunSeq(ctx, code.Params, scope)
		} else {
			vals, err = m.RunAll(ctx, code.Params, scope)
		}
		if err != nil {
			return nil, err
		}
		if len(vals) == 0 {
			return askcode.Null{}, nil
		}
		return vals[len(vals)-1], nil
	})
}

// call(fn, a, b, ...) evaluates a, b, ... and calls fn with them.
func call(ctx context.Context, m *vm.VM, code askcode.Code, args []askcode.Value, scope vm.Scope) (askcode.Value, error) {
	if len(code.Params) == 0 {
		return nil, errors.WithDetail(vm.ErrArity, "call needs a function")
	}
	fnArgs, err := m.RunAll(ctx, code.Params[1:], scope)
	if err != nil {
		return nil, err
	}
	if fnArgs == nil {
		fnArgs = []askcode.Value{}
	}
	return m.Soften(m.Run(ctx, code.Params[0], fnArgs, scope))
}

// get(name) looks up the resource or value called name, passing
// along its own args and scope. It turns a name computed at run
// time into a callable reference: call(get('+'), 2, 3).
func get(ctx context.Context, m *vm.VM, code askcode.Code, args []askcode.Value, scope vm.Scope) (askcode.Value, error) {
	if len(code.Params) == 0 {
		return nil, errors.WithDetail(vm.ErrArity, "get needs a name")
	}
	v, err := m.Run(ctx, code.Params[0], nil, scope)
	if err != nil {
		return nil, err
	}
	name, ok := v.(askcode.String)
	if !ok {
		return nil, errors.WithDetailf(vm.ErrTypeMismatch, "get name is %s, not string", v.Kind())
	}
	return m.Run(ctx, askcode.ID(string(name)), args, scope)
}

// equals reports whether all of its arguments are equal.
// Numbers compare by value, so 4 and 4.0 differ (int vs float)
// but two spellings of the same int do not.
func equals(_ context.Context, args []askcode.Value) (askcode.Value, error) {
	for i := 1; i < len(args); i++ {
		a, err := askcode.Resolve(args[i-1])
		if err != nil {
			return nil, err
		}
		b, err := askcode.Resolve(args[i])
		if err != nil {
			return nil, err
		}
		if !askcode.Equal(a, b) {
			return askcode.Bool(false), nil
		}
	}
	return askcode.Bool(true), nil
}

// object builds an Object from alternating keys and values, as
// written by the {key: value} literal. A bare identifier in key
// position is the key itself, so {a: 1} and {'a': 1} agree. A
// value that fails to evaluate is Null rather than dropped, so
// pairs stay aligned.
func object(ctx context.Context, m *vm.VM, code askcode.Code, args []askcode.Value, scope vm.Scope) (askcode.Value, error) {
	if args == nil {
		var err error
		args, err = m.FanOut(ctx, len(code.Params), func(ctx context.Context, i int) (askcode.Value, error) {
			if c, ok := code.Params[i].(askcode.Code); ok && i%2 == 0 && c.IsID() {
				return askcode.String(c.Name), nil
			}
			return m.Run(ctx, code.Params[i], nil, scope)
		})
		if err != nil {
			return nil, err
		}
	}
	if len(args)%2 != 0 {
		return nil, errors.WithDetailf(vm.ErrArity, "object needs key/value pairs, got %d arguments", len(args))
	}
	obj := make(askcode.Object, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		k, ok := args[i].(askcode.String)
		if !ok {
			return nil, errors.WithDetailf(vm.ErrTypeMismatch, "object key is %s, not string", kindOf(args[i]))
		}
		v := args[i+1]
		if v == nil {
			v = askcode.Null{}
		}
		obj[string(k)] = v
	}
	return obj, nil
}

func kindOf(v askcode.Value) askcode.Kind {
	if v == nil {
		return askcode.KindNull
	}
	return v.Kind()
}
