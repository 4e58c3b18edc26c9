package resources

import (
	"context"

	"github.com/codahale/metrics"

	"github.com/engylemure/askql/core/askcode"
	"github.com/engylemure/askql/core/vm"
	"github.com/engylemure/askql/errors"
)

// node(name, value, fields...) projects value through fields.
//
// If node is called with an object as its first argument, the
// object's fields are in scope while value is evaluated. This is
// how a field sees the object it is projected from.
//
// A list value is projected element by element. An object value
// becomes a new object with one entry per field: the field's
// first parameter, evaluated with the object as argument, is the
// key, and the whole field, evaluated the same way, is the value.
// Any other value is returned as is.
func node(ctx context.Context, m *vm.VM, code askcode.Code, args []askcode.Value, scope vm.Scope) (askcode.Value, error) {
	if code.Params == nil {
		return askcode.Null{}, nil
	}
	if len(code.Params) < 2 {
		return nil, errors.WithDetailf(vm.ErrArity, "node needs a name and a value, got %d parameters", len(code.Params))
	}
	if len(args) > 0 {
		if obj, ok := args[0].(askcode.Object); ok {
			scope = scope.Merge(vm.ObjectScope(obj))
		}
	}

	value, err := m.Soften(m.Run(ctx, code.Params[1], nil, scope))
	if err != nil {
		return nil, err
	}
	fields := code.Params[2:]

	elems, ok := value.(askcode.List)
	if !ok {
		return project(ctx, m, value, fields, scope)
	}
	out, err := m.FanOut(ctx, len(elems), func(ctx context.Context, i int) (askcode.Value, error) {
		return project(ctx, m, elems[i], fields, scope)
	})
	if err != nil {
		return nil, err
	}
	for i, v := range out {
		if v == nil {
			out[i] = askcode.Null{}
		}
	}
	return askcode.List(out), nil
}

func project(ctx context.Context, m *vm.VM, v askcode.Value, fields []askcode.Node, scope vm.Scope) (askcode.Value, error) {
	obj, ok := v.(askcode.Object)
	if !ok {
		return v, nil
	}
	codes := make([]askcode.Code, len(fields))
	for i, f := range fields {
		c, ok := f.(askcode.Code)
		if !ok || len(c.Params) == 0 {
			return nil, errors.WithData(
				errors.WithDetailf(vm.ErrMalformedField, "field %d is %s", i, askcode.Source(f)),
				"field", i,
			)
		}
		codes[i] = c
	}

	type entry struct {
		key askcode.String
		val askcode.Value
		ok  bool
	}
	entries := make([]entry, len(codes))
	self := []askcode.Value{obj}
	_, err := m.FanOut(ctx, len(codes), func(ctx context.Context, i int) (askcode.Value, error) {
		name, err := m.Run(ctx, codes[i].Params[0], self, scope)
		if err != nil {
			return nil, err
		}
		val, err := m.Soften(m.Run(ctx, codes[i], self, scope))
		if err != nil {
			return nil, err
		}
		key, ok := name.(askcode.String)
		if !ok {
			metrics.Counter("vm.projection.bad_key").Add()
			return val, nil
		}
		entries[i] = entry{key, val, true}
		return val, nil
	})
	if err != nil {
		return nil, err
	}

	res := make(askcode.Object, len(entries))
	for _, e := range entries {
		if e.ok {
			res[string(e.key)] = e.val
		}
	}
	return res, nil
}

// query(fields...) projects the bound values through fields. It
// is node('value', {}, fields...).
func query(ctx context.Context, m *vm.VM, code askcode.Code, args []askcode.Value, scope vm.Scope) (askcode.Value, error) {
	if code.Params == nil {
		return askcode.Null{}, nil
	}
	params := make([]askcode.Node, 0, len(code.Params)+2)
	params = append(params, askcode.String("value"), askcode.Object{})
	params = append(params, code.Params...)
	return node(ctx, m, askcode.Code{Name: "node", Params: params}, nil, scope)
}
