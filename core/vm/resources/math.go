package resources

import (
	"context"

	"github.com/engylemure/askql/core/askcode"
)

// Arithmetic keeps ints and floats apart until the end: a result
// is an Int unless some operand was a Float. Operands that are
// not numbers are ignored.

func numeric(v askcode.Value) (askcode.Value, bool) {
	if n, ok := v.(askcode.Number); ok {
		r, err := n.Resolve()
		if err != nil {
			return nil, false
		}
		v = r
	}
	switch v.(type) {
	case askcode.Int, askcode.Float:
		return v, true
	}
	return nil, false
}

func sum(_ context.Context, args []askcode.Value) (askcode.Value, error) {
	var (
		isum     int32
		fsum     float32
		hasFloat bool
	)
	for _, a := range args {
		switch v, _ := numeric(a); v := v.(type) {
		case askcode.Int:
			isum += int32(v)
		case askcode.Float:
			fsum += float32(v)
			hasFloat = true
		}
	}
	if hasFloat {
		return askcode.Float(fsum + float32(isum)), nil
	}
	return askcode.Int(isum), nil
}

// minus subtracts every later operand from the first.
func minus(_ context.Context, args []askcode.Value) (askcode.Value, error) {
	var (
		idiff    int32
		fdiff    float32
		hasFloat bool
		first    = true
	)
	for _, a := range args {
		v, ok := numeric(a)
		if !ok {
			continue
		}
		switch v := v.(type) {
		case askcode.Int:
			if first {
				idiff = int32(v)
			} else {
				idiff -= int32(v)
			}
		case askcode.Float:
			hasFloat = true
			if first {
				fdiff = float32(v)
			} else {
				fdiff -= float32(v)
			}
		}
		first = false
	}
	if hasFloat {
		return askcode.Float(fdiff + float32(idiff)), nil
	}
	return askcode.Int(idiff), nil
}

func times(_ context.Context, args []askcode.Value) (askcode.Value, error) {
	var (
		iprod    int32 = 1
		fprod    float32 = 1
		hasFloat bool
	)
	for _, a := range args {
		switch v, _ := numeric(a); v := v.(type) {
		case askcode.Int:
			iprod *= int32(v)
		case askcode.Float:
			fprod *= float32(v)
			hasFloat = true
		}
	}
	if hasFloat {
		return askcode.Float(fprod * float32(iprod)), nil
	}
	return askcode.Int(iprod), nil
}

// maximum returns the greatest number among its arguments, looking
// inside lists and objects. On a tie the earlier operand wins,
// so max(1, 1.0) is 1. With no numbers at all it returns Null.
func maximum(_ context.Context, args []askcode.Value) (askcode.Value, error) {
	var (
		best  askcode.Value = askcode.Null{}
		bestF float64
		found bool
	)
	for _, a := range flatten(nil, args) {
		v, ok := numeric(a)
		if !ok {
			continue
		}
		f := toFloat(v)
		if !found || f > bestF {
			best, bestF, found = v, f, true
		}
	}
	return best, nil
}

// flatten appends the leaves of vals to dst. Object fields are
// visited in key order.
func flatten(dst, vals []askcode.Value) []askcode.Value {
	for _, v := range vals {
		switch v := v.(type) {
		case askcode.List:
			dst = flatten(dst, v)
		case askcode.Object:
			dst = flatten(dst, v.Values())
		default:
			dst = append(dst, v)
		}
	}
	return dst
}

func toFloat(v askcode.Value) float64 {
	switch v := v.(type) {
	case askcode.Int:
		return float64(v)
	case askcode.Float:
		return float64(v)
	}
	return 0
}
