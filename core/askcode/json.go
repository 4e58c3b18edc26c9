package askcode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/engylemure/askql/errors"
)

// ErrUnsupported is returned by FromInterface for Go values
// that have no AskQL counterpart.
var ErrUnsupported = errors.New("unsupported value")

func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func (b Bool) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatBool(bool(b))), nil
}

func (i Int) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(i), 10)), nil
}

func (f Float) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(f), 'g', -1, 32)), nil
}

// MarshalJSON encodes the resolved number, or 0 if n
// doesn't resolve.
func (n Number) MarshalJSON() ([]byte, error) {
	v, err := n.Resolve()
	if err != nil {
		return []byte("0"), nil
	}
	return json.Marshal(v)
}

func (s String) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (l List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Value(l))
}

func (o Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]Value(o))
}

// FromInterface converts a decoded JSON or YAML document into a
// Value. Numbers decoded as json.Number stay deferred as Number;
// float64 and the integer types are converted directly.
func FromInterface(x interface{}) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		return Number(x), nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(x), nil
	case int:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case []interface{}:
		l := make(List, len(x))
		for i, e := range x {
			v, err := FromInterface(e)
			if err != nil {
				return nil, errors.Wrapf(err, "index %d", i)
			}
			l[i] = v
		}
		return l, nil
	case map[string]interface{}:
		o := make(Object, len(x))
		for k, e := range x {
			v, err := FromInterface(e)
			if err != nil {
				return nil, errors.Wrapf(err, "key %q", k)
			}
			o[k] = v
		}
		return o, nil
	}
	return nil, errors.WithDetailf(ErrUnsupported, "cannot convert %T", x)
}

// DecodeJSON decodes one JSON text into a Value, keeping
// numbers deferred.
func DecodeJSON(b []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var x interface{}
	if err := dec.Decode(&x); err != nil {
		return nil, errors.Wrap(err, "decoding value")
	}
	return FromInterface(x)
}

// jsonCode is the JSON form of a Code. Params is absent for a
// bare identifier and present, possibly empty, for an invocation.
type jsonCode struct {
	Name   string             `json:"name"`
	Params *[]json.RawMessage `json:"params,omitempty"`
}

// EncodeNode renders n as JSON. A Code becomes
// {"name": ..., "params": [...]}, with "params" absent for a
// bare identifier; a Value becomes {"kind": ..., "value": ...},
// a Number keeping its literal text.
func EncodeNode(n Node) ([]byte, error) {
	switch n := n.(type) {
	case Code:
		jc := jsonCode{Name: n.Name}
		if n.Params != nil {
			params := make([]json.RawMessage, 0, len(n.Params))
			for _, p := range n.Params {
				b, err := EncodeNode(p)
				if err != nil {
					return nil, err
				}
				params = append(params, b)
			}
			jc.Params = &params
		}
		return json.Marshal(jc)
	case Number:
		return json.Marshal(struct {
			Kind  string `json:"kind"`
			Value string `json:"value"`
		}{KindNumber.String(), string(n)})
	case Value:
		return json.Marshal(struct {
			Kind  string `json:"kind"`
			Value Value  `json:"value"`
		}{n.Kind().String(), n})
	}
	return nil, fmt.Errorf("askcode: unexpected node type %T", n)
}
