package askcode

import (
	"sort"
	"strconv"
)

// Kind identifies the variant of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindNumber
	KindString
	KindList
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindNumber: "number",
	KindString: "string",
	KindList:   "list",
	KindObject: "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value is a runtime value. The concrete types are
// Null, Bool, Int, Float, Number, String, List and Object.
// Every Value is also a Node, so values can appear
// directly in a program tree.
type Value interface {
	Node
	Kind() Kind
}

type (
	// Null is the absent value.
	Null struct{}

	Bool  bool
	Int   int32
	Float float32

	// String holds the text of a string literal as written
	// in the source, escape sequences included.
	String string

	// List is an ordered sequence of values.
	List []Value

	// Object maps names to values. Its JSON form and Keys
	// are in sorted key order.
	Object map[string]Value
)

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (List) Kind() Kind   { return KindList }
func (Object) Kind() Kind { return KindObject }

func (Null) isNode()   {}
func (Bool) isNode()   {}
func (Int) isNode()    {}
func (Float) isNode()  {}
func (Number) isNode() {}
func (String) isNode() {}
func (List) isNode()   {}
func (Object) isNode() {}

// Keys returns the names in o in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the values of o ordered by their keys.
func (o Object) Values() []Value {
	vals := make([]Value, 0, len(o))
	for _, k := range o.Keys() {
		vals = append(vals, o[k])
	}
	return vals
}

// With returns a copy of o with name set to v.
func (o Object) With(name string, v Value) Object {
	c := make(Object, len(o)+1)
	for k, x := range o {
		c[k] = x
	}
	c[name] = v
	return c
}

// Equal reports whether a and b are the same value.
// Numbers compare by literal text, so Number("4") and Int(4)
// are different values; resolve numbers first to compare them
// numerically.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case List:
		b := b.(List)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Object:
		b := b.(Object)
		if len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return a == b
}

// Text formats scalar v the way string concatenation sees it.
// Numbers are resolved first. It reports false for values
// that have no text form (null, bool, list, object) and for
// numbers that don't resolve.
func Text(v Value) (string, bool) {
	switch v := v.(type) {
	case String:
		return string(v), true
	case Int:
		return strconv.FormatInt(int64(v), 10), true
	case Float:
		return formatFloat(v), true
	case Number:
		r, err := v.Resolve()
		if err != nil {
			return "", false
		}
		return Text(r)
	}
	return "", false
}

func formatFloat(f Float) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}
