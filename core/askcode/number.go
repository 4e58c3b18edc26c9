package askcode

import (
	"regexp"
	"strconv"

	"github.com/engylemure/askql/errors"
)

// ErrBadNumber is returned when a number literal can't be
// converted to an Int or a Float.
var ErrBadNumber = errors.New("bad number literal")

var floatLiteral = regexp.MustCompile(`^[-+]?\d*\.\d*$`)

// Number is a numeric literal whose kind is not decided
// until it is consumed. It holds the literal text exactly as
// the parser captured it, which may be malformed ("1-2").
type Number string

// IsFloat reports whether n is written with a decimal point.
func (n Number) IsFloat() bool {
	return floatLiteral.MatchString(string(n))
}

// Resolve converts n into a Float if it has a decimal point
// and into an Int otherwise.
func (n Number) Resolve() (Value, error) {
	if n.IsFloat() {
		f, err := strconv.ParseFloat(string(n), 32)
		if err != nil {
			return nil, errors.WithData(errors.Sub(ErrBadNumber, err), "literal", string(n))
		}
		return Float(f), nil
	}
	i, err := strconv.ParseInt(string(n), 10, 32)
	if err != nil {
		return nil, errors.WithData(errors.Sub(ErrBadNumber, err), "literal", string(n))
	}
	return Int(i), nil
}

// Resolve returns v with any Number replaced by its Int or
// Float form. Lists and objects are resolved element-wise.
// Other values are returned unchanged.
func Resolve(v Value) (Value, error) {
	switch v := v.(type) {
	case Number:
		return v.Resolve()
	case List:
		out := make(List, len(v))
		for i, x := range v {
			r, err := Resolve(x)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case Object:
		out := make(Object, len(v))
		for k, x := range v {
			r, err := Resolve(x)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	}
	return v, nil
}
