package vm

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/engylemure/askql/errors"
)

var (
	// ErrUnknownIdentifier means no scope entry, resource or
	// bound value has the requested name.
	ErrUnknownIdentifier = errors.New("unknown identifier")

	// ErrMalformedField means a projection field is not an
	// invocation with a name expression.
	ErrMalformedField = errors.New("malformed projection field")

	// ErrMaxDepth means evaluation nested deeper than
	// Config.MaxDepth.
	ErrMaxDepth = errors.New("maximum evaluation depth exceeded")

	ErrTypeMismatch = errors.New("type mismatch")
	ErrArity        = errors.New("wrong number of arguments")
)

// IsFatal reports whether err must abort evaluation under every
// failure policy. Malformed programs, runaway nesting and
// cancellation are fatal; everything else is subject to the
// VM's Policy.
func IsFatal(err error) bool {
	switch root := errors.Root(err); root {
	case ErrMalformedField, ErrMaxDepth, context.Canceled, context.DeadlineExceeded:
		return true
	default:
		if merr, ok := root.(*multierror.Error); ok {
			for _, e := range merr.Errors {
				if IsFatal(e) {
					return true
				}
			}
		}
	}
	return false
}
