// Package errors wraps errors with context, detail, data, and a
// stack trace, while keeping the original (root) error reachable.
//
// Sentinel errors are compared against Root, never against the
// wrapped value:
//
//	if errors.Root(err) == parser.ErrEmptyProgram { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// wrapperError carries the accumulated context of one root error.
type wrapperError struct {
	msg    string
	detail []string
	data   map[string]interface{}
	stack  []StackFrame
	root   error
}

func (e wrapperError) Error() string {
	return e.msg
}

// Unwrap lets the standard library's errors.Is and errors.As
// see the root error.
func (e wrapperError) Unwrap() error {
	return e.root
}

// Root returns the original error that was wrapped by one or more
// calls to Wrap. If e does not wrap other errors, it will be returned
// as-is.
func Root(e error) error {
	if wErr, ok := e.(wrapperError); ok {
		return wErr.root
	}
	return e
}

// wrap adds msg and, for a fresh root, a stack trace to err.
// stackSkip is the number of frames to ascend, where 0 is the
// caller of wrap.
func wrap(err error, msg string, stackSkip int) error {
	if err == nil {
		return nil
	}

	werr, ok := err.(wrapperError)
	if !ok {
		werr.root = err
		werr.msg = err.Error()
		werr.stack = getStack(stackSkip+2, stackTraceSize)
	}
	if msg != "" {
		werr.msg = msg + ": " + werr.msg
	}
	return werr
}

// Wrap adds a context message and stack trace to err and returns a new error
// with the new context. Arguments are handled as in fmt.Print.
// Wrap returns nil if err is nil.
func Wrap(err error, a ...interface{}) error {
	return wrap(err, fmt.Sprint(a...), 1)
}

// Wrapf is like Wrap, but arguments are handled as in fmt.Printf.
func Wrapf(err error, format string, a ...interface{}) error {
	return wrap(err, fmt.Sprintf(format, a...), 1)
}

// WithDetail returns a new error that wraps err with text as
// user-facing detail. Detail returns the accumulated text.
func WithDetail(err error, text string) error {
	if err == nil {
		return nil
	}
	if text == "" {
		return err
	}
	e1 := wrap(err, text, 1).(wrapperError)
	e1.detail = append(e1.detail[:len(e1.detail):len(e1.detail)], text)
	return e1
}

// WithDetailf is like WithDetail, except it formats
// the detail message as in fmt.Printf.
func WithDetailf(err error, format string, v ...interface{}) error {
	if err == nil {
		return nil
	}
	text := fmt.Sprintf(format, v...)
	e1 := wrap(err, text, 1).(wrapperError)
	e1.detail = append(e1.detail[:len(e1.detail):len(e1.detail)], text)
	return e1
}

// Detail returns the detail message contained in err, if any.
func Detail(err error) string {
	wrapper, _ := err.(wrapperError)
	return strings.Join(wrapper.detail, "; ")
}

// WithData returns a new error that wraps err and carries the
// key-value pairs in keyval, merged over any data already in err.
// Keyval takes the form
//
//	k1, v1, k2, v2, ...
//
// Keys must be strings.
func WithData(err error, keyval ...interface{}) error {
	if err == nil {
		return nil
	}
	newkv := make(map[string]interface{})
	for k, v := range Data(err) {
		newkv[k] = v
	}
	for i := 0; i+1 < len(keyval); i += 2 {
		newkv[keyval[i].(string)] = keyval[i+1]
	}
	e1 := wrap(err, "", 1).(wrapperError)
	e1.data = newkv
	return e1
}

// Data returns the data item in err, if any.
func Data(err error) map[string]interface{} {
	wrapper, _ := err.(wrapperError)
	return wrapper.data
}

// Sub returns an error whose root is new, keeping the message,
// detail, data, and stack of err. It is useful for mapping a
// low-level failure onto a package's exported sentinel.
// Sub returns nil if err is nil.
func Sub(new, err error) error {
	if err == nil {
		return nil
	}
	werr, ok := err.(wrapperError)
	if !ok {
		werr.msg = err.Error()
		werr.stack = getStack(2, stackTraceSize)
	}
	werr.root = new
	werr.msg = new.Error() + ": " + werr.msg
	return werr
}
