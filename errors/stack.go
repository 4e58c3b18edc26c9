package errors

import (
	"fmt"
	"runtime"
)

const stackTraceSize = 16

// StackFrame represents a single entry in a stack trace.
type StackFrame struct {
	Func string
	File string
	Line int
}

// String satisfies the fmt.Stringer interface.
func (f StackFrame) String() string {
	return fmt.Sprintf("%s:%d - %s", f.File, f.Line, f.Func)
}

// Stack returns the stack trace recorded when the root of err
// was first wrapped, or nil if err was never wrapped.
func Stack(err error) []StackFrame {
	if wErr, ok := err.(wrapperError); ok {
		return wErr.stack
	}
	return nil
}

// getStack captures at most size frames, skipping skip frames
// above its caller.
func getStack(skip int, size int) []StackFrame {
	pc := make([]uintptr, size)
	n := runtime.Callers(skip+1, pc)
	if n == 0 {
		return nil
	}

	var trace []StackFrame
	frames := runtime.CallersFrames(pc[:n])
	for {
		f, more := frames.Next()
		trace = append(trace, StackFrame{Func: f.Function, File: f.File, Line: f.Line})
		if !more {
			break
		}
	}
	return trace
}
