// Package testutil holds assertion helpers shared by package tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/engylemure/askql/errors"
)

var wd, _ = os.Getwd()

var dump = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}

// ExpectEqual reports a test error, with a dump of both values,
// when actual and expected are not reflect.DeepEqual.
func ExpectEqual(t testing.TB, actual, expected interface{}, msg string) {
	t.Helper()
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("%s:\ngot:  %s\nwant: %s\n%s", msg, dump.Sdump(actual), dump.Sdump(expected), stackTrace())
	}
}

// ExpectError calls fn and reports a test error unless the root
// of its result is expected.
func ExpectError(t testing.TB, expected error, msg string, fn func() error) {
	t.Helper()
	actual := fn()
	if expected != errors.Root(actual) {
		t.Errorf("%s: got error %v, expected %v\n%s", msg, actual, expected, stackTrace())
	}
}

// FatalErr fails the test with err and the stack recorded
// when err was first wrapped.
func FatalErr(t testing.TB, err error) {
	t.Helper()
	args := []interface{}{err}
	for _, frame := range errors.Stack(err) {
		file := frame.File
		if rel, err := filepath.Rel(wd, file); err == nil && !strings.HasPrefix(rel, "../") {
			file = rel
		}
		funcname := frame.Func[strings.IndexByte(frame.Func, '.')+1:]
		s := fmt.Sprintf("\n%s:%d: %s", file, frame.Line, funcname)
		args = append(args, s)
	}
	t.Fatal(args...)
}

func stackTrace() []byte {
	buf := make([]byte, 16384)
	len := runtime.Stack(buf, false)
	return buf[:len]
}
