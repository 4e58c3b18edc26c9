package env

import (
	"reflect"
	"testing"
	"time"

	"github.com/engylemure/askql/errors"
)

func TestInt(t *testing.T) {
	result := Int("nonexistent", 15)
	Parse()

	if *result != 15 {
		t.Fatalf("expected result=15, got result=%d", *result)
	}

	t.Setenv("MAX_DEPTH_TEST", "25")
	result = Int("MAX_DEPTH_TEST", 15)
	Parse()

	if *result != 25 {
		t.Fatalf("expected result=25, got result=%d", *result)
	}
}

func TestFloat64(t *testing.T) {
	t.Setenv("RATE_LIMIT_TEST", "2.5")
	result := Float64("RATE_LIMIT_TEST", 1)
	Parse()

	if *result != 2.5 {
		t.Fatalf("expected result=2.5, got result=%v", *result)
	}
}

func TestBool(t *testing.T) {
	result := Bool("nonexistent", true)
	Parse()

	if *result != true {
		t.Fatalf("expected result=true, got result=%t", *result)
	}

	t.Setenv("BOOL_KEY_TEST", "false")
	result = Bool("BOOL_KEY_TEST", true)
	Parse()

	if *result != false {
		t.Fatalf("expected result=false, got result=%t", *result)
	}
}

func TestDuration(t *testing.T) {
	result := Duration("nonexistent", 15*time.Second)
	Parse()

	if *result != 15*time.Second {
		t.Fatalf("expected result=15s, got result=%v", *result)
	}

	t.Setenv("DURATION_KEY_TEST", "25s")
	result = Duration("DURATION_KEY_TEST", 15*time.Second)
	Parse()

	if *result != 25*time.Second {
		t.Fatalf("expected result=25s, got result=%v", *result)
	}
}

func TestString(t *testing.T) {
	result := String("nonexistent", "default")
	Parse()

	if *result != "default" {
		t.Fatalf("expected result=default, got result=%s", *result)
	}

	t.Setenv("STRING_KEY_TEST", "something-new")
	result = String("STRING_KEY_TEST", "default")
	Parse()

	if *result != "something-new" {
		t.Fatalf("expected result=something-new, got result=%s", *result)
	}
}

func TestOneOf(t *testing.T) {
	t.Setenv("POLICY_KEY_TEST", "STRICT")
	result := OneOf("POLICY_KEY_TEST", "best-effort", "best-effort", "strict", "collect")
	Parse()

	if *result != "strict" {
		t.Fatalf("expected result=strict, got result=%s", *result)
	}
}

func TestStringSlice(t *testing.T) {
	result := StringSlice("empty", "hi")
	Parse()

	exp := []string{"hi"}
	if !reflect.DeepEqual(exp, *result) {
		t.Fatalf("expected %v, got %v", exp, *result)
	}

	t.Setenv("STRING_SLICE_KEY_TEST", "hello,world")
	result = StringSlice("STRING_SLICE_KEY_TEST", "hi")
	Parse()

	exp = []string{"hello", "world"}
	if !reflect.DeepEqual(exp, *result) {
		t.Fatalf("expected %v, got %v", exp, *result)
	}
}

func TestCheckBadValue(t *testing.T) {
	saved := vars
	defer func() { vars = saved }()
	vars = nil

	t.Setenv("BAD_INT_TEST", "twelve")
	t.Setenv("BAD_POLICY_TEST", "sometimes")
	n := Int("BAD_INT_TEST", 7)
	p := OneOf("BAD_POLICY_TEST", "strict", "strict", "collect")

	errs := Check()
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}
	for i, err := range errs {
		if errors.Root(err) != ErrBadValue {
			t.Errorf("%d: Root = %v want %v", i, errors.Root(err), ErrBadValue)
		}
	}
	if got := errors.Data(errs[0])["name"]; got != "BAD_INT_TEST" {
		t.Errorf("name = %v want BAD_INT_TEST", got)
	}
	if *n != 7 || *p != "strict" {
		t.Errorf("failed values must keep defaults, got %d %q", *n, *p)
	}
}
