// Package env provides a convenient way to convert environment
// variables into Go data. It is similar in design to package
// flag: variables are declared up front and assigned by Parse.
package env

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/engylemure/askql/errors"
	"github.com/engylemure/askql/log"
)

// ErrBadValue is the root of every error produced by Check.
var ErrBadValue = errors.New("bad environment value")

type variable struct {
	name string
	set  func(string) error
}

var vars []variable

func define(name string, set func(string) error) {
	vars = append(vars, variable{name, set})
}

// Int returns a new int pointer.
// When Parse is called,
// env var name will be parsed
// and the resulting value
// will be assigned to the returned location.
func Int(name string, value int) *int {
	p := new(int)
	IntVar(p, name, value)
	return p
}

// IntVar defines an int var with the specified
// name and default value. The argument p points
// to an int variable in which to store the
// value of the environment var.
func IntVar(p *int, name string, value int) {
	*p = value
	define(name, func(s string) error {
		v, err := strconv.Atoi(s)
		if err == nil {
			*p = v
		}
		return err
	})
}

// Float64 is like Int for float64 values.
func Float64(name string, value float64) *float64 {
	p := new(float64)
	*p = value
	define(name, func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err == nil {
			*p = v
		}
		return err
	})
	return p
}

// Bool returns a new bool pointer.
// Parsing uses strconv.ParseBool.
func Bool(name string, value bool) *bool {
	p := new(bool)
	BoolVar(p, name, value)
	return p
}

// BoolVar defines a bool var with the specified
// name and default value.
func BoolVar(p *bool, name string, value bool) {
	*p = value
	define(name, func(s string) error {
		v, err := strconv.ParseBool(s)
		if err == nil {
			*p = v
		}
		return err
	})
}

// Duration returns a new time.Duration pointer,
// parsed with time.ParseDuration.
func Duration(name string, value time.Duration) *time.Duration {
	p := new(time.Duration)
	DurationVar(p, name, value)
	return p
}

// DurationVar defines a time.Duration var with the
// specified name and default value.
func DurationVar(p *time.Duration, name string, value time.Duration) {
	*p = value
	define(name, func(s string) error {
		v, err := time.ParseDuration(s)
		if err == nil {
			*p = v
		}
		return err
	})
}

// String returns a new string pointer.
// When Parse is called,
// env var name will be assigned
// to the returned location.
func String(name string, value string) *string {
	p := new(string)
	StringVar(p, name, value)
	return p
}

// StringVar defines a string with the
// specified name and default value.
func StringVar(p *string, name string, value string) {
	*p = value
	define(name, func(s string) error {
		*p = s
		return nil
	})
}

// OneOf defines a string var whose value must be
// one of allowed. The default value is not checked.
func OneOf(name string, value string, allowed ...string) *string {
	p := new(string)
	*p = value
	define(name, func(s string) error {
		for _, a := range allowed {
			if strings.EqualFold(s, a) {
				*p = a
				return nil
			}
		}
		return fmt.Errorf("want one of %s", strings.Join(allowed, ", "))
	})
	return p
}

// StringSlice returns a pointer to a slice
// of strings. It expects env var name to
// be a list of items delimited by commas.
// If env var name is missing, StringSlice
// returns a pointer to a slice of the value
// strings.
func StringSlice(name string, value ...string) *[]string {
	p := new([]string)
	StringSliceVar(p, name, value...)
	return p
}

// StringSliceVar defines a new string slice
// with the specified name.
func StringSliceVar(p *[]string, name string, value ...string) {
	*p = value
	define(name, func(s string) error {
		*p = strings.Split(s, ",")
		return nil
	})
}

// Check assigns every defined variable that is present
// in the environment and returns one error per value that
// could not be parsed. Variables that fail keep their
// previous value.
func Check() []error {
	var errs []error
	for _, v := range vars {
		s := os.Getenv(v.name)
		if s == "" {
			continue
		}
		if err := v.set(s); err != nil {
			errs = append(errs, errors.WithData(
				errors.Sub(ErrBadValue, errors.Wrap(err, v.name)),
				"name", v.name,
			))
		}
	}
	return errs
}

// Parse parses known env vars
// and assigns the values to the variables
// that were previously registered.
// If any values cannot be parsed,
// Parse logs an error for each one
// and exits the process with status 1.
func Parse() {
	errs := Check()
	if len(errs) == 0 {
		return
	}
	ctx := context.Background()
	for _, err := range errs {
		log.Error(ctx, err)
	}
	os.Exit(1)
}
