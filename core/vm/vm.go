/*
Package vm evaluates AskQL program trees.

A VM holds a table of resources (named operations) and a table of
bound values, both fixed when the VM is built. Run evaluates one
node:

  1. a Number is resolved to an Int or a Float; other values
     evaluate to themselves;
  2. a Code whose name is in the scope evaluates the scope entry,
     with the scope cleared;
  3. otherwise a registered resource of that name computes the
     result;
  4. otherwise a bound value of that name is evaluated, with the
     scope cleared;
  5. otherwise evaluation fails with ErrUnknownIdentifier.

Resources fan out over their parameters with RunAll. What happens
to a failed sibling is decided by the VM's Policy.
*/
package vm

import (
	"context"
	"strings"

	"github.com/codahale/metrics"

	"github.com/engylemure/askql/core/askcode"
	"github.com/engylemure/askql/errors"
)

const (
	// DefaultMaxDepth is the nesting limit used when
	// Config.MaxDepth is zero.
	DefaultMaxDepth = 512

	// DefaultMaxFanOut is the number of siblings one fan-out
	// evaluates at once when Config.MaxFanOut is zero.
	DefaultMaxFanOut = 64
)

// Policy decides what a fan-out does with failed siblings.
type Policy int

const (
	// BestEffort drops failed siblings; a resource that needs a
	// value in their place gets Null.
	BestEffort Policy = iota

	// Strict aborts the enclosing evaluation on the first failure.
	Strict

	// Collect evaluates every sibling and fails with all of
	// their errors.
	Collect
)

// ErrUnknownPolicy is returned by ParsePolicy.
var ErrUnknownPolicy = errors.New("unknown failure policy")

var policyNames = map[Policy]string{
	BestEffort: "best-effort",
	Strict:     "strict",
	Collect:    "collect",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return "unknown"
}

// ParsePolicy returns the Policy named s, as printed by String.
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return 0, errors.WithDetailf(ErrUnknownPolicy, "no failure policy named %q", s)
}

// Config tunes evaluation.
type Config struct {
	Policy   Policy
	MaxDepth int

	// MaxFanOut bounds the goroutines a single fan-out runs at
	// once. Nested fan-outs each get their own allowance.
	MaxFanOut int
}

// A VM evaluates programs. It is safe for concurrent use.
type VM struct {
	resources map[string]Resource
	values    map[string]askcode.Node
	config    Config
}

// New returns a VM with the resources and values in opts.
// Later changes to opts do not affect the VM.
func New(opts *Options, c Config) *VM {
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MaxFanOut <= 0 {
		c.MaxFanOut = DefaultMaxFanOut
	}
	vm := &VM{
		resources: make(map[string]Resource),
		values:    make(map[string]askcode.Node),
		config:    c,
	}
	if opts != nil {
		for k, r := range opts.resources {
			vm.resources[k] = r
		}
		for k, v := range opts.values {
			vm.values[k] = v
		}
	}
	return vm
}

// With returns a VM that also binds values. Names already bound
// in vm keep their binding.
func (vm *VM) With(values map[string]askcode.Node) *VM {
	if len(values) == 0 {
		return vm
	}
	c := &VM{
		resources: vm.resources,
		values:    make(map[string]askcode.Node, len(vm.values)+len(values)),
		config:    vm.config,
	}
	for k, v := range values {
		c.values[k] = v
	}
	for k, v := range vm.values {
		c.values[k] = v
	}
	return c
}

// Config returns the configuration vm was built with.
func (vm *VM) Config() Config {
	return vm.config
}

type depthKey struct{}

func depth(ctx context.Context) int {
	d, _ := ctx.Value(depthKey{}).(int)
	return d
}

// Run evaluates n. args, if non-nil, are the values n is called
// with; scope shadows resources and bound values.
func (vm *VM) Run(ctx context.Context, n askcode.Node, args []askcode.Value, scope Scope) (askcode.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err)
	}
	d := depth(ctx) + 1
	if d > vm.config.MaxDepth {
		return nil, errors.WithData(ErrMaxDepth, "max", vm.config.MaxDepth)
	}
	ctx = context.WithValue(ctx, depthKey{}, d)
	if d == 1 {
		metrics.Counter("vm.programs").Add()
	}

	switch n := n.(type) {
	case askcode.Number:
		return n.Resolve()
	case askcode.Value:
		return n, nil
	case askcode.Code:
		if repl, ok := scope.Lookup(n.Name); ok {
			return vm.Run(ctx, repl, args, nil)
		}
		if r, ok := vm.resources[n.Name]; ok {
			return r.Compute(ctx, vm, n, args, scope)
		}
		if v, ok := vm.values[n.Name]; ok {
			return vm.Run(ctx, v, args, nil)
		}
		metrics.Counter("vm.unknown_identifier").Add()
		err := errors.WithDetailf(ErrUnknownIdentifier, "unknown identifier %q", n.Name)
		return nil, errors.WithData(err, "name", n.Name)
	}
	return nil, errors.WithDetailf(ErrTypeMismatch, "cannot evaluate %T", n)
}
