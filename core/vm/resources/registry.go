// Package resources is the built-in AskQL library: statement
// blocks, calls and references, arithmetic, strings, lists and
// the node/query projection.
package resources

import (
	"strings"

	"github.com/engylemure/askql/core/vm"
)

// Register adds every built-in resource to opts. Names already
// registered in opts keep their resource.
func Register(opts *vm.Options) {
	for _, r := range builtins() {
		opts.Register(r)
	}
}

// Default returns options holding the built-in resources and no
// bound values.
func Default() *vm.Options {
	opts := vm.NewOptions()
	Register(opts)
	return opts
}

func builtins() []vm.Resource {
	return []vm.Resource{
		Fun("ask"),
		Fun("f"),
		vm.ComputeFunc("call", call),
		vm.ComputeFunc("get", get),
		vm.ComputeFunc("object", object),
		vm.ComputeFunc("node", node),
		vm.ComputeFunc("query", query),
		vm.Resolver{ResourceName: "equals", Fn: equals},
		vm.Resolver{ResourceName: "list", Fn: list},
		vm.Resolver{ResourceName: "+", Fn: sum},
		vm.Resolver{ResourceName: "-", Fn: minus},
		vm.Resolver{ResourceName: "*", Fn: times},
		vm.Resolver{ResourceName: "max", Fn: maximum},
		vm.Resolver{ResourceName: "concat", Fn: concat},
		vm.Resolver{ResourceName: "toLowerCase", Fn: caseMapper(strings.ToLower)},
		vm.Resolver{ResourceName: "toUpperCase", Fn: caseMapper(strings.ToUpper)},
	}
}
