package vm

import (
	"context"
	"sort"

	"github.com/engylemure/askql/core/askcode"
	"github.com/engylemure/askql/log"
)

// Options collects the resources and bound values a VM is built
// from. Registration is first-write-wins: a second resource or
// value under a taken name is rejected and logged.
// Options is not safe for concurrent use; build it, then pass it
// to New.
type Options struct {
	resources map[string]Resource
	values    map[string]askcode.Node
}

// NewOptions returns an empty table.
func NewOptions() *Options {
	return &Options{
		resources: make(map[string]Resource),
		values:    make(map[string]askcode.Node),
	}
}

// Register adds r under r.Name(). It reports false, leaving the
// table unchanged, if the name is already registered.
func (o *Options) Register(r Resource) bool {
	name := r.Name()
	if _, ok := o.resources[name]; ok {
		log.Printkv(context.Background(), log.KeyMessage, "resource already registered", "name", name)
		return false
	}
	o.resources[name] = r
	return true
}

// Bind binds n to name. It reports false, leaving the table
// unchanged, if name is already bound.
func (o *Options) Bind(name string, n askcode.Node) bool {
	if _, ok := o.values[name]; ok {
		log.Printkv(context.Background(), log.KeyMessage, "value already bound", "name", name)
		return false
	}
	o.values[name] = n
	return true
}

// BindObject binds each field of obj, in key order, and returns
// the names that were already bound.
func (o *Options) BindObject(obj askcode.Object) (skipped []string) {
	for _, k := range obj.Keys() {
		if !o.Bind(k, obj[k]) {
			skipped = append(skipped, k)
		}
	}
	return skipped
}

// Resources returns the registered resource names in sorted order.
func (o *Options) Resources() []string {
	names := make([]string, 0, len(o.resources))
	for k := range o.resources {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
