package vm

import "github.com/engylemure/askql/core/askcode"

// Scope maps names to replacement nodes. A name found in the
// scope shadows resources and bound values. A Scope is never
// modified after it is built; With and Merge return copies, so
// a scope can be handed to concurrent evaluations as is.
type Scope map[string]askcode.Node

// Lookup returns the node bound to name, if any.
// It is safe to call on a nil Scope.
func (s Scope) Lookup(name string) (askcode.Node, bool) {
	n, ok := s[name]
	return n, ok
}

// With returns a copy of s with name bound to n.
func (s Scope) With(name string, n askcode.Node) Scope {
	c := make(Scope, len(s)+1)
	for k, v := range s {
		c[k] = v
	}
	c[name] = n
	return c
}

// Merge returns a copy of s extended with the entries of t.
// Entries of t win.
func (s Scope) Merge(t Scope) Scope {
	if len(t) == 0 {
		return s
	}
	if len(s) == 0 {
		return t
	}
	c := make(Scope, len(s)+len(t))
	for k, v := range s {
		c[k] = v
	}
	for k, v := range t {
		c[k] = v
	}
	return c
}

// ObjectScope binds every field of o as a name.
func ObjectScope(o askcode.Object) Scope {
	s := make(Scope, len(o))
	for k, v := range o {
		s[k] = v
	}
	return s
}
