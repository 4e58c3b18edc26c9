/*
Package askcode defines the program tree and runtime values of AskQL.

A program is a tree of Nodes. Each Node is either a Value, which
evaluates to itself (a Number is resolved to an Int or a Float
first), or a Code, which names a resource or a bound value:

  Code{Name: "x"}                      bare identifier   x
  Code{Name: "f", Params: []Node{}}    empty invocation  f()
  Code{Name: "f", Params: []Node{a}}   invocation        f(a)

List and object literals are invocations of "list" and "object";
the object literal {a: 1, b: 2} becomes

  Code{Name: "object", Params: []Node{String("a"), Number("1"), String("b"), Number("2")}}

Trees are immutable once built and may be shared freely between
concurrent evaluations.
*/
package askcode

import "fmt"

// Node is an element of a program tree: a Value or a Code.
type Node interface {
	isNode()
}

// Code is a named node.
// A nil Params denotes a bare identifier, a non-nil (possibly
// empty) Params an invocation.
type Code struct {
	Name   string
	Params []Node
}

func (Code) isNode() {}

// IsID reports whether c is a bare identifier.
func (c Code) IsID() bool {
	return c.Params == nil
}

// ID returns a bare identifier node.
func ID(name string) Code {
	return Code{Name: name}
}

// Call returns an invocation of name with params.
// Call(name) is an empty invocation, not an identifier.
func Call(name string, params ...Node) Code {
	if params == nil {
		params = []Node{}
	}
	return Code{Name: name, Params: params}
}

func (c Code) String() string {
	return Source(c)
}

// Source renders n as canonical program text.
func Source(n Node) string {
	return Reduce[string](n, SourceReducer{})
}

// Reduce rebuilds the tree n with reducer r. Reduce(n, CodeReducer{})
// returns a copy of n.
func Reduce[T any](n Node, r Reducer[T]) T {
	switch n := n.(type) {
	case Code:
		if n.Params == nil {
			return r.ID(n.Name)
		}
		children := make([]T, len(n.Params))
		for i, p := range n.Params {
			children[i] = Reduce(p, r)
		}
		return r.Node(n.Name, children)
	case Value:
		return r.Value(n)
	}
	panic(fmt.Sprintf("askcode: unexpected node type %T", n))
}
