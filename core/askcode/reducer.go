package askcode

import "strings"

// A Reducer builds one output element for each construct the
// parser recognizes. The parser calls ID for a bare identifier,
// Node for an invocation or a list or object literal (named
// "list" and "object"), and Value for a string or number literal.
type Reducer[T any] interface {
	Node(name string, children []T) T
	ID(name string) T
	Value(v Value) T
}

// CodeReducer builds program trees.
type CodeReducer struct{}

func (CodeReducer) Node(name string, children []Node) Node {
	return Call(name, children...)
}

func (CodeReducer) ID(name string) Node {
	return ID(name)
}

func (CodeReducer) Value(v Value) Node {
	return v
}

// SourceReducer renders canonical program text: no whitespace
// other than a single space after each separator.
type SourceReducer struct{}

func (SourceReducer) Node(name string, children []string) string {
	switch name {
	case "list":
		return "[" + strings.Join(children, ", ") + "]"
	case "object":
		var b strings.Builder
		b.WriteByte('{')
		for i, c := range children {
			if i > 0 {
				if i%2 == 1 {
					b.WriteString(": ")
				} else {
					b.WriteString(", ")
				}
			}
			b.WriteString(c)
		}
		b.WriteByte('}')
		return b.String()
	}
	return name + "(" + strings.Join(children, ", ") + ")"
}

func (SourceReducer) ID(name string) string {
	return name
}

func (r SourceReducer) Value(v Value) string {
	switch v := v.(type) {
	case Null:
		return "null"
	case Bool:
		if v {
			return "true"
		}
		return "false"
	case Number:
		return string(v)
	case Int, Float:
		s, _ := Text(v)
		if _, ok := v.(Float); ok && !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case String:
		return quote(string(v))
	case List:
		items := make([]string, len(v))
		for i, x := range v {
			items[i] = r.Value(x)
		}
		return r.Node("list", items)
	case Object:
		var items []string
		for _, k := range v.Keys() {
			items = append(items, quote(k), r.Value(v[k]))
		}
		return r.Node("object", items)
	}
	return ""
}

// quote wraps s in single quotes, or in double quotes when
// s contains a single quote but no double quote.
func quote(s string) string {
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		return `"` + s + `"`
	}
	return "'" + s + "'"
}
