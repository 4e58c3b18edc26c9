package askcode

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/engylemure/askql/errors"
)

func TestNumberResolve(t *testing.T) {
	cases := []struct {
		n    Number
		want Value
	}{
		{"4", Int(4)},
		{"-2", Int(-2)},
		{"4.2", Float(4.2)},
		{"-14.2", Float(-14.2)},
		{".5", Float(0.5)},
		{"3.", Float(3)},
	}

	for _, c := range cases {
		got, err := c.n.Resolve()
		if err != nil {
			t.Errorf("Resolve(%q) error %v", c.n, err)
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Resolve(%q) = %#v want %#v", c.n, got, c.want)
		}
	}
}

func TestNumberResolveBad(t *testing.T) {
	for _, n := range []Number{"1-2", "-", ".", "1.2.3", "99999999999"} {
		_, err := n.Resolve()
		if errors.Root(err) != ErrBadNumber {
			t.Errorf("Resolve(%q) err = %v want %v", n, err, ErrBadNumber)
		}
	}
}

func TestIsFloat(t *testing.T) {
	cases := map[Number]bool{
		"4":    false,
		"4.2":  true,
		"-4.2": true,
		"1-2":  false,
		"1.-2": false,
	}
	for n, want := range cases {
		if got := n.IsFloat(); got != want {
			t.Errorf("%q.IsFloat() = %t want %t", n, got, want)
		}
	}
}

func TestResolveNested(t *testing.T) {
	v := List{Number("1"), Object{"a": Number("2.5")}, String("x")}
	got, err := Resolve(v)
	if err != nil {
		t.Fatal(err)
	}
	want := List{Int(1), Object{"a": Float(2.5)}, String("x")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %#v want %#v", got, want)
	}
}

func TestCallAndID(t *testing.T) {
	if !ID("x").IsID() {
		t.Error("ID(x).IsID() = false")
	}
	c := Call("f")
	if c.IsID() || c.Params == nil || len(c.Params) != 0 {
		t.Errorf("Call(f) = %#v, want an empty invocation", c)
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{Int(1), Int(1), true},
		{Int(1), Float(1), false},
		{Number("4"), Int(4), false},
		{String("a"), String("a"), true},
		{Null{}, Null{}, true},
		{List{Int(1), String("a")}, List{Int(1), String("a")}, true},
		{List{Int(1)}, List{Int(2)}, false},
		{Object{"a": Int(1)}, Object{"a": Int(1)}, true},
		{Object{"a": Int(1)}, Object{"b": Int(1)}, false},
		{List{}, List(nil), true},
	}
	for i, c := range cases {
		if got := Equal(c.a, c.b); got != c.want {
			t.Errorf("%d: Equal(%#v, %#v) = %t want %t", i, c.a, c.b, got, c.want)
		}
	}
}

func TestText(t *testing.T) {
	cases := []struct {
		v      Value
		want   string
		wantOK bool
	}{
		{String("hi"), "hi", true},
		{Int(-3), "-3", true},
		{Float(14.2), "14.2", true},
		{Number("5.2"), "5.2", true},
		{Number("1-2"), "", false},
		{Bool(true), "", false},
		{List{}, "", false},
	}
	for _, c := range cases {
		got, ok := Text(c.v)
		if got != c.want || ok != c.wantOK {
			t.Errorf("Text(%#v) = %q, %t want %q, %t", c.v, got, ok, c.want, c.wantOK)
		}
	}
}

func TestObjectKeys(t *testing.T) {
	o := Object{"b": Int(2), "a": Int(1), "c": Int(3)}
	if got, want := o.Keys(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys = %v want %v", got, want)
	}
	if got, want := o.Values(), []Value{Int(1), Int(2), Int(3)}; !reflect.DeepEqual(got, want) {
		t.Errorf("Values = %v want %v", got, want)
	}
	o2 := o.With("d", Int(4))
	if _, ok := o["d"]; ok {
		t.Error("With modified the receiver")
	}
	if len(o2) != 4 {
		t.Errorf("len(With) = %d want 4", len(o2))
	}
}

func TestMarshalJSON(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null{}, `null`},
		{Bool(true), `true`},
		{Int(4), `4`},
		{Float(14.2), `14.2`},
		{Float(0), `0`},
		{Number("4.2"), `4.2`},
		{Number("1-2"), `0`},
		{String("friend 1"), `"friend 1"`},
		{List(nil), `[]`},
		{List{Int(1), Null{}}, `[1,null]`},
		{Object{"id": Int(1), "firstName": String("a")}, `{"firstName":"a","id":1}`},
		{Object(nil), `{}`},
	}
	for _, c := range cases {
		got, err := json.Marshal(c.v)
		if err != nil {
			t.Errorf("Marshal(%#v) error %v", c.v, err)
			continue
		}
		if string(got) != c.want {
			t.Errorf("Marshal(%#v) = %s want %s", c.v, got, c.want)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	got, err := DecodeJSON([]byte(`{"friends": [{"id": 1, "firstName": "Friend 1"}], "ok": true, "x": null, "r": 2.5}`))
	if err != nil {
		t.Fatal(err)
	}
	want := Object{
		"friends": List{Object{"id": Number("1"), "firstName": String("Friend 1")}},
		"ok":      Bool(true),
		"x":       Null{},
		"r":       Number("2.5"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeJSON = %#v want %#v", got, want)
	}
}

func TestFromInterfaceUnsupported(t *testing.T) {
	_, err := FromInterface(map[string]interface{}{"c": make(chan int)})
	if errors.Root(err) != ErrUnsupported {
		t.Errorf("err = %v want %v", err, ErrUnsupported)
	}
}

func TestEncodeNode(t *testing.T) {
	n := Call("max", ID("scorePerPhilosopher"), Number("4.2"), Call("list"))
	got, err := EncodeNode(n)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"max","params":[{"name":"scorePerPhilosopher"},{"kind":"number","value":"4.2"},{"name":"list","params":[]}]}`
	if string(got) != want {
		t.Errorf("EncodeNode = %s\nwant %s", got, want)
	}
}

func TestSource(t *testing.T) {
	cases := []struct {
		n    Node
		want string
	}{
		{ID("x"), "x"},
		{Call("f"), "f()"},
		{Call("ask", Call("call", Call("get", String("+")), Number("2"), Number("5.2"))), "ask(call(get('+'), 2, 5.2))"},
		{Call("list", Number("1"), Number("2")), "[1, 2]"},
		{Call("object", String("a"), Number("1"), String("b"), ID("x")), "{'a': 1, 'b': x}"},
		{String("it's"), `"it's"`},
		{Float(3), "3.0"},
		{Object{"k": List{Int(1)}}, "{'k': [1]}"},
	}
	for _, c := range cases {
		if got := Source(c.n); got != c.want {
			t.Errorf("Source(%#v) = %q want %q", c.n, got, c.want)
		}
	}
}

func TestReduceCopy(t *testing.T) {
	n := Call("node", String("firstName"), ID("friends"), Call("f"))
	got := Reduce[Node](n, CodeReducer{})
	if !reflect.DeepEqual(got, Node(n)) {
		t.Errorf("Reduce = %#v want %#v", got, n)
	}
}
