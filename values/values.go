// Package values defines the tagged value union every Rill expression
// evaluates to, grounded on go-mix's own objects.Object union (its
// Int/Float/Bool/String/Null/Array/Function/Builtin split) but shaped
// to spec.md §3's value set, including a Dict type the teacher has no
// analogue for.
package values

import "fmt"

// Value is implemented by every runtime value kind.
type Value interface {
	Type() string
	String() string
}

type Int struct{ Value int64 }

func (Int) Type() string        { return "int" }
func (v Int) String() string    { return fmt.Sprintf("%d", v.Value) }

type Float struct{ Value float64 }

func (Float) Type() string     { return "float" }
func (v Float) String() string { return formatFloat(v.Value) }

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%.1f", f)
	}
	return fmt.Sprintf("%g", f)
}

type Bool struct{ Value bool }

func (Bool) Type() string     { return "bool" }
func (v Bool) String() string { return fmt.Sprintf("%t", v.Value) }

// String is an immutable host string value. Named StringVal to avoid
// colliding with the String() method every Value implements.
type StringVal struct{ Value string }

func (StringVal) Type() string     { return "string" }
func (v StringVal) String() string { return v.Value }

type Null struct{}

func (Null) Type() string   { return "null" }
func (Null) String() string { return "null" }

// Array is a mutable ordered sequence of values, held behind a pointer
// so that aliased assignments (`b = a; b[0] = 1`) observe the mutation
// through both names, per spec.md §3's "referenced by value handles"
// note.
type Array struct {
	Elements []Value
}

func (*Array) Type() string { return "array" }
func (a *Array) String() string {
	out := "["
	for i, e := range a.Elements {
		if i > 0 {
			out += ", "
		}
		out += Repr(e)
	}
	return out + "]"
}

// Dict is a mutable string-keyed mapping that preserves insertion
// order for iteration (spec.md §3, §7 Testable Property 7). Go's
// built-in map has no order, so order is tracked in a parallel slice.
type Dict struct {
	keys   []string
	values map[string]Value
}

func NewDict() *Dict {
	return &Dict{values: make(map[string]Value)}
}

func (*Dict) Type() string { return "dict" }

func (d *Dict) String() string {
	out := "{"
	for i, k := range d.keys {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q: %s", k, Repr(d.values[k]))
	}
	return out + "}"
}

func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Set inserts key/v, appending key to the insertion order the first
// time it's seen and leaving the order unchanged on overwrite.
func (d *Dict) Set(key string, v Value) {
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Remove deletes key if present and reports whether it was present,
// per SPEC_FULL.md §5's "remove() returns a boolean success flag" resolution.
func (d *Dict) Remove(key string) bool {
	if _, ok := d.values[key]; !ok {
		return false
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return true
}

func (d *Dict) Len() int { return len(d.keys) }

// Keys returns the dict's keys in insertion order.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Builtin is a host-provided callable, installed into the global
// environment by the std package. Arity is enforced by each
// implementation, documented per spec.md §4.8.
type Builtin struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (*Builtin) Type() string     { return "function" }
func (b *Builtin) String() string { return fmt.Sprintf("<builtin %s>", b.Name) }

// Repr renders v the way it would appear nested inside an array/dict
// literal's string form — strings are quoted, everything else uses its
// ordinary String().
func Repr(v Value) string {
	if s, ok := v.(StringVal); ok {
		return fmt.Sprintf("%q", s.Value)
	}
	return v.String()
}

// Truthy implements spec.md §4.7's truthiness table: false, null,
// numeric zero, empty string, empty array, empty dict are falsy;
// everything else is truthy.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Bool:
		return x.Value
	case Null:
		return false
	case Int:
		return x.Value != 0
	case Float:
		return x.Value != 0
	case StringVal:
		return x.Value != ""
	case *Array:
		return len(x.Elements) != 0
	case *Dict:
		return x.Len() != 0
	default:
		return true
	}
}

// Equal implements structural equality for primitives (spec.md §4.6)
// and deep structural equality for arrays/dicts, per this repo's
// resolution of Open Question (c) — unspecified but implemented as the
// natural recursive definition.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x.Value == y.Value
		case Float:
			return float64(x.Value) == y.Value
		}
		return false
	case Float:
		switch y := b.(type) {
		case Int:
			return x.Value == float64(y.Value)
		case Float:
			return x.Value == y.Value
		}
		return false
	case Bool:
		y, ok := b.(Bool)
		return ok && x.Value == y.Value
	case StringVal:
		y, ok := b.(StringVal)
		return ok && x.Value == y.Value
	case Null:
		_, ok := b.(Null)
		return ok
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Equal(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *Dict:
		y, ok := b.(*Dict)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, k := range x.keys {
			yv, ok := y.Get(k)
			if !ok || !Equal(x.values[k], yv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
