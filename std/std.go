// Package std implements the fixed builtin registry spec.md §4.8
// describes: print/println, type coercions, collection helpers, math,
// JSON, file I/O, regex, and string utilities, all installed into the
// root environment as values.Builtin callables. Grounded on go-mix's
// own std package (one file per concern — builtins.go, math.go,
// json.go, strings.go, regex.go — registering into a shared
// []*Builtin slice); this package keeps that per-concern file split
// but installs directly into a scope.Scope rather than a separate
// evaluator-side lookup table, since this language has no import
// statement to gate builtin visibility behind.
package std

import (
	"bufio"
	"io"

	"github.com/rill-lang/rill/errs"
	"github.com/rill-lang/rill/scope"
	"github.com/rill-lang/rill/values"
)

// Runtime is the callback surface builtins need from the interpreter:
// where to write output, where to read input from, and the script's
// command-line arguments. Grounded on go-mix's own std.Runtime
// interface (CallFunction/GetInputReader), trimmed to what this
// language's closed builtin set actually needs — no callback-into-the-
// language hook exists here because no builtin in spec.md §4.8 invokes
// a user-defined function.
type Runtime interface {
	Out() io.Writer
	In() *bufio.Reader
	Args() []string
}

// entry is one builtin registration: a name and its implementation.
type entry struct {
	name string
	fn   func(rt Runtime, args []values.Value) (values.Value, error)
}

// Register installs every builtin of spec.md §4.8 into env, bound to
// rt for the ones that touch I/O or command-line arguments.
func Register(env *scope.Scope, rt Runtime) {
	for _, e := range allBuiltins() {
		fn := e.fn
		env.Define(e.name, &values.Builtin{
			Name: e.name,
			Fn: func(args []values.Value) (values.Value, error) {
				return fn(rt, args)
			},
		})
	}
}

func allBuiltins() []entry {
	var out []entry
	out = append(out, coreBuiltins()...)
	out = append(out, collectionBuiltins()...)
	out = append(out, mathBuiltins()...)
	out = append(out, jsonBuiltins()...)
	out = append(out, ioBuiltins()...)
	out = append(out, regexBuiltins()...)
	out = append(out, stringBuiltins()...)
	return out
}

// ---- shared argument-checking helpers ----

func arity(name string, args []values.Value, n int) error {
	if len(args) != n {
		return errs.New(errs.Arity, "%s() expects %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func arityRange(name string, args []values.Value, min, max int) error {
	if len(args) < min || len(args) > max {
		return errs.New(errs.Arity, "%s() expects %d to %d argument(s), got %d", name, min, max, len(args))
	}
	return nil
}

func asInt(name string, v values.Value) (int64, error) {
	i, ok := v.(values.Int)
	if !ok {
		return 0, errs.New(errs.Type, "%s() expects an integer argument", name)
	}
	return i.Value, nil
}

func asNumber(name string, v values.Value) (float64, error) {
	switch n := v.(type) {
	case values.Int:
		return float64(n.Value), nil
	case values.Float:
		return n.Value, nil
	default:
		return 0, errs.New(errs.Type, "%s() expects a numeric argument", name)
	}
}

func asString(name string, v values.Value) (string, error) {
	s, ok := v.(values.StringVal)
	if !ok {
		return "", errs.New(errs.Type, "%s() expects a string argument", name)
	}
	return s.Value, nil
}

func asArray(name string, v values.Value) (*values.Array, error) {
	a, ok := v.(*values.Array)
	if !ok {
		return nil, errs.New(errs.Type, "%s() expects an array argument", name)
	}
	return a, nil
}

func asDict(name string, v values.Value) (*values.Dict, error) {
	d, ok := v.(*values.Dict)
	if !ok {
		return nil, errs.New(errs.Type, "%s() expects a dict argument", name)
	}
	return d, nil
}
