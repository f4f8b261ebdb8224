package std

import (
	"fmt"
	"strconv"

	"github.com/rill-lang/rill/errs"
	"github.com/rill-lang/rill/values"
)

// coreBuiltins implements print/println, len, the four coercions,
// type(), input(), and cmd_args() — spec.md §4.8's non-collection,
// non-math builtins. Grounded on go-mix's std/builtins.go (print family)
// and std/format.go (to_int/to_float/to_bool/to_string), renamed to this
// language's own int/float/str/bool/type spellings.
func coreBuiltins() []entry {
	return []entry{
		{"print", builtinPrint},
		{"println", builtinPrintln},
		{"len", builtinLen},
		{"int", builtinInt},
		{"float", builtinFloat},
		{"str", builtinStr},
		{"bool", builtinBool},
		{"type", builtinType},
		{"input", builtinInput},
		{"cmd_args", builtinCmdArgs},
	}
}

func builtinPrint(rt Runtime, args []values.Value) (values.Value, error) {
	for _, a := range args {
		fmt.Fprint(rt.Out(), a.String())
	}
	return values.Null{}, nil
}

func builtinPrintln(rt Runtime, args []values.Value) (values.Value, error) {
	parts := make([]any, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	fmt.Fprintln(rt.Out(), parts...)
	return values.Null{}, nil
}

func builtinLen(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("len", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case values.StringVal:
		return values.Int{Value: int64(len(v.Value))}, nil
	case *values.Array:
		return values.Int{Value: int64(len(v.Elements))}, nil
	case *values.Dict:
		return values.Int{Value: int64(v.Len())}, nil
	default:
		return nil, errs.New(errs.Type, "len() not supported for type %s", args[0].Type())
	}
}

func builtinInt(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("int", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case values.Int:
		return v, nil
	case values.Float:
		return values.Int{Value: int64(v.Value)}, nil
	case values.Bool:
		if v.Value {
			return values.Int{Value: 1}, nil
		}
		return values.Int{Value: 0}, nil
	case values.StringVal:
		n, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return nil, errs.New(errs.Type, "cannot convert %q to int", v.Value)
		}
		return values.Int{Value: n}, nil
	default:
		return nil, errs.New(errs.Type, "cannot convert %s to int", args[0].Type())
	}
}

func builtinFloat(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("float", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case values.Int:
		return values.Float{Value: float64(v.Value)}, nil
	case values.Float:
		return v, nil
	case values.Bool:
		if v.Value {
			return values.Float{Value: 1}, nil
		}
		return values.Float{Value: 0}, nil
	case values.StringVal:
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			return nil, errs.New(errs.Type, "cannot convert %q to float", v.Value)
		}
		return values.Float{Value: f}, nil
	default:
		return nil, errs.New(errs.Type, "cannot convert %s to float", args[0].Type())
	}
}

func builtinStr(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("str", args, 1); err != nil {
		return nil, err
	}
	return values.StringVal{Value: args[0].String()}, nil
}

func builtinBool(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("bool", args, 1); err != nil {
		return nil, err
	}
	return values.Bool{Value: values.Truthy(args[0])}, nil
}

func builtinType(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("type", args, 1); err != nil {
		return nil, err
	}
	switch args[0].(type) {
	case values.Bool:
		return values.StringVal{Value: "bool"}, nil
	case values.Int:
		return values.StringVal{Value: "int"}, nil
	case values.Float:
		return values.StringVal{Value: "float"}, nil
	case values.StringVal:
		return values.StringVal{Value: "string"}, nil
	case values.Null:
		return values.StringVal{Value: "null"}, nil
	case *values.Array:
		return values.StringVal{Value: "array"}, nil
	case *values.Dict:
		return values.StringVal{Value: "dict"}, nil
	case *values.Builtin:
		return values.StringVal{Value: "function"}, nil
	default:
		// Functions, bound methods, classes, and instances all live
		// above this package in runtime.go; type() still needs to name
		// callables "function" for them, so probe by the Type() tag
		// rather than importing runtime (which would cycle back here).
		if tn := args[0].Type(); tn == "function" {
			return values.StringVal{Value: "function"}, nil
		}
		return values.StringVal{Value: "unknown"}, nil
	}
}

func builtinInput(rt Runtime, args []values.Value) (values.Value, error) {
	if err := arityRange("input", args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		prompt, err := asString("input", args[0])
		if err != nil {
			return nil, err
		}
		fmt.Fprint(rt.Out(), prompt)
	}
	line, err := rt.In().ReadString('\n')
	if err != nil && line == "" {
		return values.StringVal{Value: ""}, nil
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return values.StringVal{Value: line}, nil
}

func builtinCmdArgs(rt Runtime, args []values.Value) (values.Value, error) {
	if err := arity("cmd_args", args, 0); err != nil {
		return nil, err
	}
	elems := make([]values.Value, len(rt.Args()))
	for i, a := range rt.Args() {
		elems[i] = values.StringVal{Value: a}
	}
	return &values.Array{Elements: elems}, nil
}
