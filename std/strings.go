package std

import (
	"strings"

	"github.com/rill-lang/rill/errs"
	"github.com/rill-lang/rill/values"
)

// stringBuiltins implements str_split/str_join, grounded on go-mix's
// own std/strings.go (which also wraps the strings package) and on
// original_source/py's builtin_str_split/builtin_str_join for the
// empty-separator rejection and element-stringification behavior.
func stringBuiltins() []entry {
	return []entry{
		{"str_split", builtinStrSplit},
		{"str_join", builtinStrJoin},
	}
}

func builtinStrSplit(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("str_split", args, 2); err != nil {
		return nil, err
	}
	text, err := asString("str_split", args[0])
	if err != nil {
		return nil, err
	}
	sep, err := asString("str_split", args[1])
	if err != nil {
		return nil, err
	}
	if sep == "" {
		return nil, errs.New(errs.Type, "str_split() separator cannot be empty")
	}
	parts := strings.Split(text, sep)
	elems := make([]values.Value, len(parts))
	for i, p := range parts {
		elems[i] = values.StringVal{Value: p}
	}
	return &values.Array{Elements: elems}, nil
}

func builtinStrJoin(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("str_join", args, 2); err != nil {
		return nil, err
	}
	arr, err := asArray("str_join", args[0])
	if err != nil {
		return nil, err
	}
	sep, err := asString("str_join", args[1])
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(arr.Elements))
	for i, e := range arr.Elements {
		parts[i] = e.String()
	}
	return values.StringVal{Value: strings.Join(parts, sep)}, nil
}
