package std

import (
	"github.com/rill-lang/rill/errs"
	"github.com/rill-lang/rill/values"
)

// collectionBuiltins implements range/append/pop/keys/values/remove,
// grounded on original_source/py's interpreter_3.py builtin_range/
// builtin_append/builtin_pop/builtin_keys/builtin_values/builtin_remove
// — the Python reference this repo resolves pop()'s default index and
// remove()'s boolean-success-flag behavior against (spec.md §9(open
// questions), SPEC_FULL.md §5).
func collectionBuiltins() []entry {
	return []entry{
		{"range", builtinRange},
		{"append", builtinAppend},
		{"pop", builtinPop},
		{"keys", builtinKeys},
		{"values", builtinValues},
		{"remove", builtinRemove},
	}
}

func builtinRange(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arityRange("range", args, 1, 3); err != nil {
		return nil, err
	}
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		n, err := asInt("range", args[0])
		if err != nil {
			return nil, err
		}
		stop = n
	case 2:
		a, err := asInt("range", args[0])
		if err != nil {
			return nil, err
		}
		b, err := asInt("range", args[1])
		if err != nil {
			return nil, err
		}
		start, stop = a, b
	case 3:
		a, err := asInt("range", args[0])
		if err != nil {
			return nil, err
		}
		b, err := asInt("range", args[1])
		if err != nil {
			return nil, err
		}
		c, err := asInt("range", args[2])
		if err != nil {
			return nil, err
		}
		start, stop, step = a, b, c
	}
	var elems []values.Value
	if step > 0 {
		for i := start; i < stop; i += step {
			elems = append(elems, values.Int{Value: i})
		}
	} else if step < 0 {
		for i := start; i > stop; i += step {
			elems = append(elems, values.Int{Value: i})
		}
	}
	return &values.Array{Elements: elems}, nil
}

func builtinAppend(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("append", args, 2); err != nil {
		return nil, err
	}
	arr, err := asArray("append", args[0])
	if err != nil {
		return nil, err
	}
	arr.Elements = append(arr.Elements, args[1])
	return values.Null{}, nil
}

// resolveIndex turns a possibly-negative Python-style index into an
// in-bounds slice position, reporting ok=false if it is out of range
// after adjustment.
func resolveIndex(idx int64, length int) (int, bool) {
	if idx < 0 {
		idx += int64(length)
	}
	if idx < 0 || idx >= int64(length) {
		return 0, false
	}
	return int(idx), true
}

func builtinPop(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arityRange("pop", args, 1, 2); err != nil {
		return nil, err
	}
	arr, err := asArray("pop", args[0])
	if err != nil {
		return nil, err
	}
	idx := int64(-1)
	if len(args) == 2 {
		idx, err = asInt("pop", args[1])
		if err != nil {
			return nil, err
		}
	}
	i, ok := resolveIndex(idx, len(arr.Elements))
	if !ok {
		return nil, errs.New(errs.Bounds, "pop() index out of range: %d", idx)
	}
	v := arr.Elements[i]
	arr.Elements = append(arr.Elements[:i], arr.Elements[i+1:]...)
	return v, nil
}

func builtinKeys(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("keys", args, 1); err != nil {
		return nil, err
	}
	d, err := asDict("keys", args[0])
	if err != nil {
		return nil, err
	}
	ks := d.Keys()
	elems := make([]values.Value, len(ks))
	for i, k := range ks {
		elems[i] = values.StringVal{Value: k}
	}
	return &values.Array{Elements: elems}, nil
}

func builtinValues(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("values", args, 1); err != nil {
		return nil, err
	}
	d, err := asDict("values", args[0])
	if err != nil {
		return nil, err
	}
	ks := d.Keys()
	elems := make([]values.Value, len(ks))
	for i, k := range ks {
		v, _ := d.Get(k)
		elems[i] = v
	}
	return &values.Array{Elements: elems}, nil
}

// builtinRemove raises only on a wrong argument count — a wrong-type
// container or key/index simply yields false, per interpreter_3.py's
// builtin_remove (spec.md is silent on this; SPEC_FULL.md §5 follows
// the original).
func builtinRemove(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("remove", args, 2); err != nil {
		return nil, err
	}
	switch obj := args[0].(type) {
	case *values.Array:
		idx, ok := args[1].(values.Int)
		if !ok {
			return values.Bool{Value: false}, nil
		}
		i, ok := resolveIndex(idx.Value, len(obj.Elements))
		if !ok {
			return values.Bool{Value: false}, nil
		}
		obj.Elements = append(obj.Elements[:i], obj.Elements[i+1:]...)
		return values.Bool{Value: true}, nil
	case *values.Dict:
		key, ok := args[1].(values.StringVal)
		if !ok {
			return values.Bool{Value: false}, nil
		}
		return values.Bool{Value: obj.Remove(key.Value)}, nil
	default:
		return values.Bool{Value: false}, nil
	}
}
