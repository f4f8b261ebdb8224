package eval

import (
	"math"
	"strings"

	"github.com/rill-lang/rill/errs"
	"github.com/rill-lang/rill/parser"
	"github.com/rill-lang/rill/runtime"
	"github.com/rill-lang/rill/scope"
	"github.com/rill-lang/rill/values"
)

func (in *Interpreter) evalExpr(env *scope.Scope, e parser.Expr) (values.Value, error) {
	switch n := e.(type) {
	case *parser.IntLit:
		return values.Int{Value: n.Value}, nil
	case *parser.FloatLit:
		return values.Float{Value: n.Value}, nil
	case *parser.StringLit:
		return values.StringVal{Value: n.Value}, nil
	case *parser.BoolLit:
		return values.Bool{Value: n.Value}, nil
	case *parser.NullLit:
		return values.Null{}, nil
	case *parser.ArrayLit:
		elems := make([]values.Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := in.evalExpr(env, el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &values.Array{Elements: elems}, nil
	case *parser.DictLit:
		d := values.NewDict()
		for _, pair := range n.Pairs {
			k, err := in.evalExpr(env, pair.Key)
			if err != nil {
				return nil, err
			}
			key, ok := k.(values.StringVal)
			if !ok {
				return nil, runtimeErr(n, errs.Type, "dictionary key must evaluate to a string")
			}
			v, err := in.evalExpr(env, pair.Value)
			if err != nil {
				return nil, err
			}
			d.Set(key.Value, v)
		}
		return d, nil
	case *parser.Identifier:
		v, err := env.Get(n.Name)
		if err != nil {
			return nil, runtimeErr(n, errs.Name, "%s", err.(*errs.Error).Message)
		}
		return v, nil
	case *parser.IndexAccess:
		return in.evalIndex(env, n)
	case *parser.SliceAccess:
		return in.evalSlice(env, n)
	case *parser.MemberAccess:
		return in.evalMember(env, n)
	case *parser.BinaryOp:
		return in.evalBinary(env, n)
	case *parser.UnaryOp:
		return in.evalUnary(env, n)
	case *parser.FunctionCallExpr:
		return in.evalCall(env, n)
	case *parser.MethodCallExpr:
		return in.evalMethodCall(env, n)
	case *parser.NewExpr:
		return in.evalNew(env, n)
	default:
		return nil, runtimeErr(e, errs.Type, "unknown expression type %T", e)
	}
}

func (in *Interpreter) evalIndex(env *scope.Scope, n *parser.IndexAccess) (values.Value, error) {
	obj, err := in.evalExpr(env, n.Target)
	if err != nil {
		return nil, err
	}
	idx, err := in.evalExpr(env, n.Index)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *values.Array:
		i, ok := idx.(values.Int)
		if !ok {
			return nil, runtimeErr(n, errs.Type, "array index must be an integer")
		}
		if i.Value < 0 || i.Value >= int64(len(o.Elements)) {
			return nil, runtimeErr(n, errs.Bounds, "array index out of bounds: %d", i.Value)
		}
		return o.Elements[i.Value], nil
	case *values.Dict:
		k, ok := idx.(values.StringVal)
		if !ok {
			return nil, runtimeErr(n, errs.Type, "dictionary key must be a string")
		}
		v, ok := o.Get(k.Value)
		if !ok {
			return nil, runtimeErr(n, errs.Bounds, "dictionary key not found: %s", k.Value)
		}
		return v, nil
	case values.StringVal:
		i, ok := idx.(values.Int)
		if !ok {
			return nil, runtimeErr(n, errs.Type, "string index must be an integer")
		}
		runes := []rune(o.Value)
		if i.Value < 0 || i.Value >= int64(len(runes)) {
			return nil, runtimeErr(n, errs.Bounds, "string index out of bounds: %d", i.Value)
		}
		return values.StringVal{Value: string(runes[i.Value])}, nil
	default:
		return nil, runtimeErr(n, errs.Type, "cannot index type %s", obj.Type())
	}
}

// evalSlice implements half-open [start:end] slicing over arrays and
// strings, clamping end past the collection's length and returning an
// empty result when start >= end, per spec.md §4.6.
func (in *Interpreter) evalSlice(env *scope.Scope, n *parser.SliceAccess) (values.Value, error) {
	obj, err := in.evalExpr(env, n.Target)
	if err != nil {
		return nil, err
	}

	length, err := sliceableLen(n, obj)
	if err != nil {
		return nil, err
	}

	start := int64(0)
	if n.Start != nil {
		v, err := in.evalExpr(env, n.Start)
		if err != nil {
			return nil, err
		}
		i, ok := v.(values.Int)
		if !ok {
			return nil, runtimeErr(n, errs.Type, "slice indices must be integers")
		}
		start = i.Value
	}
	end := int64(length)
	if n.End != nil {
		v, err := in.evalExpr(env, n.End)
		if err != nil {
			return nil, err
		}
		i, ok := v.(values.Int)
		if !ok {
			return nil, runtimeErr(n, errs.Type, "slice indices must be integers")
		}
		end = i.Value
	}
	if end > int64(length) {
		end = int64(length)
	}
	if start < 0 {
		start = 0
	}
	if start >= end {
		start, end = 0, 0
	}

	switch o := obj.(type) {
	case *values.Array:
		elems := make([]values.Value, end-start)
		copy(elems, o.Elements[start:end])
		return &values.Array{Elements: elems}, nil
	case values.StringVal:
		runes := []rune(o.Value)
		return values.StringVal{Value: string(runes[start:end])}, nil
	default:
		return nil, runtimeErr(n, errs.Type, "cannot slice type %s", obj.Type())
	}
}

func sliceableLen(n parser.Node, obj values.Value) (int, error) {
	switch o := obj.(type) {
	case *values.Array:
		return len(o.Elements), nil
	case values.StringVal:
		return len([]rune(o.Value)), nil
	default:
		return 0, runtimeErr(n, errs.Type, "cannot slice type %s", obj.Type())
	}
}

func (in *Interpreter) evalMember(env *scope.Scope, n *parser.MemberAccess) (values.Value, error) {
	obj, err := in.evalExpr(env, n.Target)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*runtime.Instance)
	if !ok {
		return nil, runtimeErr(n, errs.Type, "member access only valid on class instances")
	}
	return in.getMember(n, inst, n.Member)
}

func (in *Interpreter) evalUnary(env *scope.Scope, n *parser.UnaryOp) (values.Value, error) {
	v, err := in.evalExpr(env, n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "-":
		switch x := v.(type) {
		case values.Int:
			return values.Int{Value: -x.Value}, nil
		case values.Float:
			return values.Float{Value: -x.Value}, nil
		default:
			return nil, runtimeErr(n, errs.Type, "unary '-' requires a number, got %s", v.Type())
		}
	case "not":
		return values.Bool{Value: !values.Truthy(v)}, nil
	default:
		return nil, runtimeErr(n, errs.Type, "unknown unary operator %s", n.Op)
	}
}

// evalBinary implements spec.md §4.6/§4.7's operator table, grounded
// on original_source/py's eval_binary_op. and/or short-circuit before
// the right operand is even evaluated.
func (in *Interpreter) evalBinary(env *scope.Scope, n *parser.BinaryOp) (values.Value, error) {
	if n.Op == "and" {
		left, err := in.evalExpr(env, n.Left)
		if err != nil {
			return nil, err
		}
		if !values.Truthy(left) {
			return values.Bool{Value: false}, nil
		}
		right, err := in.evalExpr(env, n.Right)
		if err != nil {
			return nil, err
		}
		return values.Bool{Value: values.Truthy(right)}, nil
	}
	if n.Op == "or" {
		left, err := in.evalExpr(env, n.Left)
		if err != nil {
			return nil, err
		}
		if values.Truthy(left) {
			return values.Bool{Value: true}, nil
		}
		right, err := in.evalExpr(env, n.Right)
		if err != nil {
			return nil, err
		}
		return values.Bool{Value: values.Truthy(right)}, nil
	}

	left, err := in.evalExpr(env, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpr(env, n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "+":
		return evalAdd(n, left, right)
	case "-", "*", "/", "%":
		return evalArith(n, n.Op, left, right)
	case "==":
		return values.Bool{Value: values.Equal(left, right)}, nil
	case "!=":
		return values.Bool{Value: !values.Equal(left, right)}, nil
	case "<", "<=", ">", ">=":
		return evalCompare(n, n.Op, left, right)
	case "in", "not_in":
		return evalMembership(n, n.Op, left, right)
	default:
		return nil, runtimeErr(n, errs.Type, "unknown binary operator %s", n.Op)
	}
}

// evalAdd implements string concatenation (if either side is a
// string), array concatenation (if both sides are arrays), and
// numeric addition, per spec.md §4.7 and original_source/py's
// string-coercion rule for '+'.
func evalAdd(n parser.Node, left, right values.Value) (values.Value, error) {
	if la, ok := left.(*values.Array); ok {
		if ra, ok := right.(*values.Array); ok {
			elems := make([]values.Value, 0, len(la.Elements)+len(ra.Elements))
			elems = append(elems, la.Elements...)
			elems = append(elems, ra.Elements...)
			return &values.Array{Elements: elems}, nil
		}
	}
	if left.Type() == "string" || right.Type() == "string" {
		return values.StringVal{Value: left.String() + right.String()}, nil
	}
	return evalArith(n, "+", left, right)
}

func evalArith(n parser.Node, op string, left, right values.Value) (values.Value, error) {
	li, lIsInt := left.(values.Int)
	ri, rIsInt := right.(values.Int)
	if lIsInt && rIsInt {
		switch op {
		case "+":
			return values.Int{Value: li.Value + ri.Value}, nil
		case "-":
			return values.Int{Value: li.Value - ri.Value}, nil
		case "*":
			return values.Int{Value: li.Value * ri.Value}, nil
		case "/":
			if ri.Value == 0 {
				return nil, runtimeErr(n, errs.Arithmetic, "division by zero")
			}
			return values.Int{Value: floorDivInt(li.Value, ri.Value)}, nil
		case "%":
			if ri.Value == 0 {
				return nil, runtimeErr(n, errs.Arithmetic, "modulo by zero")
			}
			return values.Int{Value: floorModInt(li.Value, ri.Value)}, nil
		}
	}

	lf, lok := numericValue(left)
	rf, rok := numericValue(right)
	if !lok || !rok {
		return nil, runtimeErr(n, errs.Type, "operator %s requires numbers, got %s and %s", op, left.Type(), right.Type())
	}
	switch op {
	case "+":
		return values.Float{Value: lf + rf}, nil
	case "-":
		return values.Float{Value: lf - rf}, nil
	case "*":
		return values.Float{Value: lf * rf}, nil
	case "/":
		if rf == 0 {
			return nil, runtimeErr(n, errs.Arithmetic, "division by zero")
		}
		return values.Float{Value: lf / rf}, nil
	case "%":
		if rf == 0 {
			return nil, runtimeErr(n, errs.Arithmetic, "modulo by zero")
		}
		return values.Float{Value: math.Mod(lf, rf)}, nil
	default:
		return nil, runtimeErr(n, errs.Type, "unknown arithmetic operator %s", op)
	}
}

// floorDivInt/floorModInt give Python's floor-division semantics for
// integer / and %, matching original_source/py's `//` and `%` (which
// round toward negative infinity, not toward zero like Go's native /
// and %).
func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

func numericValue(v values.Value) (float64, bool) {
	switch x := v.(type) {
	case values.Int:
		return float64(x.Value), true
	case values.Float:
		return x.Value, true
	default:
		return 0, false
	}
}

func evalCompare(n parser.Node, op string, left, right values.Value) (values.Value, error) {
	if lf, lok := numericValue(left); lok {
		if rf, rok := numericValue(right); rok {
			return values.Bool{Value: compareFloats(op, lf, rf)}, nil
		}
	}
	ls, lok := left.(values.StringVal)
	rs, rok := right.(values.StringVal)
	if lok && rok {
		return values.Bool{Value: compareStrings(op, ls.Value, rs.Value)}, nil
	}
	return nil, runtimeErr(n, errs.Type, "operator %s cannot compare %s and %s", op, left.Type(), right.Type())
}

func compareFloats(op string, l, r float64) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	}
	return false
}

func compareStrings(op string, l, r string) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	}
	return false
}

// evalMembership implements 'in'/'not_in' over arrays (element
// equality), dicts (string-keyed presence), and strings (substring),
// per original_source/py's eval_binary_op 'in' branch.
func evalMembership(n parser.Node, op string, left, right values.Value) (values.Value, error) {
	var found bool
	switch r := right.(type) {
	case *values.Array:
		for _, elem := range r.Elements {
			if values.Equal(left, elem) {
				found = true
				break
			}
		}
	case *values.Dict:
		key, ok := left.(values.StringVal)
		if !ok {
			return nil, runtimeErr(n, errs.Type, "dictionary keys for 'in' must be strings")
		}
		_, found = r.Get(key.Value)
	case values.StringVal:
		sub, ok := left.(values.StringVal)
		if !ok {
			return nil, runtimeErr(n, errs.Type, "substring for 'in' must be a string")
		}
		found = strings.Contains(r.Value, sub.Value)
	default:
		return nil, runtimeErr(n, errs.Type, "'in' not supported for %s", right.Type())
	}
	if op == "not_in" {
		found = !found
	}
	return values.Bool{Value: found}, nil
}

func (in *Interpreter) evalCall(env *scope.Scope, n *parser.FunctionCallExpr) (values.Value, error) {
	callee, err := env.Get(n.Name)
	if err != nil {
		return nil, runtimeErr(n, errs.Name, "%s", err.(*errs.Error).Message)
	}
	args, err := in.evalArgs(env, n.Args)
	if err != nil {
		return nil, err
	}
	return in.invoke(n, callee, args)
}

func (in *Interpreter) evalMethodCall(env *scope.Scope, n *parser.MethodCallExpr) (values.Value, error) {
	obj, err := in.evalExpr(env, n.Object)
	if err != nil {
		return nil, err
	}
	args, err := in.evalArgs(env, n.Args)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*runtime.Instance)
	if !ok {
		return nil, runtimeErr(n, errs.Type, "method call only valid on class instances")
	}
	return in.callMethod(n, inst, n.Method, args)
}

func (in *Interpreter) evalNew(env *scope.Scope, n *parser.NewExpr) (values.Value, error) {
	classVal, err := env.Get(n.ClassName)
	if err != nil {
		return nil, runtimeErr(n, errs.Name, "%s", err.(*errs.Error).Message)
	}
	class, ok := classVal.(*runtime.Class)
	if !ok {
		return nil, runtimeErr(n, errs.Type, "%s is not a class", n.ClassName)
	}
	args, err := in.evalArgs(env, n.Args)
	if err != nil {
		return nil, err
	}
	return in.instantiateClass(n, class, args)
}

func (in *Interpreter) evalArgs(env *scope.Scope, exprs []parser.Expr) ([]values.Value, error) {
	args := make([]values.Value, len(exprs))
	for i, e := range exprs {
		v, err := in.evalExpr(env, e)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// invoke dispatches a resolved callee value (from a bare-name call
// site) to the right call convention, per spec.md §4.2's "callable
// duck typing" note: a host builtin, a user function, or a bound
// method value produced by an earlier MemberAccess.
func (in *Interpreter) invoke(n parser.Node, callee values.Value, args []values.Value) (values.Value, error) {
	switch fn := callee.(type) {
	case *values.Builtin:
		return fn.Fn(args)
	case *runtime.Function:
		return in.callFunction(n, fn, args)
	case *runtime.BoundMethod:
		return in.callBoundMethod(n, fn, args)
	default:
		return nil, runtimeErr(n, errs.Type, "value of type %s is not callable", callee.Type())
	}
}
