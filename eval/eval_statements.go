package eval

import (
	"github.com/rill-lang/rill/errs"
	"github.com/rill-lang/rill/parser"
	"github.com/rill-lang/rill/runtime"
	"github.com/rill-lang/rill/scope"
	"github.com/rill-lang/rill/values"
)

// execBlockIn executes stmts directly in env (no child frame of its
// own) — used for the top-level Program, and by every construct below
// that has already created the child frame it wants the block to run
// in (if/while/for/foreach/function & method bodies), per spec.md §4.4
// ("Entering a block creates a new child frame; exiting restores the
// previous one on all paths"). Execution stops at the first non-normal
// signal or error, mirroring go-mix's own evalStatements early-exit
// rule.
func (in *Interpreter) execBlockIn(env *scope.Scope, stmts []parser.Stmt) (signal, error) {
	for _, s := range stmts {
		sig, err := in.execStmt(env, s)
		if err != nil {
			return signal{}, err
		}
		if sig.kind != sigNormal {
			return sig, nil
		}
	}
	return normalSignal, nil
}

// execBlock runs stmts in a fresh child frame of env.
func (in *Interpreter) execBlock(env *scope.Scope, stmts []parser.Stmt) (signal, error) {
	return in.execBlockIn(env.Child(), stmts)
}

func (in *Interpreter) execStmt(env *scope.Scope, s parser.Stmt) (signal, error) {
	switch n := s.(type) {
	case *parser.VarDeclaration:
		return in.execVarDecl(env, n)
	case *parser.MultiVarDeclaration:
		for _, d := range n.Decls {
			if _, err := in.execVarDecl(env, d); err != nil {
				return signal{}, err
			}
		}
		return normalSignal, nil
	case *parser.AssignStmt:
		return in.execAssign(env, n)
	case *parser.ExprStmt:
		if _, err := in.evalExpr(env, n.X); err != nil {
			return signal{}, err
		}
		return normalSignal, nil
	case *parser.FunctionDef:
		env.Define(n.Name, &runtime.Function{Name: n.Name, Params: n.Params, Body: n.Body, Env: env})
		return normalSignal, nil
	case *parser.ClassDef:
		methods := make(map[string]*parser.FunctionDef, len(n.Methods))
		for _, m := range n.Methods {
			methods[m.Name] = m
		}
		env.Define(n.Name, &runtime.Class{Name: n.Name, Members: n.Members, Methods: methods, Env: env})
		return normalSignal, nil
	case *parser.Return:
		if n.Value == nil {
			return signal{kind: sigReturn, value: values.Null{}}, nil
		}
		v, err := in.evalExpr(env, n.Value)
		if err != nil {
			return signal{}, err
		}
		return signal{kind: sigReturn, value: v}, nil
	case *parser.IfStmt:
		return in.execIf(env, n)
	case *parser.WhileStmt:
		return in.execWhile(env, n)
	case *parser.ForStmt:
		return in.execFor(env, n)
	case *parser.ForeachStmt:
		return in.execForeach(env, n)
	case *parser.BreakStmt:
		return signal{kind: sigBreak}, nil
	case *parser.ContinueStmt:
		return signal{kind: sigContinue}, nil
	case *parser.TryCatch:
		return in.execTryCatch(env, n)
	case *parser.Raise:
		return signal{}, in.execRaise(env, n)
	case *parser.Assert:
		return signal{}, in.execAssert(env, n)
	default:
		return signal{}, runtimeErr(s, errs.Type, "unknown statement type %T", s)
	}
}

func (in *Interpreter) execVarDecl(env *scope.Scope, n *parser.VarDeclaration) (signal, error) {
	var v values.Value = values.Null{}
	if n.Value != nil {
		val, err := in.evalExpr(env, n.Value)
		if err != nil {
			return signal{}, err
		}
		v = val
	}
	env.Define(n.Name, v)
	return normalSignal, nil
}

func (in *Interpreter) execAssign(env *scope.Scope, n *parser.AssignStmt) (signal, error) {
	v, err := in.evalExpr(env, n.Value)
	if err != nil {
		return signal{}, err
	}
	switch target := n.Target.(type) {
	case *parser.Identifier:
		if err := env.Set(target.Name, v); err != nil {
			return signal{}, runtimeErr(target, errs.Name, "%s", err.(*errs.Error).Message)
		}
	case *parser.IndexAccess:
		obj, err := in.evalExpr(env, target.Target)
		if err != nil {
			return signal{}, err
		}
		idx, err := in.evalExpr(env, target.Index)
		if err != nil {
			return signal{}, err
		}
		if err := in.assignIndex(target, obj, idx, v); err != nil {
			return signal{}, err
		}
	case *parser.MemberAccess:
		obj, err := in.evalExpr(env, target.Target)
		if err != nil {
			return signal{}, err
		}
		inst, ok := obj.(*runtime.Instance)
		if !ok {
			return signal{}, runtimeErr(target, errs.Type, "member assignment only valid on class instances")
		}
		if err := in.setMember(target, inst, target.Member, v); err != nil {
			return signal{}, err
		}
	case *parser.SliceAccess:
		return signal{}, runtimeErr(target, errs.Type, "cannot assign to a slice")
	default:
		return signal{}, runtimeErr(n, errs.Type, "invalid assignment target")
	}
	return normalSignal, nil
}

func (in *Interpreter) assignIndex(n parser.Node, obj, idx, v values.Value) error {
	switch o := obj.(type) {
	case *values.Array:
		i, ok := idx.(values.Int)
		if !ok {
			return runtimeErr(n, errs.Type, "array index must be an integer")
		}
		if i.Value < 0 || i.Value >= int64(len(o.Elements)) {
			return runtimeErr(n, errs.Bounds, "array index out of bounds: %d", i.Value)
		}
		o.Elements[i.Value] = v
		return nil
	case *values.Dict:
		k, ok := idx.(values.StringVal)
		if !ok {
			return runtimeErr(n, errs.Type, "dictionary key must be a string")
		}
		o.Set(k.Value, v)
		return nil
	case values.StringVal:
		return runtimeErr(n, errs.Type, "strings are immutable")
	default:
		return runtimeErr(n, errs.Type, "cannot index type %s", obj.Type())
	}
}

func (in *Interpreter) execIf(env *scope.Scope, n *parser.IfStmt) (signal, error) {
	cond, err := in.evalExpr(env, n.Cond)
	if err != nil {
		return signal{}, err
	}
	if values.Truthy(cond) {
		return in.execBlock(env, n.Then)
	}
	if n.Else != nil {
		return in.execBlock(env, n.Else)
	}
	return normalSignal, nil
}

func (in *Interpreter) execWhile(env *scope.Scope, n *parser.WhileStmt) (signal, error) {
	for {
		cond, err := in.evalExpr(env, n.Cond)
		if err != nil {
			return signal{}, err
		}
		if !values.Truthy(cond) {
			return normalSignal, nil
		}
		sig, err := in.execBlock(env, n.Body)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return normalSignal, nil
		case sigReturn:
			return sig, nil
		}
	}
}

// execFor implements the integer-range form `for (i = start .. end)`,
// half-open inclusive-of-start exclusive-of-end, per spec.md §4.5.
func (in *Interpreter) execFor(env *scope.Scope, n *parser.ForStmt) (signal, error) {
	startV, err := in.evalExpr(env, n.Start)
	if err != nil {
		return signal{}, err
	}
	endV, err := in.evalExpr(env, n.End)
	if err != nil {
		return signal{}, err
	}
	start, ok := startV.(values.Int)
	if !ok {
		return signal{}, runtimeErr(n, errs.Type, "for-loop range bounds must be integers")
	}
	end, ok := endV.(values.Int)
	if !ok {
		return signal{}, runtimeErr(n, errs.Type, "for-loop range bounds must be integers")
	}
	for i := start.Value; i < end.Value; i++ {
		iterEnv := env.Child()
		iterEnv.Define(n.Var, values.Int{Value: i})
		sig, err := in.execBlockIn(iterEnv, n.Body)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return normalSignal, nil
		case sigReturn:
			return sig, nil
		}
	}
	return normalSignal, nil
}

// execForeach implements `for (k => v in expr)` / `foreach (k => v in
// expr)` over arrays (index, element) or dicts (key, value in
// insertion order), per spec.md §4.5.
func (in *Interpreter) execForeach(env *scope.Scope, n *parser.ForeachStmt) (signal, error) {
	coll, err := in.evalExpr(env, n.Collection)
	if err != nil {
		return signal{}, err
	}
	switch c := coll.(type) {
	case *values.Array:
		for i, elem := range c.Elements {
			iterEnv := env.Child()
			iterEnv.Define(n.KeyVar, values.Int{Value: int64(i)})
			iterEnv.Define(n.ValueVar, elem)
			sig, err := in.execBlockIn(iterEnv, n.Body)
			if err != nil {
				return signal{}, err
			}
			switch sig.kind {
			case sigBreak:
				return normalSignal, nil
			case sigReturn:
				return sig, nil
			}
		}
		return normalSignal, nil
	case *values.Dict:
		for _, k := range c.Keys() {
			v, _ := c.Get(k)
			iterEnv := env.Child()
			iterEnv.Define(n.KeyVar, values.StringVal{Value: k})
			iterEnv.Define(n.ValueVar, v)
			sig, err := in.execBlockIn(iterEnv, n.Body)
			if err != nil {
				return signal{}, err
			}
			switch sig.kind {
			case sigBreak:
				return normalSignal, nil
			case sigReturn:
				return sig, nil
			}
		}
		return normalSignal, nil
	default:
		return signal{}, runtimeErr(n, errs.Type, "cannot iterate over %s", coll.Type())
	}
}

// execTryCatch runs the try-block; a *errs.Error unwinding out of it is
// caught, binding its message to CatchVar before running the catch
// block. Non-error signals (return/break/continue) pass through
// unaffected, per spec.md §4.5 and §7.
func (in *Interpreter) execTryCatch(env *scope.Scope, n *parser.TryCatch) (signal, error) {
	sig, err := in.execBlock(env, n.Try)
	if err == nil {
		return sig, nil
	}
	langErr, ok := err.(*errs.Error)
	if !ok {
		return signal{}, err
	}
	catchEnv := env.Child()
	catchEnv.Define(n.CatchVar, values.StringVal{Value: langErr.Message})
	return in.execBlockIn(catchEnv, n.Catch)
}

func (in *Interpreter) execRaise(env *scope.Scope, n *parser.Raise) error {
	v, err := in.evalExpr(env, n.Value)
	if err != nil {
		return err
	}
	return errs.New(errs.User, "%s:%d: %s", n.Pos().File, n.Pos().Line, v.String())
}

func (in *Interpreter) execAssert(env *scope.Scope, n *parser.Assert) error {
	cond, err := in.evalExpr(env, n.Cond)
	if err != nil {
		return err
	}
	if values.Truthy(cond) {
		return nil
	}
	msg := "Assertion failed"
	if n.Msg != nil {
		v, err := in.evalExpr(env, n.Msg)
		if err != nil {
			return err
		}
		msg = v.String()
	}
	return errs.New(errs.User, "%s:%d: %s", n.Pos().File, n.Pos().Line, msg)
}
