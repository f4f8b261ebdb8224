package eval

import (
	"github.com/rill-lang/rill/errs"
	"github.com/rill-lang/rill/parser"
	"github.com/rill-lang/rill/runtime"
	"github.com/rill-lang/rill/values"
)

// isInternalAccess reports whether the currently executing method body
// belongs to the same class as instance, by pointer identity of the
// Class — grounded on original_source/py's is_internal_access, which
// compares class_value identity via the receiver stack (this_stack)
// rather than by name, so two classes that happen to share a name
// still can't reach into each other's private members.
func (in *Interpreter) isInternalAccess(instance *runtime.Instance) bool {
	if len(in.receivers) == 0 {
		return false
	}
	top := in.receivers[len(in.receivers)-1]
	return top.Class == instance.Class
}

func (in *Interpreter) getMember(n parser.Node, instance *runtime.Instance, name string) (values.Value, error) {
	private := len(name) > 0 && name[0] == '_'
	if private && !in.isInternalAccess(instance) {
		return nil, runtimeErr(n, errs.Access, "cannot access private member '%s' of class %s", name, instance.Class.Name)
	}
	if v, ok := instance.Fields[name]; ok {
		return v, nil
	}
	if method, ok := instance.Class.Methods[name]; ok {
		return &runtime.BoundMethod{Receiver: instance, Method: method}, nil
	}
	return nil, runtimeErr(n, errs.Access, "member '%s' not found on class %s", name, instance.Class.Name)
}

func (in *Interpreter) setMember(n parser.Node, instance *runtime.Instance, name string, v values.Value) error {
	private := len(name) > 0 && name[0] == '_'
	if private && !in.isInternalAccess(instance) {
		return runtimeErr(n, errs.Access, "cannot access private member '%s' of class %s", name, instance.Class.Name)
	}
	if _, ok := instance.Fields[name]; !ok {
		return runtimeErr(n, errs.Access, "member '%s' not defined on class %s", name, instance.Class.Name)
	}
	instance.Fields[name] = v
	return nil
}

// instantiateClass builds a new Instance, evaluates its member
// initializers in a scope where this/self are already bound (so an
// initializer may reference an earlier member or a private helper),
// then runs init if the class declares one. Grounded on
// original_source/py's instantiate_class.
func (in *Interpreter) instantiateClass(n parser.Node, class *runtime.Class, args []values.Value) (*runtime.Instance, error) {
	instance := &runtime.Instance{Class: class, Fields: make(map[string]values.Value, len(class.Members))}

	initEnv := class.Env.Child()
	initEnv.Define("this", instance)
	initEnv.Define("self", instance)
	in.receivers = append(in.receivers, instance)
	for _, m := range class.Members {
		var v values.Value = values.Null{}
		if m.Init != nil {
			val, err := in.evalExpr(initEnv, m.Init)
			if err != nil {
				in.receivers = in.receivers[:len(in.receivers)-1]
				return nil, err
			}
			v = val
		}
		instance.Fields[m.Name] = v
	}
	in.receivers = in.receivers[:len(in.receivers)-1]

	if init, ok := class.Methods["init"]; ok {
		if len(args) != len(init.Params) {
			return nil, runtimeErr(n, errs.Arity, "constructor for %s expects %d argument(s), got %d", class.Name, len(init.Params), len(args))
		}
		if _, err := in.invokeMethod(n, instance, init, args); err != nil {
			return nil, err
		}
	} else if len(args) > 0 {
		return nil, runtimeErr(n, errs.Arity, "class %s constructor does not take arguments", class.Name)
	}
	return instance, nil
}

// callMethod resolves name on instance's class (checking private
// access and arity) and invokes it, for `obj.name(args...)` call
// sites.
func (in *Interpreter) callMethod(n parser.Node, instance *runtime.Instance, name string, args []values.Value) (values.Value, error) {
	method, ok := instance.Class.Methods[name]
	if !ok {
		return nil, runtimeErr(n, errs.Access, "method '%s' not found on class %s", name, instance.Class.Name)
	}
	private := len(name) > 0 && name[0] == '_'
	if private && !in.isInternalAccess(instance) {
		return nil, runtimeErr(n, errs.Access, "cannot access private method '%s' of class %s", name, instance.Class.Name)
	}
	if len(args) != len(method.Params) {
		return nil, runtimeErr(n, errs.Arity, "method %s expects %d argument(s), got %d", name, len(method.Params), len(args))
	}
	return in.invokeMethod(n, instance, method, args)
}

// invokeMethod runs method's body bound to instance via this/self,
// pushing instance onto the receiver stack for the duration of the
// call so nested private-member checks inside the body see the right
// class identity.
func (in *Interpreter) invokeMethod(n parser.Node, instance *runtime.Instance, method *parser.FunctionDef, args []values.Value) (values.Value, error) {
	methodEnv := instance.Class.Env.Child()
	methodEnv.Define("this", instance)
	methodEnv.Define("self", instance)
	for i, p := range method.Params {
		methodEnv.Define(p, args[i])
	}
	in.receivers = append(in.receivers, instance)
	sig, err := in.execBlockIn(methodEnv, method.Body)
	in.receivers = in.receivers[:len(in.receivers)-1]
	if err != nil {
		return nil, err
	}
	if sig.kind == sigReturn {
		return sig.value, nil
	}
	return values.Null{}, nil
}

// callBoundMethod invokes a *runtime.BoundMethod value produced by a
// MemberAccess that resolved to a method (spec.md's "Bound methods"
// note) — arity and private-access checks mirror callMethod.
func (in *Interpreter) callBoundMethod(n parser.Node, bm *runtime.BoundMethod, args []values.Value) (values.Value, error) {
	private := len(bm.Method.Name) > 0 && bm.Method.Name[0] == '_'
	if private && !in.isInternalAccess(bm.Receiver) {
		return nil, runtimeErr(n, errs.Access, "cannot access private method '%s' of class %s", bm.Method.Name, bm.Receiver.Class.Name)
	}
	if len(args) != len(bm.Method.Params) {
		return nil, runtimeErr(n, errs.Arity, "method %s expects %d argument(s), got %d", bm.Method.Name, len(bm.Method.Params), len(args))
	}
	return in.invokeMethod(n, bm.Receiver, bm.Method, args)
}

// callFunction invokes a user-defined closure in a fresh child frame
// of the scope it captured, per spec.md §4.3's call semantics.
func (in *Interpreter) callFunction(n parser.Node, fn *runtime.Function, args []values.Value) (values.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, runtimeErr(n, errs.Arity, "function %s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	callEnv := fn.Env.Child()
	for i, p := range fn.Params {
		callEnv.Define(p, args[i])
	}
	sig, err := in.execBlockIn(callEnv, fn.Body)
	if err != nil {
		return nil, err
	}
	if sig.kind == sigReturn {
		return sig.value, nil
	}
	return values.Null{}, nil
}
