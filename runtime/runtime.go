// Package runtime holds the callable and object-model value kinds that
// sit above values.Value but below the evaluator: functions (with
// their captured closure), classes, instances, and bound methods.
// Grounded on go-mix's function/function.go for the closure shape, and
// on original_source/py's interpreter_3.py ClassValue/ClassInstance
// for the class/instance/private-access model the teacher has no
// analogue for.
package runtime

import (
	"fmt"

	"github.com/rill-lang/rill/parser"
	"github.com/rill-lang/rill/scope"
	"github.com/rill-lang/rill/values"
)

// Function is a user-defined closure. Env is the live scope the
// function was defined in — stored by pointer and never copied, so
// that `var x=1; func f(){return x;} x=2; f()` observes the mutation
// (spec.md Testable Property 3). This is a deliberate departure from
// go-mix's own scope.Copy()-on-closure behavior; see DESIGN.md.
type Function struct {
	Name   string
	Params []string
	Body   []parser.Stmt
	Env    *scope.Scope
}

func (*Function) Type() string     { return "function" }
func (f *Function) String() string { return fmt.Sprintf("<function %s>", f.Name) }

// Class is a user-defined class: its member declarations (for
// per-instance initialization), its method table, and the scope it
// was declared in (methods and member initializers run chained from
// this scope, not the call site's).
type Class struct {
	Name    string
	Members []*parser.MemberDecl
	Methods map[string]*parser.FunctionDef
	Env     *scope.Scope
}

func (*Class) Type() string     { return "class" }
func (c *Class) String() string { return fmt.Sprintf("<class %s>", c.Name) }

// Instance is one allocation of a Class: a reference to its class (by
// pointer — private-member checks compare this pointer, not the
// class's name, per spec.md §9's receiver-stack note) plus its own
// field map.
type Instance struct {
	Class  *Class
	Fields map[string]values.Value
}

func (*Instance) Type() string { return "instance" }
func (i *Instance) String() string {
	return fmt.Sprintf("<instance of %s>", i.Class.Name)
}

// BoundMethod pairs an instance with one of its class's methods,
// returned by a MemberAccess that resolves to a method rather than a
// field (spec.md §9's "Bound methods" design note). Invoking it pushes
// Receiver as the method's receiver for the duration of the call.
type BoundMethod struct {
	Receiver *Instance
	Method   *parser.FunctionDef
}

func (*BoundMethod) Type() string { return "function" }
func (b *BoundMethod) String() string {
	return fmt.Sprintf("<bound method %s.%s>", b.Receiver.Class.Name, b.Method.Name)
}
