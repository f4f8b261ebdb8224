// Package scope implements the lexical environment chain spec.md §4.4
// describes, grounded on go-mix's own scope/scope.go frame-chain shape
// but trimmed of its `const`/`let` type-locking bookkeeping — this
// language has only `var`.
//
// A Scope is always heap-allocated and referenced by pointer so a
// Function value can retain a live link to the frame it closed over:
// spec.md's closure-aliasing requirement (Testable Property 3) means
// scopes are never copied, only chained.
package scope

import (
	"github.com/rill-lang/rill/errs"
	"github.com/rill-lang/rill/values"
)

// Scope is one frame of the environment chain.
type Scope struct {
	parent   *Scope
	bindings map[string]values.Value
}

// New creates a root scope with no parent.
func New() *Scope {
	return &Scope{bindings: make(map[string]values.Value)}
}

// Child creates a new frame chained from s, used on block/loop/call
// entry.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, bindings: make(map[string]values.Value)}
}

// Define binds name in the innermost (this) frame unconditionally,
// shadowing any outer binding of the same name.
func (s *Scope) Define(name string, v values.Value) {
	s.bindings[name] = v
}

// Get walks the chain outward from s looking for name.
func (s *Scope) Get(name string) (values.Value, error) {
	for f := s; f != nil; f = f.parent {
		if v, ok := f.bindings[name]; ok {
			return v, nil
		}
	}
	return nil, errs.New(errs.Name, "undefined variable: %s", name)
}

// Set mutates the innermost frame that already binds name. It never
// creates a new binding — assigning to an undeclared name fails, per
// spec.md §4.4.
func (s *Scope) Set(name string, v values.Value) error {
	for f := s; f != nil; f = f.parent {
		if _, ok := f.bindings[name]; ok {
			f.bindings[name] = v
			return nil
		}
	}
	return errs.New(errs.Name, "undefined variable: %s", name)
}
