package eval

import (
	"github.com/rill-lang/rill/scope"
	"github.com/rill-lang/rill/std"
)

// registerBuiltins installs the std package's fixed builtin registry
// into env. Kept as its own call site (rather than inlined into New)
// so Interpreter's std.Runtime methods (Out/In/Args) are defined
// before anything tries to use them, and so the eval<->std wiring has
// one obvious place to read.
func registerBuiltins(env *scope.Scope, rt std.Runtime) {
	std.Register(env, rt)
}
