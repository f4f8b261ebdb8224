package scope

import (
	"testing"

	"github.com/rill-lang/rill/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_DefineGetSet(t *testing.T) {
	s := New()
	s.Define("x", values.Int{Value: 1})

	v, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, values.Int{Value: 1}, v)

	require.NoError(t, s.Set("x", values.Int{Value: 2}))
	v, _ = s.Get("x")
	assert.Equal(t, values.Int{Value: 2}, v)
}

func TestScope_SetUndeclaredFails(t *testing.T) {
	s := New()
	err := s.Set("missing", values.Int{Value: 1})
	assert.Error(t, err)
}

func TestScope_GetUndeclaredFails(t *testing.T) {
	s := New()
	_, err := s.Get("missing")
	assert.Error(t, err)
}

func TestScope_ChildShadowsAndFallsThrough(t *testing.T) {
	parent := New()
	parent.Define("x", values.Int{Value: 1})
	child := parent.Child()

	v, err := child.Get("x")
	require.NoError(t, err)
	assert.Equal(t, values.Int{Value: 1}, v)

	child.Define("x", values.Int{Value: 2})
	v, _ = child.Get("x")
	assert.Equal(t, values.Int{Value: 2}, v)

	parentVal, _ := parent.Get("x")
	assert.Equal(t, values.Int{Value: 1}, parentVal, "child shadow must not affect parent")
}

func TestScope_SetMutatesDefiningFrameNotChild(t *testing.T) {
	parent := New()
	parent.Define("x", values.Int{Value: 1})
	child := parent.Child()

	require.NoError(t, child.Set("x", values.Int{Value: 99}))
	v, _ := parent.Get("x")
	assert.Equal(t, values.Int{Value: 99}, v, "set without a local define mutates the parent frame")
}

func TestScope_ClosureAliasing(t *testing.T) {
	// var x=1; func f(){return x;} x=2; f() must see 2 — the defining
	// scope is aliased (shared), never snapshotted. This is exactly the
	// property runtime.Function relies on by storing a live *Scope.
	s := New()
	s.Define("x", values.Int{Value: 1})
	captured := s // a closure would just store this pointer
	require.NoError(t, s.Set("x", values.Int{Value: 2}))
	v, err := captured.Get("x")
	require.NoError(t, err)
	assert.Equal(t, values.Int{Value: 2}, v)
}
