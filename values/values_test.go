package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy_Table(t *testing.T) {
	falsy := []Value{
		Int{0}, Float{0}, StringVal{""}, Bool{false}, Null{},
		&Array{}, NewDict(),
	}
	for _, v := range falsy {
		assert.False(t, Truthy(v), "%v should be falsy", v)
	}

	truthy := []Value{
		Int{1}, Float{0.5}, StringVal{"x"}, Bool{true},
		&Array{Elements: []Value{Int{1}}},
	}
	d := NewDict()
	d.Set("k", Int{1})
	truthy = append(truthy, d)
	for _, v := range truthy {
		assert.True(t, Truthy(v), "%v should be truthy", v)
	}
}

func TestDict_PreservesInsertionOrder(t *testing.T) {
	d := NewDict()
	d.Set("b", Int{2})
	d.Set("a", Int{1})
	d.Set("c", Int{3})
	assert.Equal(t, []string{"b", "a", "c"}, d.Keys())

	d.Set("a", Int{99})
	assert.Equal(t, []string{"b", "a", "c"}, d.Keys(), "overwrite must not move key")

	ok := d.Remove("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"b", "c"}, d.Keys())

	assert.False(t, d.Remove("missing"))
}

func TestEqual_PrimitivesAndComposites(t *testing.T) {
	assert.True(t, Equal(Int{1}, Int{1}))
	assert.True(t, Equal(Int{1}, Float{1.0}), "int/float numeric equality")
	assert.False(t, Equal(Int{1}, StringVal{"1"}))
	assert.True(t, Equal(StringVal{"a"}, StringVal{"a"}))
	assert.True(t, Equal(Null{}, Null{}))

	a1 := &Array{Elements: []Value{Int{1}, StringVal{"x"}}}
	a2 := &Array{Elements: []Value{Int{1}, StringVal{"x"}}}
	assert.True(t, Equal(a1, a2))

	d1 := NewDict()
	d1.Set("k", Int{1})
	d2 := NewDict()
	d2.Set("k", Int{1})
	assert.True(t, Equal(d1, d2))

	d2.Set("other", Int{2})
	assert.False(t, Equal(d1, d2))
}
