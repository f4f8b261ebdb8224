package std

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rill-lang/rill/scope"
	"github.com/rill-lang/rill/values"
)

// testRuntime is a minimal std.Runtime for exercising builtins directly,
// without going through the eval package.
type testRuntime struct {
	out  bytes.Buffer
	in   *bufio.Reader
	args []string
}

func (r *testRuntime) Out() io.Writer    { return &r.out }
func (r *testRuntime) In() *bufio.Reader { return r.in }
func (r *testRuntime) Args() []string    { return r.args }

func newTestRuntime(input string) *testRuntime {
	return &testRuntime{in: bufio.NewReader(strings.NewReader(input))}
}

func TestRegisterInstallsEveryBuiltin(t *testing.T) {
	env := scope.New()
	Register(env, newTestRuntime(""))
	for _, name := range []string{
		"print", "println", "len", "int", "float", "str", "bool", "type", "input", "cmd_args",
		"range", "append", "pop", "keys", "values", "remove",
		"math", "json_encode", "json_decode", "read", "write",
		"regexp_match", "regexp_find", "regexp_replace", "str_split", "str_join",
	} {
		v, err := env.Get(name)
		require.NoError(t, err, name)
		_, ok := v.(*values.Builtin)
		assert.True(t, ok, name)
	}
}

func TestMathDispatch(t *testing.T) {
	rt := newTestRuntime("")
	v, err := builtinMath(rt, []values.Value{values.StringVal{Value: "round"}, values.Float{Value: 2.6}})
	require.NoError(t, err)
	assert.Equal(t, values.Int{Value: 3}, v)

	v, err = builtinMath(rt, []values.Value{values.StringVal{Value: "floor"}, values.Float{Value: 2.9}})
	require.NoError(t, err)
	assert.Equal(t, values.Float{Value: 2}, v)

	v, err = builtinMath(rt, []values.Value{values.StringVal{Value: "pow"}, values.Int{Value: 2}, values.Int{Value: 10}})
	require.NoError(t, err)
	assert.Equal(t, values.Float{Value: 1024}, v)

	_, err = builtinMath(rt, []values.Value{values.StringVal{Value: "bogus"}})
	assert.Error(t, err)
}

func TestJSONRoundTripPreservesOrder(t *testing.T) {
	rt := newTestRuntime("")
	d := values.NewDict()
	d.Set("b", values.Int{Value: 2})
	d.Set("a", values.Int{Value: 1})

	enc, err := builtinJSONEncode(rt, []values.Value{d})
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":1}`, enc.(values.StringVal).Value)

	dec, err := builtinJSONDecode(rt, []values.Value{enc})
	require.NoError(t, err)
	decDict, ok := dec.(*values.Dict)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, decDict.Keys())
}

func TestJSONDecodeRelaxedDialectFallback(t *testing.T) {
	rt := newTestRuntime("")
	dec, err := builtinJSONDecode(rt, []values.Value{values.StringVal{Value: `{'a': 1, 'b': TRUE,}`}})
	require.NoError(t, err)
	d, ok := dec.(*values.Dict)
	require.True(t, ok)
	v, _ := d.Get("a")
	assert.Equal(t, values.Int{Value: 1}, v)
	v, _ = d.Get("b")
	assert.Equal(t, values.Bool{Value: true}, v)
}

func TestPopDefaultsToLastElement(t *testing.T) {
	rt := newTestRuntime("")
	arr := &values.Array{Elements: []values.Value{values.Int{Value: 1}, values.Int{Value: 2}, values.Int{Value: 3}}}
	v, err := builtinPop(rt, []values.Value{arr})
	require.NoError(t, err)
	assert.Equal(t, values.Int{Value: 3}, v)
	assert.Equal(t, 2, len(arr.Elements))
}

func TestRemoveNeverRaises(t *testing.T) {
	rt := newTestRuntime("")
	arr := &values.Array{Elements: []values.Value{values.Int{Value: 1}}}
	v, err := builtinRemove(rt, []values.Value{arr, values.StringVal{Value: "not-an-index"}})
	require.NoError(t, err)
	assert.Equal(t, values.Bool{Value: false}, v)
}

func TestRangeBuiltin(t *testing.T) {
	rt := newTestRuntime("")
	v, err := builtinRange(rt, []values.Value{values.Int{Value: 3}})
	require.NoError(t, err)
	arr := v.(*values.Array)
	assert.Equal(t, 3, len(arr.Elements))
	assert.Equal(t, values.Int{Value: 0}, arr.Elements[0])
	assert.Equal(t, values.Int{Value: 2}, arr.Elements[2])
}

func TestRegexpHelpers(t *testing.T) {
	rt := newTestRuntime("")
	v, err := builtinRegexMatch(rt, []values.Value{values.StringVal{Value: `\d+`}, values.StringVal{Value: "abc123"}})
	require.NoError(t, err)
	assert.Equal(t, values.Int{Value: 1}, v)

	v, err = builtinRegexReplace(rt, []values.Value{
		values.StringVal{Value: `\d+`}, values.StringVal{Value: "abc123"}, values.StringVal{Value: "#"},
	})
	require.NoError(t, err)
	assert.Equal(t, "abc#", v.(values.StringVal).Value)
}

func TestStrSplitRejectsEmptySeparator(t *testing.T) {
	rt := newTestRuntime("")
	_, err := builtinStrSplit(rt, []values.Value{values.StringVal{Value: "abc"}, values.StringVal{Value: ""}})
	assert.Error(t, err)
}

func TestInputReadsLineAndTrimsNewline(t *testing.T) {
	rt := newTestRuntime("hello\n")
	v, err := builtinInput(rt, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", v.(values.StringVal).Value)
}
