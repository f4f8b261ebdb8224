package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseExprString(t *testing.T, src string) Expr {
	t.Helper()
	prog, err := Parse(src+";", "")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	stmt, ok := prog.Statements[0].(*ExprStmt)
	require.True(t, ok, "expected ExprStmt, got %T", prog.Statements[0])
	return stmt.X
}

func TestParser_AdditiveMultiplicativePrecedence(t *testing.T) {
	// a + b * c must parse as a + (b * c)
	expr := parseExprString(t, "a + b * c")
	top, ok := expr.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", top.Op)
	assert.IsType(t, &Identifier{}, top.Left)
	right, ok := top.Right.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "*", right.Op)
}

func TestParser_ComparisonAndPrecedence(t *testing.T) {
	// a < b and c < d must parse as (a<b) and (c<d)
	expr := parseExprString(t, "a < b and c < d")
	top, ok := expr.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "and", top.Op)
	left, ok := top.Left.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "<", left.Op)
	right, ok := top.Right.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "<", right.Op)
}

func TestParser_UnaryBindsTighterThanAdditive(t *testing.T) {
	// -x + y must parse as (-x) + y
	expr := parseExprString(t, "-x + y")
	top, ok := expr.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", top.Op)
	left, ok := top.Left.(*UnaryOp)
	require.True(t, ok)
	assert.Equal(t, "-", left.Op)
}

func TestParser_PostfixChainsAndCallShapes(t *testing.T) {
	fc := parseExprString(t, "foo(1, 2)")
	call, ok := fc.(*FunctionCallExpr)
	require.True(t, ok)
	assert.Equal(t, "foo", call.Name)
	assert.Len(t, call.Args, 2)

	mc := parseExprString(t, "obj.method(1)")
	method, ok := mc.(*MethodCallExpr)
	require.True(t, ok)
	assert.Equal(t, "method", method.Method)
	assert.IsType(t, &Identifier{}, method.Object)

	idx := parseExprString(t, "arr[0]")
	ia, ok := idx.(*IndexAccess)
	require.True(t, ok)
	assert.IsType(t, &IntLit{}, ia.Index)

	sl := parseExprString(t, "arr[1:2]")
	sa, ok := sl.(*SliceAccess)
	require.True(t, ok)
	assert.NotNil(t, sa.Start)
	assert.NotNil(t, sa.End)
}

func TestParser_CallOnArbitraryExpressionFails(t *testing.T) {
	_, err := Parse("(1 + 2)(3);", "")
	assert.Error(t, err)
}

func TestParser_VarDeclarationSingleAndMulti(t *testing.T) {
	prog, err := Parse("var x = 1; var a = 1, b, c = 3;", "")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)
	v, ok := prog.Statements[0].(*VarDeclaration)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)

	multi, ok := prog.Statements[1].(*MultiVarDeclaration)
	require.True(t, ok)
	require.Len(t, multi.Decls, 3)
	assert.Equal(t, "a", multi.Decls[0].Name)
	assert.Equal(t, "b", multi.Decls[1].Name)
	assert.Nil(t, multi.Decls[1].Value)
	assert.Equal(t, "c", multi.Decls[2].Name)
}

func TestParser_CompoundAssignmentDesugars(t *testing.T) {
	prog, err := Parse("x += 1;", "")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	assign, ok := prog.Statements[0].(*AssignStmt)
	require.True(t, ok)
	assert.IsType(t, &Identifier{}, assign.Target)
	rhs, ok := assign.Value.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", rhs.Op)
	assert.IsType(t, &Identifier{}, rhs.Left)
	assert.NotSame(t, assign.Target, rhs.Left)
}

func TestParser_ForRangeAndForeach(t *testing.T) {
	prog, err := Parse("for (i = 0 .. 10) { println(i); }", "")
	require.NoError(t, err)
	forStmt, ok := prog.Statements[0].(*ForStmt)
	require.True(t, ok)
	assert.Equal(t, "i", forStmt.Var)

	prog2, err := Parse("foreach (k => v in a) { println(v); }", "")
	require.NoError(t, err)
	feStmt, ok := prog2.Statements[0].(*ForeachStmt)
	require.True(t, ok)
	assert.Equal(t, "k", feStmt.KeyVar)
	assert.Equal(t, "v", feStmt.ValueVar)
}

func TestParser_IfElseIfElse(t *testing.T) {
	prog, err := Parse(`if (a) { x(); } else if (b) { y(); } else { z(); }`, "")
	require.NoError(t, err)
	top, ok := prog.Statements[0].(*IfStmt)
	require.True(t, ok)
	require.Len(t, top.Else, 1)
	assert.IsType(t, &IfStmt{}, top.Else[0])
}

func TestParser_ClassWithMembersAndMethods(t *testing.T) {
	src := `class C { var _v = 0; func get() { return this._v; } }`
	prog, err := Parse(src, "")
	require.NoError(t, err)
	def, ok := prog.Statements[0].(*ClassDef)
	require.True(t, ok)
	assert.Equal(t, "C", def.Name)
	require.Len(t, def.Members, 1)
	assert.Equal(t, "_v", def.Members[0].Name)
	require.Len(t, def.Methods, 1)
	assert.Equal(t, "get", def.Methods[0].Name)
}

func TestParser_TryCatchRaiseAssert(t *testing.T) {
	prog, err := Parse(`try { raise "boom"; } catch e { println(e); }`, "")
	require.NoError(t, err)
	tc, ok := prog.Statements[0].(*TryCatch)
	require.True(t, ok)
	assert.Equal(t, "e", tc.CatchVar)
	require.Len(t, tc.Try, 1)
	_, ok = tc.Try[0].(*Raise)
	assert.True(t, ok)

	prog2, err := Parse(`assert x > 0, "must be positive";`, "")
	require.NoError(t, err)
	a, ok := prog2.Statements[0].(*Assert)
	require.True(t, ok)
	assert.NotNil(t, a.Msg)
}

func TestParser_DictAndArrayLiterals(t *testing.T) {
	expr := parseExprString(t, `{"a": 1, "b": 2}`)
	dict, ok := expr.(*DictLit)
	require.True(t, ok)
	assert.Len(t, dict.Pairs, 2)

	arr := parseExprString(t, `[1, 2, 3]`)
	assert.IsType(t, &ArrayLit{}, arr)
}
