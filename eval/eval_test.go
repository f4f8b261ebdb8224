package eval

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rill-lang/rill/parser"
)

// run parses src, executes it against a fresh Interpreter with out as
// its writer, and returns any error Run produced.
func run(t *testing.T, src string) (*Interpreter, *bytes.Buffer, error) {
	t.Helper()
	prog, err := parser.Parse(src, "<test>")
	require.NoError(t, err)
	interp := New()
	var out bytes.Buffer
	interp.SetWriter(&out)
	err = interp.Run(prog)
	return interp, &out, err
}

func TestFactorial(t *testing.T) {
	_, out, err := run(t, `
		func fact(n) {
			if (n <= 1) { return 1; }
			return n * fact(n - 1);
		}
		println(fact(5));
	`)
	require.NoError(t, err)
	assert.Equal(t, "120\n", out.String())
}

// TestClosureObservesLaterMutation is spec.md's Testable Property 3:
// a closure captures the live environment, not a snapshot.
func TestClosureObservesLaterMutation(t *testing.T) {
	_, out, err := run(t, `
		var x = 1;
		func f() { return x; }
		x = 2;
		println(f());
	`)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out.String())
}

func TestForeachOverArrayAndDict(t *testing.T) {
	_, out, err := run(t, `
		var arr = [10, 20, 30];
		for (i => v in arr) {
			println(i, v);
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0 10\n1 20\n2 30\n", out.String())

	_, out, err = run(t, `
		var d = {};
		d["a"] = 1;
		d["b"] = 2;
		for (k => v in d) {
			println(k, v);
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "a 1\nb 2\n", out.String())
}

func TestIntegerRangeFor(t *testing.T) {
	_, out, err := run(t, `
		for (i = 0 .. 3) {
			println(i);
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out.String())

	_, out, err = run(t, `
		for (i = 5 .. 5) {
			println(i);
		}
		println("done");
	`)
	require.NoError(t, err)
	assert.Equal(t, "done\n", out.String())
}

func TestBreakAndContinue(t *testing.T) {
	_, out, err := run(t, `
		var i = 0;
		while (i < 5) {
			i = i + 1;
			if (i == 2) { continue; }
			if (i == 4) { break; }
			println(i);
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n3\n", out.String())
}

func TestClassPrivateMemberAccessDenied(t *testing.T) {
	_, _, err := run(t, `
		class Counter {
			var _count = 0;
			func bump() { this._count = this._count + 1; return this._count; }
		}
		var c = new Counter();
		println(c._count);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "private member")
}

func TestClassPrivateMethodAllowedInternally(t *testing.T) {
	_, out, err := run(t, `
		class Counter {
			var count = 0;
			func bump() { this.count = this._step(); return this.count; }
			func _step() { return this.count + 1; }
		}
		var c = new Counter();
		println(c.bump());
		println(c.bump());
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out.String())
}

func TestTryCatchBindsRaisedMessage(t *testing.T) {
	_, out, err := run(t, `
		try {
			raise "boom";
		} catch e {
			println(e);
		}
	`)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "boom")
}

func TestUncaughtRaisePropagates(t *testing.T) {
	_, _, err := run(t, `raise "fatal";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fatal")
}

func TestAssertFailureRaisesDefaultMessage(t *testing.T) {
	_, _, err := run(t, `assert(1 == 2);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Assertion failed")
}

func TestAssertCustomMessage(t *testing.T) {
	_, _, err := run(t, `assert false, "nope";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestDictLiteralAndJSONEncode(t *testing.T) {
	_, out, err := run(t, `
		var d = {"name": "ada", "age": 30};
		println(json_encode(d));
	`)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"ada","age":30}`+"\n", out.String())
}

func TestArrayConcatenationAndStringCoercion(t *testing.T) {
	_, out, err := run(t, `
		var a = [1, 2];
		var b = [3, 4];
		println(a + b);
		println("x = " + 5);
	`)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3, 4]\nx = 5\n", out.String())
}

func TestIntegerFloorDivisionAndModulo(t *testing.T) {
	_, out, err := run(t, `
		println(-7 / 2);
		println(-7 % 2);
		println(7.0 / 2);
	`)
	require.NoError(t, err)
	assert.Equal(t, "-4\n1\n3.5\n", out.String())
}

func TestDivisionByZeroRaisesArithmeticError(t *testing.T) {
	_, _, err := run(t, `println(1 / 0);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "division by zero")
}

func TestSliceAndIndex(t *testing.T) {
	_, out, err := run(t, `
		var s = "hello world";
		println(s[0]);
		println(s[0:5]);
		var arr = [1, 2, 3, 4, 5];
		println(arr[1:3]);
		println(arr[10:20]);
	`)
	require.NoError(t, err)
	assert.Equal(t, "h\nhello\n[2, 3]\n[]\n", out.String())
}

func TestMembershipOperators(t *testing.T) {
	_, out, err := run(t, `
		var arr = [1, 2, 3];
		println(2 in arr);
		println(5 not_in arr);
		println("ell" in "hello");
	`)
	require.NoError(t, err)
	assert.Equal(t, "true\ntrue\ntrue\n", out.String())
}

func TestUndeclaredAssignmentFails(t *testing.T) {
	_, _, err := run(t, `x = 1;`)
	require.Error(t, err)
}

func TestSetOnMissingMemberFails(t *testing.T) {
	_, _, err := run(t, `
		class Point { var x = 0; }
		var p = new Point();
		p.y = 5;
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not defined")
}
