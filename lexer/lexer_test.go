package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typesOf(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, t := range tokens {
		types[i] = t.Type
	}
	return types
}

func TestTokenize_OperatorsAndDelimiters(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{"1 + 2 - 3", []TokenType{INT, PLUS, INT, MINUS, INT, EOF}},
		{"( ) { } [ ] , : ;", []TokenType{LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET, COMMA, COLON, SEMICOLON, EOF}},
		{"== != <= >= += -= *= /= => ..", []TokenType{EQ, NE, LE, GE, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN, ARROW, DOTDOT, EOF}},
		{"a.b", []TokenType{IDENTIFIER, DOT, IDENTIFIER, EOF}},
		{"for (i = 1 .. 5)", []TokenType{FOR, LPAREN, IDENTIFIER, ASSIGN, INT, DOTDOT, INT, RPAREN, EOF}},
	}
	for _, tt := range tests {
		toks, err := New(tt.input, "").Tokenize()
		require.NoError(t, err)
		assert.Equal(t, tt.expected, typesOf(toks), tt.input)
	}
}

func TestTokenize_IntegerRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 42, 2147483647} {
		src := toDecimal(n)
		toks, err := New(src, "").Tokenize()
		require.NoError(t, err)
		require.Len(t, toks, 2)
		assert.Equal(t, INT, toks[0].Type)
		assert.Equal(t, n, toks[0].Payload.Int)
		assert.Equal(t, EOF, toks[1].Type)
	}
}

func toDecimal(n int64) string {
	if n == 0 {
		return "0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{byte('0' + n%10)}, buf...)
		n /= 10
	}
	return string(buf)
}

func TestTokenize_StringEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"\n"`, "\n"},
		{`"\t"`, "\t"},
		{`"\\"`, "\\"},
		{`"\""`, "\""},
		{`'\''`, "'"},
		{`"hello world"`, "hello world"},
	}
	for _, tt := range tests {
		toks, err := New(tt.input, "").Tokenize()
		require.NoError(t, err)
		require.Equal(t, STRING, toks[0].Type)
		assert.Equal(t, tt.expected, toks[0].Payload.String)
	}
}

func TestTokenize_TripleQuotedStringSpansLines(t *testing.T) {
	src := "\"\"\"line one\nline two\"\"\""
	toks, err := New(src, "").Tokenize()
	require.NoError(t, err)
	require.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, "line one\nline two", toks[0].Payload.String)
}

func TestTokenize_UnterminatedStringFails(t *testing.T) {
	_, err := New(`"abc`, "").Tokenize()
	require.Error(t, err)
}

func TestTokenize_KeywordsAndIdentifiers(t *testing.T) {
	src := "var func fun return if then else while for foreach in not_in break continue class new true false null try catch raise assert and or not x1 _y"
	toks, err := New(src, "").Tokenize()
	require.NoError(t, err)
	expected := []TokenType{
		VAR, FUNC, FUNC, RETURN, IF, THEN, ELSE, WHILE, FOR, FOREACH, IN, NOT_IN,
		BREAK, CONTINUE, CLASS, NEW, TRUE, FALSE, NULL, TRY, CATCH, RAISE, ASSERT,
		AND, OR, NOT, IDENTIFIER, IDENTIFIER, EOF,
	}
	assert.Equal(t, expected, typesOf(toks))
}

func TestTokenize_CommentsSkipped(t *testing.T) {
	src := "1 # a comment\n+ 2 # trailing"
	toks, err := New(src, "").Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{INT, PLUS, INT, EOF}, typesOf(toks))
}

func TestTokenize_IncludeMappingRemapsFileAndLine(t *testing.T) {
	src := "1\n2\n3\n"
	l := New(src, "<combined>").WithMapping([]IncludeEntry{
		{Start: 1, File: "a.rl", Line: 1},
		{Start: 3, File: "b.rl", Line: 10},
	})
	toks, err := l.Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, "a.rl", toks[0].File)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, "a.rl", toks[1].File)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, "b.rl", toks[2].File)
	assert.Equal(t, 10, toks[2].Line)
}
