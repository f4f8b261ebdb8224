package lexer

import (
	"strconv"

	"github.com/rill-lang/rill/errs"
)

func lexError(l *Lexer, line, col int, format string, args ...any) error {
	file, mline := l.mapLine(line)
	return errs.New(errs.Lexical, format, args...).At(file, mline, col)
}

// readNumber scans a run of digits, optionally promoted to a float by
// a single '.'. A second '.' ends the number (so that "1..5" tokenizes
// as INT(1), DOTDOT, INT(5) rather than swallowing the range operator).
func (l *Lexer) readNumber(line, col int) (Token, error) {
	start := l.pos
	hasDot := false
	for isDigit(l.peek(0)) || (l.peek(0) == '.' && !hasDot && l.peek(1) != '.') {
		if l.peek(0) == '.' {
			hasDot = true
		}
		l.advance()
	}
	text := l.src[start:l.pos]
	if hasDot {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, lexError(l, line, col, "invalid float literal %q", text)
		}
		t := l.tok(FLOAT, line, col)
		t.Payload.Float = f
		return t, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, lexError(l, line, col, "invalid integer literal %q", text)
	}
	t := l.tok(INT, line, col)
	t.Payload.Int = n
	return t, nil
}

// readString scans a single-, double-, or triple-quoted string
// literal. Triple-quoted strings (three of the same quote character)
// span lines until the matching triple is found. Escape sequences
// \n, \t, \\, and \<quote> decode to one character each; any other
// escaped character maps to itself, per spec.md §4.1.
func (l *Lexer) readString(line, col int) (Token, error) {
	quote := l.advance()
	triple := l.peek(0) == quote && l.peek(1) == quote
	if triple {
		l.advance()
		l.advance()
	}

	var out []byte
	for {
		if l.peek(0) == 0 {
			return Token{}, lexError(l, line, col, "unterminated string")
		}
		if triple {
			if l.peek(0) == quote && l.peek(1) == quote && l.peek(2) == quote {
				l.advance()
				l.advance()
				l.advance()
				break
			}
		} else if l.peek(0) == quote {
			l.advance()
			break
		}

		if l.peek(0) == '\\' {
			l.advance()
			esc := l.advance()
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '\\':
				out = append(out, '\\')
			case quote:
				out = append(out, quote)
			default:
				out = append(out, esc)
			}
			continue
		}
		out = append(out, l.advance())
	}

	t := l.tok(STRING, line, col)
	t.Payload.String = string(out)
	return t, nil
}

// readIdentifier scans an identifier or reserved keyword. Identifiers
// start with a letter or underscore and continue with letters, digits,
// or underscores.
func (l *Lexer) readIdentifier(line, col int) Token {
	start := l.pos
	for isAlnum(l.peek(0)) {
		l.advance()
	}
	text := l.src[start:l.pos]
	typ := lookupIdent(text)
	t := l.tok(typ, line, col)
	if typ == IDENTIFIER {
		t.Payload.String = text
	}
	return t
}
