package parser

import (
	"github.com/rill-lang/rill/errs"
	"github.com/rill-lang/rill/lexer"
)

// Parser consumes a flat token slice with one token of lookahead, in
// the style of go-mix's own hand-written recursive-descent parser.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New builds a Parser over a complete token stream (as returned by
// lexer.Lexer.Tokenize, including its trailing EOF token).
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) cur() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek(offset int) lexer.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) pos_(t lexer.Token) Position {
	return Position{File: t.File, Line: t.Line, Column: t.Column}
}

func parseErr(t lexer.Token, format string, args ...any) error {
	return errs.New(errs.Parse, format, args...).At(t.File, t.Line, t.Column)
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if !p.check(tt) {
		return lexer.Token{}, parseErr(p.cur(), "expected %s, found %s", tt, p.cur().Type)
	}
	return p.advance(), nil
}

// consumeOptionalSemicolon eats a trailing ';' if present; spec.md
// §4.2 makes it optional after every non-block-terminated statement.
func (p *Parser) consumeOptionalSemicolon() {
	p.match(lexer.SEMICOLON)
}

// ParseProgram parses the entire token stream into a Program.
func (p *Parser) ParseProgram() (*Program, error) {
	prog := &Program{}
	for !p.check(lexer.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

// Parse is a convenience wrapper: lex then parse a complete source
// buffer in one call.
func Parse(src, filename string) (*Program, error) {
	toks, err := lexer.New(src, filename).Tokenize()
	if err != nil {
		return nil, err
	}
	return New(toks).ParseProgram()
}

func (p *Parser) parseStatement() (Stmt, error) {
	switch p.cur().Type {
	case lexer.VAR:
		return p.parseVarDeclaration()
	case lexer.FUNC:
		return p.parseFunctionDef()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseForOrForeach()
	case lexer.FOREACH:
		return p.parseForOrForeach()
	case lexer.CLASS:
		return p.parseClassDef()
	case lexer.TRY:
		return p.parseTryCatch()
	case lexer.RAISE:
		return p.parseRaise()
	case lexer.ASSERT:
		return p.parseAssert()
	case lexer.BREAK:
		t := p.advance()
		p.consumeOptionalSemicolon()
		return &BreakStmt{base{p.pos_(t)}}, nil
	case lexer.CONTINUE:
		t := p.advance()
		p.consumeOptionalSemicolon()
		return &ContinueStmt{base{p.pos_(t)}}, nil
	default:
		return p.parseExprOrAssignStatement()
	}
}

func (p *Parser) parseBlock() ([]Stmt, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for !p.check(lexer.RBRACE) {
		if p.check(lexer.EOF) {
			return nil, parseErr(p.cur(), "unterminated block")
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	p.advance() // RBRACE
	return stmts, nil
}

func (p *Parser) parseVarDeclarator() (*VarDeclaration, error) {
	nameTok, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	decl := &VarDeclaration{base: base{p.pos_(nameTok)}, Name: nameTok.Payload.String}
	if p.match(lexer.ASSIGN) {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		decl.Value = v
	}
	return decl, nil
}

func (p *Parser) parseVarDeclaration() (Stmt, error) {
	start := p.advance() // 'var'
	first, err := p.parseVarDeclarator()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.COMMA) {
		p.consumeOptionalSemicolon()
		return first, nil
	}
	decls := []*VarDeclaration{first}
	for p.match(lexer.COMMA) {
		d, err := p.parseVarDeclarator()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	p.consumeOptionalSemicolon()
	return &MultiVarDeclaration{base: base{p.pos_(start)}, Decls: decls}, nil
}

func (p *Parser) parseParamList() ([]string, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for !p.check(lexer.RPAREN) {
		tok, err := p.expect(lexer.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Payload.String)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseFunctionDef() (*FunctionDef, error) {
	start := p.advance() // 'func'/'fun'
	nameTok, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FunctionDef{base: base{p.pos_(start)}, Name: nameTok.Payload.String, Params: params, Body: body}, nil
}

func (p *Parser) parseReturn() (Stmt, error) {
	start := p.advance() // 'return'
	ret := &Return{base: base{p.pos_(start)}}
	if !p.check(lexer.SEMICOLON) && !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ret.Value = v
	}
	p.consumeOptionalSemicolon()
	return ret, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	start := p.advance() // 'if'
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	p.match(lexer.THEN) // optional per spec.md §6 keyword list
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{base: base{p.pos_(start)}, Cond: cond, Then: then}
	if p.match(lexer.ELSE) {
		if p.check(lexer.IF) {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.Else = []Stmt{elseIf}
		} else {
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlock
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	start := p.advance() // 'while'
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{base: base{p.pos_(start)}, Cond: cond, Body: body}, nil
}

// parseForOrForeach handles both `for (i = start .. end)` and the
// `k => v in expr` iterator shape, dispatched on the token following
// the loop variable's identifier — mirrors spec.md §4.2's disambiguation
// rule, extended to accept either the `for` or `foreach` keyword ahead
// of it, since spec.md §6 lists both as distinct reserved words.
func (p *Parser) parseForOrForeach() (Stmt, error) {
	start := p.advance() // 'for' or 'foreach'
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	firstTok, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}

	switch p.cur().Type {
	case lexer.ASSIGN:
		p.advance()
		startExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.match(lexer.DOTDOT) {
			if _, err := p.expect(lexer.DOT); err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.DOT); err != nil {
				return nil, err
			}
		}
		endExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ForStmt{base: base{p.pos_(start)}, Var: firstTok.Payload.String, Start: startExpr, End: endExpr, Body: body}, nil

	case lexer.ARROW:
		p.advance()
		valTok, err := p.expect(lexer.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.IN); err != nil {
			return nil, err
		}
		collection, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ForeachStmt{base: base{p.pos_(start)}, KeyVar: firstTok.Payload.String, ValueVar: valTok.Payload.String, Collection: collection, Body: body}, nil

	default:
		return nil, parseErr(p.cur(), "expected '=' or '=>' in for-loop header, found %s", p.cur().Type)
	}
}

func (p *Parser) parseClassDef() (Stmt, error) {
	start := p.advance() // 'class'
	nameTok, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	def := &ClassDef{base: base{p.pos_(start)}, Name: nameTok.Payload.String}
	for !p.check(lexer.RBRACE) {
		switch p.cur().Type {
		case lexer.VAR:
			p.advance()
			memberTok, err := p.expect(lexer.IDENTIFIER)
			if err != nil {
				return nil, err
			}
			member := &MemberDecl{Name: memberTok.Payload.String}
			if p.match(lexer.ASSIGN) {
				v, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				member.Init = v
			}
			def.Members = append(def.Members, member)
			p.consumeOptionalSemicolon()
		case lexer.FUNC:
			m, err := p.parseFunctionDef()
			if err != nil {
				return nil, err
			}
			def.Methods = append(def.Methods, m)
		case lexer.EOF:
			return nil, parseErr(p.cur(), "unterminated class body")
		default:
			return nil, parseErr(p.cur(), "unexpected %s in class body", p.cur().Type)
		}
	}
	p.advance() // RBRACE
	return def, nil
}

func (p *Parser) parseTryCatch() (Stmt, error) {
	start := p.advance() // 'try'
	tryBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.CATCH); err != nil {
		return nil, err
	}
	catchVarTok, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	catchBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &TryCatch{base: base{p.pos_(start)}, Try: tryBlock, CatchVar: catchVarTok.Payload.String, Catch: catchBlock}, nil
}

func (p *Parser) parseRaise() (Stmt, error) {
	start := p.advance() // 'raise'
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.consumeOptionalSemicolon()
	return &Raise{base: base{p.pos_(start)}, Value: v}, nil
}

func (p *Parser) parseAssert() (Stmt, error) {
	start := p.advance() // 'assert'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt := &Assert{base: base{p.pos_(start)}, Cond: cond}
	if p.match(lexer.COMMA) {
		msg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Msg = msg
	}
	p.consumeOptionalSemicolon()
	return stmt, nil
}

// parseExprOrAssignStatement parses a leading postfix expression, then
// looks for an assignment or compound-assignment operator; if none is
// found the expression stands alone as an ExprStmt. Compound
// assignment `x op= e` desugars to `x = x op e`, deep-copying the
// target so the two occurrences of the LHS are independent nodes.
func (p *Parser) parseExprOrAssignStatement() (Stmt, error) {
	start := p.cur()
	target, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}

	var op string
	switch p.cur().Type {
	case lexer.ASSIGN:
		p.advance()
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.consumeOptionalSemicolon()
		return &AssignStmt{base: base{p.pos_(start)}, Target: target, Value: v}, nil
	case lexer.PLUS_ASSIGN:
		op = "+"
	case lexer.MINUS_ASSIGN:
		op = "-"
	case lexer.STAR_ASSIGN:
		op = "*"
	case lexer.SLASH_ASSIGN:
		op = "/"
	default:
		p.consumeOptionalSemicolon()
		return &ExprStmt{base: base{p.pos_(start)}, X: target}, nil
	}

	p.advance() // the compound-assign operator token
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	combined := &BinaryOp{base: base{p.pos_(start)}, Left: CopyExpr(target), Op: op, Right: rhs}
	p.consumeOptionalSemicolon()
	return &AssignStmt{base: base{p.pos_(start)}, Target: target, Value: combined}, nil
}

// ---- expressions, by descending precedence (spec.md §4.2) ----

func (p *Parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.OR) {
		t := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{base: base{p.pos_(t)}, Left: left, Op: "or", Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.AND) {
		t := p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{base: base{p.pos_(t)}, Left: left, Op: "and", Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.EQ) || p.check(lexer.NE) {
		t := p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{base: base{p.pos_(t)}, Left: left, Op: string(t.Type), Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case lexer.LT, lexer.LE, lexer.GT, lexer.GE:
			t := p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &BinaryOp{base: base{p.pos_(t)}, Left: left, Op: string(t.Type), Right: right}
		case lexer.IN:
			t := p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &BinaryOp{base: base{p.pos_(t)}, Left: left, Op: "in", Right: right}
		case lexer.NOT_IN:
			t := p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &BinaryOp{base: base{p.pos_(t)}, Left: left, Op: "not_in", Right: right}
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.PLUS) || p.check(lexer.MINUS) {
		t := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{base: base{p.pos_(t)}, Left: left, Op: string(t.Type), Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.STAR) || p.check(lexer.SLASH) || p.check(lexer.PERCENT) {
		t := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{base: base{p.pos_(t)}, Left: left, Op: string(t.Type), Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.check(lexer.MINUS) || p.check(lexer.NOT) {
		t := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		op := "-"
		if t.Type == lexer.NOT {
			op = "not"
		}
		return &UnaryOp{base: base{p.pos_(t)}, Op: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by a left-associative
// chain of `.member`, `[index]`/`[start:end]`, and `(args)` suffixes.
// A call applied to an Identifier becomes a FunctionCallExpr; applied
// to a MemberAccess it becomes a MethodCallExpr; any other callee
// shape is a parse error, per spec.md §4.2.
func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case lexer.DOT:
			p.advance()
			memberTok, err := p.expect(lexer.IDENTIFIER)
			if err != nil {
				return nil, err
			}
			expr = &MemberAccess{base: base{p.pos_(memberTok)}, Target: expr, Member: memberTok.Payload.String}
		case lexer.LBRACKET:
			t := p.advance()
			var first Expr
			if !p.check(lexer.COLON) {
				first, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
			}
			if p.match(lexer.COLON) {
				var endExpr Expr
				if !p.check(lexer.RBRACKET) {
					endExpr, err = p.parseExpr()
					if err != nil {
						return nil, err
					}
				}
				if _, err := p.expect(lexer.RBRACKET); err != nil {
					return nil, err
				}
				expr = &SliceAccess{base: base{p.pos_(t)}, Target: expr, Start: first, End: endExpr}
			} else {
				if _, err := p.expect(lexer.RBRACKET); err != nil {
					return nil, err
				}
				expr = &IndexAccess{base: base{p.pos_(t)}, Target: expr, Index: first}
			}
		case lexer.LPAREN:
			t := p.advance()
			var args []Expr
			for !p.check(lexer.RPAREN) {
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if !p.match(lexer.COMMA) {
					break
				}
			}
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return nil, err
			}
			switch callee := expr.(type) {
			case *Identifier:
				expr = &FunctionCallExpr{base: base{p.pos_(t)}, Name: callee.Name, Args: args}
			case *MemberAccess:
				expr = &MethodCallExpr{base: base{p.pos_(t)}, Object: callee.Target, Method: callee.Member, Args: args}
			default:
				return nil, parseErr(t, "cannot call this expression")
			}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	t := p.cur()
	switch t.Type {
	case lexer.INT:
		p.advance()
		return &IntLit{base{p.pos_(t)}, t.Payload.Int}, nil
	case lexer.FLOAT:
		p.advance()
		return &FloatLit{base{p.pos_(t)}, t.Payload.Float}, nil
	case lexer.STRING:
		p.advance()
		return &StringLit{base{p.pos_(t)}, t.Payload.String}, nil
	case lexer.TRUE:
		p.advance()
		return &BoolLit{base{p.pos_(t)}, true}, nil
	case lexer.FALSE:
		p.advance()
		return &BoolLit{base{p.pos_(t)}, false}, nil
	case lexer.NULL:
		p.advance()
		return &NullLit{base{p.pos_(t)}}, nil
	case lexer.IDENTIFIER:
		p.advance()
		return &Identifier{base{p.pos_(t)}, t.Payload.String}, nil
	case lexer.NEW:
		p.advance()
		nameTok, err := p.expect(lexer.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		var args []Expr
		for !p.check(lexer.RPAREN) {
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.match(lexer.COMMA) {
				break
			}
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return &NewExpr{base: base{p.pos_(t)}, ClassName: nameTok.Payload.String, Args: args}, nil
	case lexer.LBRACKET:
		p.advance()
		var elems []Expr
		for !p.check(lexer.RBRACKET) {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if !p.match(lexer.COMMA) {
				break
			}
		}
		if _, err := p.expect(lexer.RBRACKET); err != nil {
			return nil, err
		}
		return &ArrayLit{base: base{p.pos_(t)}, Elements: elems}, nil
	case lexer.LBRACE:
		p.advance()
		var pairs []DictPair
		for !p.check(lexer.RBRACE) {
			key, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, DictPair{Key: key, Value: val})
			if !p.match(lexer.COMMA) {
				break
			}
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return nil, err
		}
		return &DictLit{base: base{p.pos_(t)}, Pairs: pairs}, nil
	case lexer.LPAREN:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, parseErr(t, "unexpected token %s in expression", t.Type)
	}
}
