// Package parser implements a recursive-descent parser over a flat token
// stream, producing the unannotated statement list spec §3.4 defines. The
// parser performs no type checking; that is the compiler's job (spec
// §4.3).
//
// Grounded on the teacher's recursive-descent parser shape
// (internal/parser/parser.go: a cursor over a pre-lexed token buffer, one
// parseX method per grammar production) reduced to the small EBNF grammar
// spec §4.2 describes.
package parser

import (
	"fmt"

	"github.com/go-basic/core/internal/ast"
	"github.com/go-basic/core/internal/lexer"
)

// ParseError is returned for UnexpectedToken, UnexpectedEnd, and
// ExpectedTerminator failures (spec §4.2).
type ParseError struct {
	Kind  string
	Msg   string
	Range lexer.Range
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s at %s", e.Kind, e.Msg, e.Range)
}

const (
	KindUnexpectedToken     = "UnexpectedToken"
	KindUnexpectedEnd       = "UnexpectedEnd"
	KindExpectedTerminator  = "ExpectedTerminator"
)

// Parser walks a flat token slice (the tokenizer's full output, including
// the trailing EOF token) producing a statement list.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New creates a Parser over tokens, which must end with an EOF token.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes-already input into a statement list. It is the
// entrypoint a host calls after lexer.Tokenize (spec §6.3).
func Parse(tokens []lexer.Token) ([]ast.Stmt, error) {
	return New(tokens).ParseProgram()
}

func (p *Parser) cur() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek(n int) lexer.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if t.Type != lexer.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) at(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if p.cur().Type == lexer.EOF {
		return lexer.Token{}, &ParseError{Kind: KindUnexpectedEnd, Msg: "unexpected end of input, expected " + tt.String(), Range: p.cur().Range}
	}
	if p.cur().Type != tt {
		return lexer.Token{}, &ParseError{Kind: KindUnexpectedToken, Msg: "expected " + tt.String() + ", got " + p.cur().Type.String(), Range: p.cur().Range}
	}
	return p.advance(), nil
}

func (p *Parser) isTerminator() bool {
	return p.at(lexer.LINEFEED) || p.at(lexer.COLON) || p.at(lexer.EOF)
}

// ParseProgram parses "(statement? terminator)*" to completion.
func (p *Parser) ParseProgram() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.at(lexer.EOF) {
		// Blank line / empty statement.
		if p.at(lexer.LINEFEED) || p.at(lexer.COLON) {
			p.advance()
			continue
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		// Trailing remark deferral (spec §4.2): a remark immediately
		// before the terminator becomes its own statement, preserving
		// source order while keeping the parent statement's range clean.
		if p.at(lexer.REMARK) {
			tok := p.advance()
			stmts = append(stmts, &ast.RemarkStmt{Text: tok.StrVal, Rng: tok.Range})
		}

		if !p.isTerminator() {
			return nil, &ParseError{Kind: KindExpectedTerminator, Msg: "statement not followed by ':' or a newline", Range: p.cur().Range}
		}
		if !p.at(lexer.EOF) {
			p.advance()
		}
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.REMARK:
		p.advance()
		return &ast.RemarkStmt{Text: tok.StrVal, Rng: tok.Range}, nil
	case lexer.KW_LET:
		return p.parseLet(true)
	case lexer.KW_IF:
		return p.parseIf()
	case lexer.KW_FOR:
		return p.parseFor()
	case lexer.KW_NEXT:
		return p.parseNext()
	case lexer.KW_END:
		return p.parseEnd()
	case lexer.KW_ENDIF:
		p.advance()
		return &ast.EndIfStmt{Rng: tok.Range}, nil
	case lexer.KW_GOTO:
		return p.parseGoto()
	case lexer.KW_GOSUB:
		return p.parseGosub()
	case lexer.KW_RETURN:
		p.advance()
		return &ast.ReturnStmt{Rng: tok.Range}, nil
	case lexer.KW_STOP:
		p.advance()
		return &ast.StopStmt{Rng: tok.Range}, nil
	case lexer.KW_DO:
		return p.parseDo()
	case lexer.KW_LOOP:
		return p.parseLoop()
	case lexer.KW_WHILE:
		return p.parseWhile()
	case lexer.KW_WEND:
		p.advance()
		return &ast.WendStmt{Rng: tok.Range}, nil
	case lexer.KW_PRAGMA:
		p.advance()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.PragmaStmt{Value: value, Rng: lexer.Span(tok.Range, value.Range())}, nil
	case lexer.LABEL:
		return p.parseLabelStatement()
	}
	return nil, &ParseError{Kind: KindUnexpectedToken, Msg: "unexpected token " + tok.Type.String() + " at start of statement", Range: tok.Range}
}

// parseLabelStatement disambiguates "label = expr" (implicit LET) from the
// generic call form "label expr, expr; expr" (spec §4.2).
func (p *Parser) parseLabelStatement() (ast.Stmt, error) {
	if p.peek(1).Type == lexer.EQUALS {
		return p.parseLet(false)
	}
	return p.parseCall()
}

func (p *Parser) parseLet(kw bool) (ast.Stmt, error) {
	start := p.cur().Range
	if kw {
		p.advance() // consume LET
	}
	nameTok, err := p.expect(lexer.LABEL)
	if err != nil {
		return nil, err
	}
	lhs := &ast.Label{Name: nameTok.StrVal, Rng: nameTok.Range}
	if _, err := p.expect(lexer.EQUALS); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.LetStmt{Kw: kw, LHS: lhs, RHS: rhs, Rng: lexer.Span(lexer.Range{Start: start.Start}, rhs.Range())}, nil
}

// parseCall parses the generic call form: a bare identifier followed by an
// optional comma/semicolon-separated argument list (spec §3.4 CallStmt;
// the Statement comment "PRINT expr,expr;expr" establishes the mixed
// separator set, generalizing the simplified EBNF's comma-only grammar).
func (p *Parser) parseCall() (ast.Stmt, error) {
	nameTok := p.advance()
	start := nameTok.Range

	var args []ast.Expr
	var seps []byte

	if p.startsExpr() {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, expr)
		seps = append(seps, 0)

		for p.at(lexer.COMMA) || p.at(lexer.SEMICOLON) {
			sepByte := byte(',')
			if p.at(lexer.SEMICOLON) {
				sepByte = ';'
			}
			seps[len(seps)-1] = sepByte
			p.advance()

			if !p.startsExpr() {
				break
			}
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, expr)
			seps = append(seps, 0)
		}
	}

	end := start
	if len(args) > 0 {
		end = args[len(args)-1].Range()
	}
	return &ast.CallStmt{Name: nameTok.StrVal, Args: args, Seps: seps, Rng: lexer.Span(start, end)}, nil
}

func (p *Parser) startsExpr() bool {
	switch p.cur().Type {
	case lexer.INTEGER, lexer.LONG, lexer.SINGLE, lexer.DOUBLE, lexer.STRVAL, lexer.LABEL, lexer.LPAREN, lexer.PLUS, lexer.MINUS:
		return true
	}
	return false
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	start := p.advance().Range // consume IF
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KW_THEN); err != nil {
		return nil, err
	}

	if p.isTerminator() {
		return &ast.IfHeaderStmt{Cond: cond, Rng: lexer.Span(start, cond.Range())}, nil
	}

	thenStmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.KW_ELSE) {
		return &ast.If1Stmt{Cond: cond, Then: thenStmt, Rng: lexer.Span(start, thenStmt.Range())}, nil
	}
	p.advance() // consume ELSE
	elseStmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.If2Stmt{Cond: cond, Then: thenStmt, Else: elseStmt, Rng: lexer.Span(start, elseStmt.Range())}, nil
}

var relOps = map[lexer.TokenType]ast.BinOp{
	lexer.EQUALS:     ast.OpEq,
	lexer.NOT_EQ:     ast.OpNeq,
	lexer.LESS:       ast.OpLt,
	lexer.GREATER:    ast.OpGt,
	lexer.LESS_EQ:    ast.OpLte,
	lexer.GREATER_EQ: ast.OpGte,
}

// parseCond parses "expr ((=|<>|<|>|<=|>=) expr)?" (spec §4.2 cond).
func (p *Parser) parseCond() (ast.Expr, error) {
	lhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	op, ok := relOps[p.cur().Type]
	if !ok {
		return lhs, nil
	}
	p.advance()
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{LHS: lhs, Op: op, RHS: rhs, Rng: lexer.Span(lhs.Range(), rhs.Range())}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	start := p.advance().Range // consume FOR
	nameTok, err := p.expect(lexer.LABEL)
	if err != nil {
		return nil, err
	}
	lv := &ast.Label{Name: nameTok.StrVal, Rng: nameTok.Range}
	if _, err := p.expect(lexer.EQUALS); err != nil {
		return nil, err
	}
	from, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KW_TO); err != nil {
		return nil, err
	}
	to, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.KW_STEP) {
		p.advance()
		step, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.ForStepStmt{LV: lv, From: from, To: to, Step: step, Rng: lexer.Span(start, step.Range())}, nil
	}
	return &ast.ForStmt{LV: lv, From: from, To: to, Rng: lexer.Span(start, to.Range())}, nil
}

func (p *Parser) parseNext() (ast.Stmt, error) {
	tok := p.advance() // consume NEXT
	if p.at(lexer.LABEL) {
		nameTok := p.advance()
		lv := &ast.Label{Name: nameTok.StrVal, Rng: nameTok.Range}
		return &ast.NextStmt{LV: lv, Rng: lexer.Span(tok.Range, lv.Rng)}, nil
	}
	return &ast.NextStmt{Rng: tok.Range}, nil
}

func (p *Parser) parseEnd() (ast.Stmt, error) {
	tok := p.advance() // consume END
	if p.at(lexer.KW_IF) {
		endTok := p.advance()
		return &ast.EndIfStmt{Rng: lexer.Span(tok.Range, endTok.Range)}, nil
	}
	return &ast.EndStmt{Rng: tok.Range}, nil
}

func (p *Parser) parseGoto() (ast.Stmt, error) {
	tok := p.advance() // consume GOTO
	target, err := p.expectLabelOrJumplabel()
	if err != nil {
		return nil, err
	}
	return &ast.GotoStmt{Target: target, Rng: tok.Range}, nil
}

func (p *Parser) parseGosub() (ast.Stmt, error) {
	tok := p.advance() // consume GOSUB
	target, err := p.expectLabelOrJumplabel()
	if err != nil {
		return nil, err
	}
	return &ast.GosubStmt{Target: target, Rng: tok.Range}, nil
}

func (p *Parser) expectLabelOrJumplabel() (string, error) {
	tok := p.cur()
	if tok.Type == lexer.LABEL || tok.Type == lexer.JUMPLBL {
		p.advance()
		return tok.StrVal, nil
	}
	return "", &ParseError{Kind: KindUnexpectedToken, Msg: "expected a jump target", Range: tok.Range}
}

func (p *Parser) parseDo() (ast.Stmt, error) {
	tok := p.advance() // consume DO
	if p.at(lexer.KW_WHILE) || p.at(lexer.KW_UNTIL) {
		isWhile := p.at(lexer.KW_WHILE)
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.DoStmt{Cond: cond, IsWhile: isWhile, Rng: lexer.Span(tok.Range, cond.Range())}, nil
	}
	return &ast.DoStmt{Rng: tok.Range}, nil
}

func (p *Parser) parseLoop() (ast.Stmt, error) {
	tok := p.advance() // consume LOOP
	if p.at(lexer.KW_WHILE) || p.at(lexer.KW_UNTIL) {
		isWhile := p.at(lexer.KW_WHILE)
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.LoopStmt{Cond: cond, IsWhile: isWhile, Rng: lexer.Span(tok.Range, cond.Range())}, nil
	}
	return &ast.LoopStmt{Rng: tok.Range}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	tok := p.advance() // consume WHILE
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Rng: lexer.Span(tok.Range, cond.Range())}, nil
}

// parseExpr parses "term (('+'|'-') term)*" (spec §4.2 expr), extended
// with AND/OR/XOR at the loosest precedence tier. AND, OR and XOR share
// that single tier and associate left to right, so AND does not bind
// tighter than OR or XOR. MOD is parsed in parseTerm with the other
// multiplicative operators. Relational operators are not parsed here;
// only parseCond accepts one, between two whole expressions.
func (p *Parser) parseExpr() (ast.Expr, error) {
	lhs, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.KW_AND) || p.at(lexer.KW_OR) || p.at(lexer.KW_XOR) {
		op := ast.OpAnd
		switch p.cur().Type {
		case lexer.KW_OR:
			op = ast.OpOr
		case lexer.KW_XOR:
			op = ast.OpXor
		}
		p.advance()
		rhs, err := p.parseAddExpr()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{LHS: lhs, Op: op, RHS: rhs, Rng: lexer.Span(lhs.Range(), rhs.Range())}
	}
	return lhs, nil
}

func (p *Parser) parseAddExpr() (ast.Expr, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.PLUS) || p.at(lexer.MINUS) {
		op := ast.OpAdd
		if p.at(lexer.MINUS) {
			op = ast.OpSub
		}
		p.advance()
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{LHS: lhs, Op: op, RHS: rhs, Rng: lexer.Span(lhs.Range(), rhs.Range())}
	}
	return lhs, nil
}

// parseTerm parses "factor (('*'|'/'|'\'|MOD) factor)*" (spec §4.2 term).
func (p *Parser) parseTerm() (ast.Expr, error) {
	lhs, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.ASTERISK) || p.at(lexer.SLASH) || p.at(lexer.BACKSLASH) || p.at(lexer.KW_MOD) {
		var op ast.BinOp
		switch p.cur().Type {
		case lexer.ASTERISK:
			op = ast.OpMul
		case lexer.SLASH:
			op = ast.OpDiv
		case lexer.BACKSLASH:
			op = ast.OpIDiv
		case lexer.KW_MOD:
			op = ast.OpMod
		}
		p.advance()
		rhs, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{LHS: lhs, Op: op, RHS: rhs, Rng: lexer.Span(lhs.Range(), rhs.Range())}
	}
	return lhs, nil
}

// parseFactor parses "number | string | label | '(' expr ')' | ('-'|'+') factor".
func (p *Parser) parseFactor() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.MINUS:
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpNeg, Operand: operand, Rng: lexer.Span(tok.Range, operand.Range())}, nil
	case lexer.PLUS:
		p.advance()
		return p.parseFactor()
	case lexer.INTEGER:
		p.advance()
		return &ast.ImmInteger{Value: tok.IntVal, Rng: tok.Range}, nil
	case lexer.LONG:
		p.advance()
		return &ast.ImmLong{Value: tok.LongVal, Rng: tok.Range}, nil
	case lexer.SINGLE:
		p.advance()
		return &ast.ImmSingle{Value: float32(tok.FloatVal), Rng: tok.Range}, nil
	case lexer.DOUBLE:
		p.advance()
		return &ast.ImmDouble{Value: tok.FloatVal, Rng: tok.Range}, nil
	case lexer.STRVAL:
		p.advance()
		return &ast.ImmString{Value: tok.StrVal, Rng: tok.Range}, nil
	case lexer.LABEL:
		p.advance()
		return &ast.Label{Name: tok.StrVal, Rng: tok.Range}, nil
	case lexer.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	}
	if tok.Type == lexer.EOF {
		return nil, &ParseError{Kind: KindUnexpectedEnd, Msg: "unexpected end of input in expression", Range: tok.Range}
	}
	return nil, &ParseError{Kind: KindUnexpectedToken, Msg: "unexpected token " + tok.Type.String() + " in expression", Range: tok.Range}
}
