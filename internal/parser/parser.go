// Package parser turns Vex tokens into an arena-allocated AST. On
// success Parse returns the root Block; on failure it returns the
// first error and the root is undefined.
package parser

import (
	"fmt"
	"strconv"

	"github.com/PeterGriffinSr/Vex/internal/ast"
	"github.com/PeterGriffinSr/Vex/internal/lexer"
)

// Error is a parse error with its source position.
type Error struct {
	Message string
	Line    int
	Column  int
	File    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// Precedence levels, lowest binds loosest.
const (
	lowest      int = iota
	logicalOr       // ||
	logicalAnd      // &&
	equals          // ==, !=
	lessGreater     // <, <=, >, >=
	sum             // +, -, +., -.
	product         // *, /, *., /., %
	prefix          // -x, !x
	call            // f(x)
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:      logicalOr,
	lexer.AND:     logicalAnd,
	lexer.EQ:      equals,
	lexer.NEQ:     equals,
	lexer.LT:      lessGreater,
	lexer.GT:      lessGreater,
	lexer.LTE:     lessGreater,
	lexer.GTE:     lessGreater,
	lexer.PLUS:    sum,
	lexer.MINUS:   sum,
	lexer.FPLUS:   sum,
	lexer.FMINUS:  sum,
	lexer.STAR:    product,
	lexer.SLASH:   product,
	lexer.FSTAR:   product,
	lexer.FSLASH:  product,
	lexer.PERCENT: product,
	lexer.LPAREN:  call,
}

type (
	prefixParseFn func() *ast.Node
	infixParseFn  func(*ast.Node) *ast.Node
)

// Parser parses Vex source into an AST.
type Parser struct {
	l   *lexer.Lexer
	fac *ast.Factory

	curToken  lexer.Token
	peekToken lexer.Token
	errors    []error

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a parser reading from l and building nodes through fac.
func New(l *lexer.Lexer, fac *ast.Factory) *Parser {
	p := &Parser{l: l, fac: fac}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:    p.parseIdentifier,
		lexer.INT:      p.parseIntegerLiteral,
		lexer.FLOAT:    p.parseFloatLiteral,
		lexer.STRING:   p.parseStringLiteral,
		lexer.CHAR:     p.parseCharLiteral,
		lexer.TRUE:     p.parseBooleanLiteral,
		lexer.FALSE:    p.parseBooleanLiteral,
		lexer.LPAREN:   p.parseGrouped,
		lexer.LBRACKET: p.parseListLiteral,
		lexer.IF:       p.parseIfExpression,
		lexer.MINUS:    p.parsePrefixExpression,
		lexer.BANG:     p.parsePrefixExpression,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.LPAREN: p.parseCallExpression,
	}
	for _, op := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH,
		lexer.FPLUS, lexer.FMINUS, lexer.FSTAR, lexer.FSLASH,
		lexer.PERCENT, lexer.EQ, lexer.NEQ,
		lexer.LT, lexer.GT, lexer.LTE, lexer.GTE,
		lexer.AND, lexer.OR,
	} {
		p.infixParseFns[op] = p.parseInfixExpression
	}

	// Read two tokens so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse consumes the whole input and returns the root Block. The first
// syntax error aborts the parse.
func (p *Parser) Parse() (*ast.Node, error) {
	var stmts []*ast.Node
	for p.curToken.Type != lexer.EOF {
		stmt := p.parseStatement()
		if len(p.errors) > 0 {
			return nil, p.errors[0]
		}
		stmts = append(stmts, stmt)
	}
	return p.fac.Block(stmts), nil
}

// Errors returns all parse errors collected so far.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, &Error{
		Message: fmt.Sprintf(format, args...),
		Line:    p.curToken.Line,
		Column:  p.curToken.Column,
		File:    p.curToken.File,
	})
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curToken.Type != t {
		p.errorf("expected %q, found %q", t, p.curToken.Literal)
		return false
	}
	p.nextToken()
	return true
}

func (p *Parser) parseStatement() *ast.Node {
	switch p.curToken.Type {
	case lexer.VAL:
		return p.parseValDecl()
	case lexer.FN:
		return p.parseFunction()
	case lexer.PRINT:
		return p.parsePrint()
	default:
		return p.parseExpression(lowest)
	}
}

// parseValDecl parses: val name [: annot] = expr
func (p *Parser) parseValDecl() *ast.Node {
	p.nextToken() // consume val

	name := p.curToken.Literal
	if !p.expect(lexer.IDENT) {
		return nil
	}

	annot := ""
	if p.curToken.Type == lexer.COLON {
		p.nextToken()
		annot = p.parseAnnotation()
	}

	if !p.expect(lexer.ASSIGN) {
		return nil
	}

	init := p.parseExpression(lowest)
	return p.fac.VarDecl(name, annot, init)
}

// parseFunction parses: fn [rec] name(p [: annot], ...) [: annot] = expr
func (p *Parser) parseFunction() *ast.Node {
	p.nextToken() // consume fn

	recursive := false
	if p.curToken.Type == lexer.REC {
		recursive = true
		p.nextToken()
	}

	name := p.curToken.Literal
	if !p.expect(lexer.IDENT) {
		return nil
	}
	if !p.expect(lexer.LPAREN) {
		return nil
	}

	var params []ast.Param
	for p.curToken.Type != lexer.RPAREN && p.curToken.Type != lexer.EOF {
		pname := p.curToken.Literal
		if !p.expect(lexer.IDENT) {
			return nil
		}
		pannot := ""
		if p.curToken.Type == lexer.COLON {
			p.nextToken()
			pannot = p.parseAnnotation()
		}
		params = append(params, ast.Param{Name: pname, Annot: pannot})
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
		}
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}

	ret := ""
	if p.curToken.Type == lexer.COLON {
		p.nextToken()
		ret = p.parseAnnotation()
	}

	if !p.expect(lexer.ASSIGN) {
		return nil
	}

	body := p.parseExpression(lowest)
	return p.fac.Function(name, params, ret, body, recursive)
}

// parsePrint parses: print<annot>(expr)
func (p *Parser) parsePrint() *ast.Node {
	p.nextToken() // consume print

	if !p.expect(lexer.LT) {
		return nil
	}
	annot := p.parseAnnotationInner()
	if !p.expect(lexer.GT) {
		return nil
	}
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	value := p.parseExpression(lowest)
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	return p.fac.Print(value, annot)
}

// parseAnnotation parses a type annotation written after a colon:
// a primitive name, list<T>, or the bare <T> list shorthand.
func (p *Parser) parseAnnotation() string {
	if p.curToken.Type == lexer.LT {
		p.nextToken()
		inner := p.parseAnnotationInner()
		if !p.expect(lexer.GT) {
			return ""
		}
		return "<" + inner + ">"
	}

	name := p.curToken.Literal
	if !p.expect(lexer.IDENT) {
		return ""
	}
	if p.curToken.Type == lexer.LT {
		p.nextToken()
		inner := p.parseAnnotationInner()
		if !p.expect(lexer.GT) {
			return ""
		}
		return name + "<" + inner + ">"
	}
	return name
}

// parseAnnotationInner parses the annotation between < and > of a
// print statement or list form, without consuming the closing >.
func (p *Parser) parseAnnotationInner() string {
	name := p.curToken.Literal
	if !p.expect(lexer.IDENT) {
		return ""
	}
	if p.curToken.Type == lexer.LT {
		p.nextToken()
		inner := p.parseAnnotationInner()
		if !p.expect(lexer.GT) {
			return ""
		}
		return name + "<" + inner + ">"
	}
	return name
}

func (p *Parser) parseExpression(precedence int) *ast.Node {
	prefixFn := p.prefixParseFns[p.curToken.Type]
	if prefixFn == nil {
		p.errorf("unexpected token %q", p.curToken.Literal)
		return nil
	}
	left := prefixFn()

	for len(p.errors) == 0 && precedence < p.curPrecedence() {
		infixFn := p.infixParseFns[p.curToken.Type]
		if infixFn == nil {
			return left
		}
		left = infixFn(left)
	}
	return left
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowest
}

func (p *Parser) parseIdentifier() *ast.Node {
	n := p.fac.Ident(p.curToken.Literal)
	p.nextToken()
	return n
}

func (p *Parser) parseIntegerLiteral() *ast.Node {
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf("could not parse %q as integer", p.curToken.Literal)
		return nil
	}
	p.nextToken()
	return p.fac.IntLit(v)
}

func (p *Parser) parseFloatLiteral() *ast.Node {
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf("could not parse %q as float", p.curToken.Literal)
		return nil
	}
	p.nextToken()
	return p.fac.FloatLit(v)
}

func (p *Parser) parseStringLiteral() *ast.Node {
	n := p.fac.StringLit(p.curToken.Literal)
	p.nextToken()
	return n
}

func (p *Parser) parseCharLiteral() *ast.Node {
	lit := p.curToken.Literal
	if len(lit) != 1 {
		p.errorf("invalid character literal %q", lit)
		return nil
	}
	p.nextToken()
	return p.fac.CharLit(lit[0])
}

func (p *Parser) parseBooleanLiteral() *ast.Node {
	n := p.fac.BoolLit(p.curToken.Type == lexer.TRUE)
	p.nextToken()
	return n
}

func (p *Parser) parseGrouped() *ast.Node {
	p.nextToken() // consume (
	expr := p.parseExpression(lowest)
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseListLiteral() *ast.Node {
	p.nextToken() // consume [

	var elems []*ast.Node
	for p.curToken.Type != lexer.RBRACKET && p.curToken.Type != lexer.EOF {
		elem := p.parseExpression(lowest)
		if len(p.errors) > 0 {
			return nil
		}
		elems = append(elems, elem)
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
		}
	}
	if !p.expect(lexer.RBRACKET) {
		return nil
	}
	return p.fac.List(elems)
}

// parseIfExpression parses: if cond then expr [else expr]
func (p *Parser) parseIfExpression() *ast.Node {
	p.nextToken() // consume if

	cond := p.parseExpression(lowest)
	if !p.expect(lexer.THEN) {
		return nil
	}
	then := p.parseExpression(lowest)

	var els *ast.Node
	if p.curToken.Type == lexer.ELSE {
		p.nextToken()
		els = p.parseExpression(lowest)
	}
	return p.fac.If(cond, then, els)
}

func (p *Parser) parsePrefixExpression() *ast.Node {
	op := p.curToken.Literal
	p.nextToken()
	operand := p.parseExpression(prefix)
	return p.fac.Unary(op, operand)
}

func (p *Parser) parseInfixExpression(left *ast.Node) *ast.Node {
	op := p.curToken.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return p.fac.Binary(op, left, right)
}

func (p *Parser) parseCallExpression(callee *ast.Node) *ast.Node {
	p.nextToken() // consume (

	var args []*ast.Node
	for p.curToken.Type != lexer.RPAREN && p.curToken.Type != lexer.EOF {
		arg := p.parseExpression(lowest)
		if len(p.errors) > 0 {
			return nil
		}
		args = append(args, arg)
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
		}
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	return p.fac.Call(callee, args)
}
