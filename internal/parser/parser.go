// Package parser implements a recursive-descent parser with precedence
// climbing over Mood's three-operator expression grammar.
package parser

import (
	"fmt"

	"github.com/mood-lang/mood/internal/ast"
	"github.com/mood-lang/mood/internal/diagnostic"
	"github.com/mood-lang/mood/internal/lexer"
	"github.com/mood-lang/mood/internal/location"
	"github.com/mood-lang/mood/internal/token"
)

// Parser turns a pre-tokenized source into an *ast.Program. It has no error
// recovery: the first malformed construct aborts parsing with a Diagnostic.
type Parser struct {
	tokens []token.Token
	lexErr error
	pos    int
	nextID ast.NodeID
}

// New tokenizes source and prepares a Parser over the result.
func New(source string) *Parser {
	tokens, err := lexer.Tokenize(source)
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		// Ensure a synthetic EOF is always available to the parser even if
		// the lexer stopped early on an error.
		tokens = append(tokens, token.Token{Kind: token.EOF})
	}
	return &Parser{tokens: tokens, lexErr: err}
}

// abort is used with panic/recover to unwind out of arbitrarily nested
// parse calls the moment the first Diagnostic is produced.
type abort struct{ diag *diagnostic.Diagnostic }

// Parse runs the parser to completion, returning either a Program or the
// first Diagnostic encountered (from the lexer or the parser itself).
func (p *Parser) Parse() (prog *ast.Program, diag *diagnostic.Diagnostic) {
	if p.lexErr != nil {
		if uce, ok := p.lexErr.(*lexer.UnexpectedCharacterError); ok {
			return nil, diagnostic.New(fmt.Sprintf("unexpected character %q", uce.Char), uce.Span, "unexpected character")
		}
		return nil, diagnostic.New(p.lexErr.Error(), location.Span{}, "")
	}

	defer func() {
		if r := recover(); r != nil {
			if a, ok := r.(abort); ok {
				prog, diag = nil, a.diag
				return
			}
			panic(r)
		}
	}()

	start := p.current().Span
	var defs []ast.Decl
	for !p.check(token.EOF) {
		defs = append(defs, p.parseDefinition())
	}
	end := p.previous().Span
	return ast.NewProgram(defs, location.Union(start, end)), nil
}

// --- token stream helpers ---

func (p *Parser) current() token.Token { return p.tokens[p.pos] }

func (p *Parser) previous() token.Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) check(k token.Kind) bool { return p.current().Kind == k }

func (p *Parser) checkIdentLiteral(lit string) bool {
	return p.current().Kind == token.IDENT && p.current().Literal == lit
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) match(k token.Kind) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) freshID() ast.NodeID {
	id := p.nextID
	p.nextID++
	return id
}

func (p *Parser) fail(message string, span location.Span, annotation string) {
	panic(abort{diagnostic.New(message, span, annotation)})
}

// expect consumes a token of kind k or aborts with ExpectedToken.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.check(k) {
		return p.advance()
	}
	tok := p.current()
	p.fail(fmt.Sprintf("expected %s, found %s", k, tok.Kind), tok.Span, fmt.Sprintf("expected %s here", k))
	panic("unreachable")
}

func (p *Parser) expectIdent() token.Token {
	if p.check(token.IDENT) {
		return p.advance()
	}
	tok := p.current()
	p.fail(fmt.Sprintf("expected identifier, found %s", tok.Kind), tok.Span, "expected identifier here")
	panic("unreachable")
}

// --- definitions ---

func (p *Parser) parseDefinition() ast.Decl {
	switch p.current().Kind {
	case token.STRUCT:
		return p.parseStructDecl()
	case token.ENUM:
		return p.parseEnumDecl()
	case token.PUB, token.FN:
		return p.parseFunctionDecl()
	default:
		tok := p.current()
		p.fail(fmt.Sprintf("expected a definition, found %s", tok.Kind), tok.Span, "expected 'struct', 'enum', or 'fn' here")
		panic("unreachable")
	}
}

func (p *Parser) parseStructDecl() *ast.StructDeclaration {
	start := p.expect(token.STRUCT).Span
	name := p.expectIdent()
	p.expect(token.LBRACE)

	var fields []*ast.Field
	for !p.check(token.RBRACE) {
		fields = append(fields, p.parseField())
		if _, ok := p.match(token.COMMA); !ok {
			break
		}
	}
	end := p.expect(token.RBRACE).Span
	return ast.NewStructDeclaration(name.Literal, fields, location.Union(start, end))
}

func (p *Parser) parseField() *ast.Field {
	name := p.expectIdent()
	p.expect(token.COLON)
	typeName := p.expectIdent()
	return ast.NewField(name.Literal, typeName.Literal, typeName.Span, location.Union(name.Span, typeName.Span))
}

func (p *Parser) parseEnumDecl() *ast.EnumDeclaration {
	start := p.expect(token.ENUM).Span
	name := p.expectIdent()
	p.expect(token.LBRACE)

	var variants []*ast.Variant
	for !p.check(token.RBRACE) {
		variants = append(variants, p.parseVariant())
		if _, ok := p.match(token.COMMA); !ok {
			break
		}
	}
	end := p.expect(token.RBRACE).Span
	return ast.NewEnumDeclaration(name.Literal, variants, location.Union(start, end))
}

func (p *Parser) parseVariant() *ast.Variant {
	name := p.expectIdent()
	if _, ok := p.match(token.LPAREN); ok {
		typeName := p.expectIdent()
		end := p.expect(token.RPAREN).Span
		return ast.NewVariant(name.Literal, true, typeName.Literal, typeName.Span, location.Union(name.Span, end))
	}
	return ast.NewVariant(name.Literal, false, "", location.Span{}, name.Span)
}

func (p *Parser) parseFunctionDecl() *ast.FunctionDeclaration {
	start := p.current().Span
	isPublic := false
	if _, ok := p.match(token.PUB); ok {
		isPublic = true
	}
	p.expect(token.FN)
	name := p.expectIdent()
	p.expect(token.LPAREN)

	var params []*ast.Parameter
	for !p.check(token.RPAREN) {
		params = append(params, p.parseParam())
		if _, ok := p.match(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.COLON)
	returnType := p.expectIdent()

	body := p.parseBlock()
	end := body.Span()
	return ast.NewFunctionDeclaration(name.Literal, isPublic, params, returnType.Literal, returnType.Span, body, location.Union(start, end))
}

func (p *Parser) parseParam() *ast.Parameter {
	id := p.freshID()
	name := p.expectIdent()
	p.expect(token.COLON)
	typeName := p.expectIdent()
	return ast.NewParameter(id, name.Literal, typeName.Literal, typeName.Span, location.Union(name.Span, typeName.Span))
}

// parseBlock parses `{ (Expr (";" Expr)* ";"?)? }`.
func (p *Parser) parseBlock() *ast.BlockExpression {
	id := p.freshID()
	start := p.expect(token.LBRACE).Span

	var children []ast.Expr
	for !p.check(token.RBRACE) {
		children = append(children, p.parseExpr(0))
		if _, ok := p.match(token.SEMICOLON); !ok {
			break
		}
	}
	end := p.expect(token.RBRACE).Span
	return ast.NewBlockExpression(id, children, location.Union(start, end))
}

// --- expressions: precedence climbing ---

// bindingPower returns the binding power of an infix operator; higher binds
// tighter: == is 2, * is 1, + is 0.
func bindingPower(k token.Kind) (ast.BinaryOp, int, bool) {
	switch k {
	case token.EQ:
		return ast.OpEq, 2, true
	case token.STAR:
		return ast.OpMul, 1, true
	case token.PLUS:
		return ast.OpAdd, 0, true
	default:
		return 0, 0, false
	}
}

func (p *Parser) parseExpr(minBp int) ast.Expr {
	left := p.parseExprPrimary()
	for {
		op, bp, ok := bindingPower(p.current().Kind)
		if !ok || bp < minBp {
			break
		}
		p.advance()
		right := p.parseExpr(bp + 1)
		id := p.freshID()
		left = ast.NewBinaryExpression(id, op, left, right, location.Union(left.Span(), right.Span()))
	}
	return left
}

func (p *Parser) parseExprPrimary() ast.Expr {
	tok := p.current()
	switch {
	case tok.Kind == token.LET:
		return p.parseVarDecl()

	case tok.Kind == token.NUMBER:
		return p.parseNumericLiteral()

	case tok.Kind == token.IDENT && tok.Literal == "true":
		p.advance()
		return ast.NewLiteral(p.freshID(), ast.BoolLiteral, "", "bool", true, tok.Span)

	case tok.Kind == token.IDENT && tok.Literal == "false":
		p.advance()
		return ast.NewLiteral(p.freshID(), ast.BoolLiteral, "", "bool", false, tok.Span)

	case tok.Kind == token.IDENT:
		return p.parseIdentifierLed()

	case tok.Kind == token.LPAREN:
		p.advance()
		inner := p.parseExpr(0)
		p.expect(token.RPAREN)
		return inner

	default:
		p.fail(fmt.Sprintf("expected an expression, found %s", tok.Kind), tok.Span, "expected an expression here")
		panic("unreachable")
	}
}

// parseNumericLiteral parses `Number ("." Number)? "_" ("i32"|"f64")`.
func (p *Parser) parseNumericLiteral() ast.Expr {
	id := p.freshID()
	digits := p.advance()
	text := digits.Literal
	kind := ast.IntLiteral

	if p.check(token.DOT) {
		p.advance()
		frac := p.expect(token.NUMBER)
		text = text + "." + frac.Literal
		kind = ast.FloatLiteral
	}

	underscore := p.expect(token.UNDERSCORE)
	_ = p.freshID() // the suffix identifier receives a node-id of its own; the literal's id is authoritative
	if !p.check(token.IDENT) {
		tok := p.current()
		p.fail("expected a numeric type suffix ('i32' or 'f64')", tok.Span, "expected 'i32' or 'f64' here")
	}
	suffix := p.advance()
	if suffix.Literal != "i32" && suffix.Literal != "f64" {
		p.fail(fmt.Sprintf("expected a numeric type, found %q", suffix.Literal), suffix.Span, "expected 'i32' or 'f64'")
	}
	if suffix.Literal == "i32" {
		kind = ast.IntLiteral
		if kindHasFraction(text) {
			p.fail("i32 literals cannot have a fractional part", location.Union(digits.Span, suffix.Span), "'i32' does not accept a decimal point")
		}
	} else {
		kind = ast.FloatLiteral
	}

	span := location.Union(digits.Span, suffix.Span)
	_ = underscore
	return ast.NewLiteral(id, kind, text, suffix.Literal, false, span)
}

func kindHasFraction(text string) bool {
	for _, c := range text {
		if c == '.' {
			return true
		}
	}
	return false
}

func (p *Parser) parseVarDecl() ast.Expr {
	id := p.freshID()
	start := p.expect(token.LET).Span
	name := p.expectIdent()
	p.expect(token.COLON)
	typeName := p.expectIdent()
	p.expect(token.ASSIGN)
	value := p.parseExpr(0)
	return ast.NewVariableDeclaration(id, name.Literal, typeName.Literal, typeName.Span, value, location.Union(start, value.Span()))
}

// parseIdentifierLed handles the `Ident (...)` alternatives of ExprPrimary:
// struct construction, member access, enum path, call, or a bare reference.
func (p *Parser) parseIdentifierLed() ast.Expr {
	head := p.advance()

	switch p.current().Kind {
	case token.LBRACE:
		return p.parseStructConstruction(head)
	case token.DOT:
		return p.parseMemberExpression(head)
	case token.COLONCOLON:
		return p.parseExpressionPath(head)
	case token.LPAREN:
		return p.parseCallExpression(head)
	default:
		return ast.NewIdentifier(p.freshID(), head.Literal, head.Span)
	}
}

func (p *Parser) parseStructConstruction(head token.Token) ast.Expr {
	id := p.freshID()
	p.expect(token.LBRACE)
	var fields []ast.FieldInit
	for !p.check(token.RBRACE) {
		fieldName := p.expectIdent()
		p.expect(token.COLON)
		value := p.parseExpr(0)
		fields = append(fields, ast.FieldInit{Name: fieldName.Literal, NameSpan: fieldName.Span, Value: value})
		if _, ok := p.match(token.COMMA); !ok {
			break
		}
	}
	end := p.expect(token.RBRACE).Span
	return ast.NewStructConstruction(id, head.Literal, head.Span, fields, location.Union(head.Span, end))
}

func (p *Parser) parseMemberExpression(head token.Token) ast.Expr {
	id := p.freshID()
	baseID := p.freshID()
	base := ast.NewIdentifier(baseID, head.Literal, head.Span)
	p.expect(token.DOT)
	field := p.expectIdent()
	return ast.NewMemberExpression(id, base, field.Literal, field.Span, location.Union(head.Span, field.Span))
}

func (p *Parser) parseExpressionPath(head token.Token) ast.Expr {
	id := p.freshID()
	p.expect(token.COLONCOLON)
	variant := p.expectIdent()

	if !p.check(token.LPAREN) {
		return ast.NewExpressionPath(id, head.Literal, head.Span, variant.Literal, variant.Span, false, nil, location.Union(head.Span, variant.Span))
	}

	p.advance()
	var args []ast.Expr
	for !p.check(token.RPAREN) {
		args = append(args, p.parseExpr(0))
		if _, ok := p.match(token.COMMA); !ok {
			break
		}
	}
	end := p.expect(token.RPAREN).Span
	return ast.NewExpressionPath(id, head.Literal, head.Span, variant.Literal, variant.Span, true, args, location.Union(head.Span, end))
}

func (p *Parser) parseCallExpression(head token.Token) ast.Expr {
	id := p.freshID()
	p.expect(token.LPAREN)
	var args []ast.Expr
	for !p.check(token.RPAREN) {
		args = append(args, p.parseExpr(0))
		if _, ok := p.match(token.COMMA); !ok {
			break
		}
	}
	end := p.expect(token.RPAREN).Span
	return ast.NewCallExpression(id, head.Literal, head.Span, args, location.Union(head.Span, end))
}
