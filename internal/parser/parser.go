// Package parser builds weave syntax trees. It is an external collaborator
// of the layout engine: the partitioner consumes whatever tree the parser
// produced and never re-reads tokens.
package parser

import (
	"reweave/internal/diag"
	"reweave/internal/entity"
	"reweave/internal/lexer"
	"reweave/internal/source"
	"reweave/internal/syntax"
	"reweave/internal/token"
	"reweave/internal/tree"
)

// Result carries a parsed file together with its entity table.
type Result struct {
	File     *syntax.File
	Entities *entity.Table
}

// Parser is a recursive-descent parser over the lexer's token stream.
type Parser struct {
	file     *source.File
	lx       *lexer.Lexer
	bag      *diag.Bag
	entities *entity.Table
	tok      token.Token
}

func New(file *source.File, bag *diag.Bag) *Parser {
	p := &Parser{
		file:     file,
		lx:       lexer.New(file, bag),
		bag:      bag,
		entities: entity.NewTable(),
	}
	p.advance()
	return p
}

// ParseFile parses the whole file, recovering from item-level errors.
func (p *Parser) ParseFile() Result {
	var items []tree.Node
	start := p.tok.Span.Start

	for p.tok.Kind != token.EOF {
		item := p.parseItem()
		if item == nil {
			p.recoverToItem()
			continue
		}
		items = append(items, item)
	}

	end := p.tok.Span.End
	fileSpan := source.NewRange(p.file.ID, start, end)
	if len(items) > 0 {
		fileSpan = source.NewRange(p.file.ID, 0, uint32(len(p.file.Content)))
	}
	return Result{
		File:     syntax.NewFile(fileSpan, items),
		Entities: p.entities,
	}
}

func (p *Parser) advance() {
	p.tok = p.lx.Next()
}

func (p *Parser) at(k token.Kind) bool {
	return p.tok.Kind == k
}

func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if !p.at(k) {
		return token.Token{}, false
	}
	t := p.tok
	p.advance()
	return t, true
}

func (p *Parser) expect(k token.Kind, code diag.Code) (token.Token, bool) {
	t, ok := p.eat(k)
	if !ok {
		p.bag.Add(diag.NewError(code, p.tok.Span, code.String()))
	}
	return t, ok
}

func (p *Parser) recoverToItem() {
	for {
		switch p.tok.Kind {
		case token.EOF, token.KwFn, token.KwLet, token.KwType, token.At:
			return
		case token.Semicolon, token.RBrace:
			p.advance()
			return
		}
		p.advance()
	}
}

func (p *Parser) parseItem() tree.Node {
	attrs := p.parseAttrs()

	switch p.tok.Kind {
	case token.KwFn:
		return p.parseFnDecl(attrs)
	case token.KwLet:
		return p.parseLetDecl()
	case token.KwType:
		return p.parseTypeDecl()
	default:
		p.bag.Add(diag.NewError(diag.SynUnexpectedTopItem, p.tok.Span,
			diag.SynUnexpectedTopItem.String()))
		return nil
	}
}

func (p *Parser) parseAttrs() []*syntax.Attr {
	var attrs []*syntax.Attr
	for p.at(token.At) {
		at := p.tok
		p.advance()
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
		if !ok {
			break
		}
		span := source.NewRange(p.file.ID, at.Span.Start, name.Span.End)
		attrs = append(attrs, syntax.NewAttr(span, name.Text))
	}
	return attrs
}

func (p *Parser) parseName() (syntax.Name, bool) {
	t, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return syntax.Name{}, false
	}
	return syntax.Name{Text: t.Text, Span: t.Span}, true
}

// parseParams parses a parenthesized parameter list; the returned span
// covers the parentheses. Declarations without a list get an empty
// synthetic span anchored after the name.
func (p *Parser) parseParams(anchor uint32) (params []*syntax.Param, span source.Span, parens, ok bool) {
	if lp, has := p.eat(token.LParen); has {
		start := lp.Span.Start
		for !p.at(token.RParen) && !p.at(token.EOF) {
			param, pok := p.parseParam()
			if !pok {
				return nil, source.Span{}, false, false
			}
			params = append(params, param)
			if _, comma := p.eat(token.Comma); !comma {
				break
			}
		}
		rp, has := p.expect(token.RParen, diag.SynUnclosedParen)
		if !has {
			return nil, source.Span{}, false, false
		}
		return params, source.NewRange(p.file.ID, start, rp.Span.End), true, true
	}

	// No parameter list: an empty synthetic span anchored after the name.
	return nil, source.NewSynthetic(p.file.ID, anchor), false, true
}

func (p *Parser) parseParam() (*syntax.Param, bool) {
	name, ok := p.parseName()
	if !ok {
		p.bag.Add(diag.NewError(diag.SynExpectParam, p.tok.Span, diag.SynExpectParam.String()))
		return nil, false
	}
	end := name.Span.End
	var typ syntax.Name
	if _, has := p.eat(token.Colon); has {
		t, tok := p.expect(token.Ident, diag.SynExpectType)
		if !tok {
			return nil, false
		}
		typ = syntax.Name{Text: t.Text, Span: t.Span}
		end = t.Span.End
	}
	span := source.NewRange(p.file.ID, name.Span.Start, end)
	return syntax.NewParam(span, name, typ), true
}

func (p *Parser) parseFnDecl(attrs []*syntax.Attr) tree.Node {
	kw, _ := p.eat(token.KwFn)
	start := kw.Span.Start
	if len(attrs) > 0 {
		start = attrs[0].Span().Start
	}

	name, ok := p.parseName()
	if !ok {
		return nil
	}

	params, paramsSpan, parens, ok := p.parseParams(name.Span.End)
	if !ok {
		return nil
	}

	var ret syntax.Name
	if _, has := p.eat(token.Arrow); has {
		t, tok := p.expect(token.Ident, diag.SynExpectType)
		if !tok {
			return nil
		}
		ret = syntax.Name{Text: t.Text, Span: t.Span}
	}

	var body tree.Node
	var end uint32
	switch {
	case p.at(token.Assign):
		p.advance()
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		semi, sok := p.expect(token.Semicolon, diag.SynExpectSemicolon)
		if !sok {
			end = expr.Span().End
		} else {
			end = semi.Span.End
		}
		body = expr
	case p.at(token.LBrace):
		block := p.parseBlock()
		if block == nil {
			return nil
		}
		body = block
		end = block.Span().End
	default:
		p.bag.Add(diag.NewError(diag.SynExpectFnBody, p.tok.Span, diag.SynExpectFnBody.String()))
		return nil
	}

	span := source.NewRange(p.file.ID, start, end)
	ref := p.entities.Declare(name.Text)
	return syntax.NewFnDecl(span, attrs, name, params, paramsSpan, parens, ret, body, ref)
}

func (p *Parser) parseLetDecl() tree.Node {
	kw, _ := p.eat(token.KwLet)

	name, ok := p.parseName()
	if !ok {
		return nil
	}
	if _, has := p.expect(token.Assign, diag.SynUnexpectedToken); !has {
		return nil
	}
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	end := value.Span().End
	if semi, sok := p.expect(token.Semicolon, diag.SynExpectSemicolon); sok {
		end = semi.Span.End
	}

	span := source.NewRange(p.file.ID, kw.Span.Start, end)
	ref := p.entities.Declare(name.Text)
	return syntax.NewLetDecl(span, name, value, ref)
}

func (p *Parser) parseTypeDecl() tree.Node {
	kw, _ := p.eat(token.KwType)

	name, ok := p.parseName()
	if !ok {
		return nil
	}

	params, ctorSpan, parens, ok := p.parseParams(name.Span.End)
	if !ok {
		return nil
	}

	var parent *syntax.Call
	if _, has := p.eat(token.Colon); has {
		parent = p.parseParentApply()
		if parent == nil {
			return nil
		}
	}

	var members []tree.Node
	end := name.Span.End
	if ctorSpan.IsRange() {
		end = ctorSpan.End
	}
	if parent != nil {
		end = parent.Span().End
	}
	if p.at(token.LBrace) {
		block := p.parseBlock()
		if block == nil {
			return nil
		}
		members = block.Stmts
		end = block.Span().End
	} else if semi, has := p.eat(token.Semicolon); has {
		end = semi.Span.End
	}

	span := source.NewRange(p.file.ID, kw.Span.Start, end)
	ref := p.entities.Declare(name.Text)
	return syntax.NewTypeDecl(span, name, params, ctorSpan, parens, parent, members, ref)
}

// parseParentApply parses the parent-constructor application after ':'.
func (p *Parser) parseParentApply() *syntax.Call {
	name, ok := p.parseName()
	if !ok {
		return nil
	}
	fun := syntax.NewIdent(name.Span, name.Text)

	lp, has := p.eat(token.LParen)
	if !has {
		// A bare parent name is an application without arguments.
		argsSpan := source.NewSynthetic(p.file.ID, name.Span.End)
		return syntax.NewCall(name.Span, fun, nil, argsSpan)
	}
	args, rpEnd, ok := p.parseArgs(lp)
	if !ok {
		return nil
	}
	span := source.NewRange(p.file.ID, name.Span.Start, rpEnd)
	argsSpan := source.NewRange(p.file.ID, lp.Span.Start, rpEnd)
	return syntax.NewCall(span, fun, args, argsSpan)
}

func (p *Parser) parseBlock() *syntax.Block {
	lb, _ := p.eat(token.LBrace)

	var stmts []tree.Node
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		switch p.tok.Kind {
		case token.KwLet:
			stmt := p.parseLetDecl()
			if stmt == nil {
				p.recoverToItem()
				continue
			}
			stmts = append(stmts, stmt)
		default:
			expr := p.parseExpr()
			if expr == nil {
				p.recoverToItem()
				continue
			}
			p.expect(token.Semicolon, diag.SynExpectSemicolon)
			stmts = append(stmts, expr)
		}
	}
	rb, ok := p.expect(token.RBrace, diag.SynUnclosedBrace)
	if !ok {
		return nil
	}
	return syntax.NewBlock(source.NewRange(p.file.ID, lb.Span.Start, rb.Span.End), stmts)
}

func (p *Parser) parseExpr() tree.Node {
	left := p.parsePostfix()
	if left == nil {
		return nil
	}
	for {
		switch p.tok.Kind {
		case token.Plus, token.Minus, token.Star, token.Slash:
			op := p.tok
			p.advance()
			right := p.parsePostfix()
			if right == nil {
				return nil
			}
			span := source.NewRange(p.file.ID, left.Span().Start, right.Span().End)
			left = syntax.NewBinary(span, op.Kind, op.Text, op.Span, left, right)
		default:
			return left
		}
	}
}

func (p *Parser) parsePostfix() tree.Node {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	for {
		switch p.tok.Kind {
		case token.Dot:
			p.advance()
			name, ok := p.parseName()
			if !ok {
				return nil
			}
			span := source.NewRange(p.file.ID, expr.Span().Start, name.Span.End)
			expr = syntax.NewSelect(span, expr, name)
		case token.LParen:
			lp := p.tok
			p.advance()
			args, rpEnd, ok := p.parseArgs(lp)
			if !ok {
				return nil
			}
			span := source.NewRange(p.file.ID, expr.Span().Start, rpEnd)
			argsSpan := source.NewRange(p.file.ID, lp.Span.Start, rpEnd)
			expr = syntax.NewCall(span, expr, args, argsSpan)
		default:
			return expr
		}
	}
}

// parseArgs parses a comma-separated argument list after a consumed '('.
func (p *Parser) parseArgs(lp token.Token) (args []tree.Node, rpEnd uint32, ok bool) {
	for !p.at(token.RParen) && !p.at(token.EOF) {
		arg := p.parseExpr()
		if arg == nil {
			return nil, 0, false
		}
		args = append(args, arg)
		if _, comma := p.eat(token.Comma); !comma {
			break
		}
	}
	rp, has := p.expect(token.RParen, diag.SynUnclosedParen)
	if !has {
		return nil, 0, false
	}
	_ = lp
	return args, rp.Span.End, true
}

func (p *Parser) parsePrimary() tree.Node {
	switch p.tok.Kind {
	case token.Ident:
		t := p.tok
		p.advance()
		return syntax.NewIdent(t.Span, t.Text)
	case token.IntLit:
		t := p.tok
		p.advance()
		return syntax.NewIntLit(t.Span, t.Text)
	case token.StringLit:
		t := p.tok
		p.advance()
		return syntax.NewStringLit(t.Span, t.Text)
	case token.LBracket:
		return p.parseList()
	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		if inner == nil {
			return nil
		}
		p.expect(token.RParen, diag.SynUnclosedParen)
		return inner
	default:
		p.bag.Add(diag.NewError(diag.SynExpectExpression, p.tok.Span,
			diag.SynExpectExpression.String()))
		return nil
	}
}

func (p *Parser) parseList() tree.Node {
	lb, _ := p.eat(token.LBracket)

	var elems []tree.Node
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		elem := p.parseExpr()
		if elem == nil {
			return nil
		}
		elems = append(elems, elem)
		if _, comma := p.eat(token.Comma); !comma {
			break
		}
	}
	rb, ok := p.expect(token.RBracket, diag.SynUnclosedBracket)
	if !ok {
		return nil
	}
	return syntax.NewList(source.NewRange(p.file.ID, lb.Span.Start, rb.Span.End), elems)
}
