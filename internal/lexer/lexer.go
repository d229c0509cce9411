package lexer

import (
	"reweave/internal/diag"
	"reweave/internal/source"
	"reweave/internal/token"
)

// Lexer produces significant tokens with leading trivia attached.
type Lexer struct {
	file   *source.File
	cursor Cursor
	bag    *diag.Bag
	look   *token.Token   // one-token lookahead buffer
	hold   []token.Trivia // accumulated leading trivia
}

func New(file *source.File, bag *diag.Bag) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		bag:    bag,
	}
}

// Next returns the next significant token with its Leading trivia collected.
// After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: source.NewRange(lx.file.ID, lx.cursor.Off, lx.cursor.Off),
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStart(ch):
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Tokens scans the whole file into a slice ending with EOF.
func (lx *Lexer) Tokens() []token.Token {
	var out []token.Token
	for {
		t := lx.Next()
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		m := lx.cursor.Mark()

		switch {
		case ch == '\n':
			lx.cursor.Bump()
			lx.holdTrivia(token.TriviaNewline, m)

		case ch == ' ' || ch == '\t' || ch == '\r':
			for !lx.cursor.EOF() {
				b := lx.cursor.Peek()
				if b != ' ' && b != '\t' && b != '\r' {
					break
				}
				lx.cursor.Bump()
			}
			lx.holdTrivia(token.TriviaSpace, m)

		case ch == '/':
			b0, b1, ok := lx.cursor.Peek2()
			if !ok || b0 != '/' {
				return
			}
			switch b1 {
			case '/':
				for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
					lx.cursor.Bump()
				}
				lx.holdTrivia(token.TriviaLineComment, m)
			case '*':
				lx.cursor.Bump()
				lx.cursor.Bump()
				closed := false
				for !lx.cursor.EOF() {
					if lx.cursor.Bump() == '*' && lx.cursor.Eat('/') {
						closed = true
						break
					}
				}
				if !closed {
					lx.report(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(m))
				}
				lx.holdTrivia(token.TriviaBlockComment, m)
			default:
				return
			}

		default:
			return
		}
	}
}

func (lx *Lexer) holdTrivia(kind token.TriviaKind, m Mark) {
	sp := lx.cursor.SpanFrom(m)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: lx.file.Text(sp),
	})
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(m)
	text := lx.file.Text(sp)
	return token.Token{
		Kind: token.LookupKeyword(text),
		Span: sp,
		Text: text,
	}
}

func (lx *Lexer) scanNumber() token.Token {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	// A digit run glued to identifier characters is one malformed token.
	if !lx.cursor.EOF() && isIdentStart(lx.cursor.Peek()) {
		for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(m)
		lx.report(diag.LexBadNumber, sp)
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Text(sp)}
	}
	sp := lx.cursor.SpanFrom(m)
	return token.Token{Kind: token.IntLit, Span: sp, Text: lx.file.Text(sp)}
}

func (lx *Lexer) scanString() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	closed := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '\\' && !lx.cursor.EOF() {
			lx.cursor.Bump()
			continue
		}
		if b == '"' {
			closed = true
			break
		}
		if b == '\n' {
			break
		}
	}
	sp := lx.cursor.SpanFrom(m)
	if !closed {
		lx.report(diag.LexUnterminatedString, sp)
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Text(sp)}
	}
	return token.Token{Kind: token.StringLit, Span: sp, Text: lx.file.Text(sp)}
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	m := lx.cursor.Mark()
	ch := lx.cursor.Bump()

	kind := token.Invalid
	switch ch {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semicolon
	case ':':
		kind = token.Colon
	case '.':
		kind = token.Dot
	case '=':
		kind = token.Assign
	case '+':
		kind = token.Plus
	case '-':
		if lx.cursor.Eat('>') {
			kind = token.Arrow
		} else {
			kind = token.Minus
		}
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '@':
		kind = token.At
	}

	sp := lx.cursor.SpanFrom(m)
	if kind == token.Invalid {
		lx.report(diag.LexUnknownChar, sp)
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.file.Text(sp)}
}

func (lx *Lexer) report(code diag.Code, sp source.Span) {
	if lx.bag == nil {
		return
	}
	lx.bag.Add(diag.NewError(code, sp, code.String()))
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDec(b)
}

func isDec(b byte) bool {
	return b >= '0' && b <= '9'
}
