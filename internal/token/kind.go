package token

// Kind enumerates token kinds of the weave language.
type Kind uint8

const (
	EOF Kind = iota
	Invalid

	// Literals and names
	Ident
	IntLit
	StringLit

	// Punctuation and operators
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon
	Colon
	Dot
	Assign
	Arrow
	Plus
	Minus
	Star
	Slash
	At

	// Keywords
	KwFn
	KwLet
	KwType
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Invalid:
		return "Invalid"
	case Ident:
		return "Ident"
	case IntLit:
		return "IntLit"
	case StringLit:
		return "StringLit"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case LBrace:
		return "LBrace"
	case RBrace:
		return "RBrace"
	case LBracket:
		return "LBracket"
	case RBracket:
		return "RBracket"
	case Comma:
		return "Comma"
	case Semicolon:
		return "Semicolon"
	case Colon:
		return "Colon"
	case Dot:
		return "Dot"
	case Assign:
		return "Assign"
	case Arrow:
		return "Arrow"
	case Plus:
		return "Plus"
	case Minus:
		return "Minus"
	case Star:
		return "Star"
	case Slash:
		return "Slash"
	case At:
		return "At"
	case KwFn:
		return "KwFn"
	case KwLet:
		return "KwLet"
	case KwType:
		return "KwType"
	}
	return "Unknown"
}
