package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Parser
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectIdentifier  Code = 2002
	SynExpectExpression  Code = 2003
	SynExpectType        Code = 2004
	SynUnclosedParen     Code = 2005
	SynUnclosedBrace     Code = 2006
	SynUnclosedBracket   Code = 2007
	SynExpectSemicolon   Code = 2008
	SynExpectFnBody      Code = 2009
	SynExpectParam       Code = 2010
	SynExpectTypeMember  Code = 2011
	SynUnexpectedTopItem Code = 2012

	// Driver I/O
	IOInfo     Code = 3000
	IOLoadFile Code = 3001

	// Rendering / round-trip verification
	RegenInfo              Code = 4000
	RegenRoundTripMismatch Code = 4001
)

// ID returns the stable textual identifier for the code, e.g. "RW1001".
func (c Code) ID() string {
	return fmt.Sprintf("RW%04d", uint16(c))
}

func (c Code) String() string {
	switch c {
	case LexUnknownChar:
		return "unknown character"
	case LexUnterminatedString:
		return "unterminated string literal"
	case LexUnterminatedBlockComment:
		return "unterminated block comment"
	case LexBadNumber:
		return "malformed number literal"
	case SynUnexpectedToken:
		return "unexpected token"
	case SynExpectIdentifier:
		return "expected identifier"
	case SynExpectExpression:
		return "expected expression"
	case SynExpectType:
		return "expected type"
	case SynUnclosedParen:
		return "unclosed parenthesis"
	case SynUnclosedBrace:
		return "unclosed brace"
	case SynUnclosedBracket:
		return "unclosed bracket"
	case SynExpectSemicolon:
		return "expected ';'"
	case SynExpectFnBody:
		return "expected function body"
	case SynExpectParam:
		return "expected parameter"
	case SynExpectTypeMember:
		return "expected type member"
	case SynUnexpectedTopItem:
		return "unexpected top-level item"
	case IOLoadFile:
		return "failed to load file"
	case RegenRoundTripMismatch:
		return "regenerated text differs from source"
	default:
		return c.ID()
	}
}
