package token

var keywords = map[string]Kind{
	"fn":   KwFn,
	"let":  KwLet,
	"type": KwType,
}

// LookupKeyword returns the keyword kind for an identifier text, or Ident.
func LookupKeyword(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	return Ident
}
