package refactor

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reweave/internal/rewrite"
	"reweave/internal/syntax"
	"reweave/internal/tree"
)

// CaseStyle selects how declaration names are normalized.
type CaseStyle uint8

const (
	CaseLower CaseStyle = iota
	CaseUpper
	CaseTitle
)

// ParseCaseStyle maps a user-facing style name to a CaseStyle.
func ParseCaseStyle(s string) (CaseStyle, bool) {
	switch strings.ToLower(s) {
	case "lower":
		return CaseLower, true
	case "upper":
		return CaseUpper, true
	case "title":
		return CaseTitle, true
	}
	return CaseLower, false
}

// NormalizeDeclNames returns a transform that recases every declaration
// name in the tree. References are not touched; pair it with Rename when
// call sites must follow.
func NormalizeDeclNames(style CaseStyle) rewrite.Transform[tree.Node] {
	caser := styleCaser(style)
	step := rewrite.From(func(n tree.Node) (tree.Node, bool) {
		d, ok := n.(tree.Decl)
		if !ok {
			return nil, false
		}
		recased := caser.String(d.DeclName())
		if recased == d.DeclName() {
			return nil, false
		}
		switch d := d.(type) {
		case *syntax.FnDecl:
			return d.WithName(syntax.Name{Text: recased, Span: d.Name.Span}), true
		case *syntax.LetDecl:
			return d.WithName(syntax.Name{Text: recased, Span: d.Name.Span}), true
		case *syntax.TypeDecl:
			return d.WithName(syntax.Name{Text: recased, Span: d.Name.Span}), true
		}
		return nil, false
	})
	return rewrite.TopDown(step.OrElse(rewrite.Succeed[tree.Node]()))
}

func styleCaser(style CaseStyle) cases.Caser {
	switch style {
	case CaseUpper:
		return cases.Upper(language.Und)
	case CaseTitle:
		return cases.Title(language.Und, cases.NoLower)
	}
	return cases.Lower(language.Und)
}
