package partition

import (
	"strings"

	"reweave/internal/source"
	"reweave/internal/syntax"
)

// clipSelection computes the span of the selected-member leaf of a member
// access. Desugared or rebuilt accesses sometimes carry a member span that
// covers the receiver too; in that case the receiver's extent is clipped
// off and the text after the dot delimiter is used. When no delimiter can
// be found the raw node span stands.
func clipSelection(ctx *Context, n *syntax.Select) source.Span {
	sel := n.Sel.Span
	recv := n.Recv.Span()
	if sel.IsRange() && (!recv.IsRange() || !sel.Overlaps(recv)) {
		return sel
	}
	full := n.Span()
	if !full.IsRange() || !recv.IsRange() || recv.End > full.End {
		return full
	}
	between := ctx.file.Text(source.NewRange(full.File, recv.End, full.End))
	if i := strings.IndexByte(between, '.'); i >= 0 {
		start := recv.End + uint32(i) + 1
		return source.NewRange(full.File, start, full.End)
	}
	return full
}
