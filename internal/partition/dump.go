package partition

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"reweave/internal/fragment"
	"reweave/internal/source"
)

// Dump renders a fragment tree as an indented listing, one fragment per
// line, for the partition debug command. Leaf text is previewed next to the
// span, padded to a common column so spans line up.
func Dump(s *fragment.Scope, file *source.File) string {
	var b strings.Builder
	dumpScope(&b, s, file, 0)
	return b.String()
}

const previewWidth = 24

func dumpScope(b *strings.Builder, s *fragment.Scope, file *source.File, depth int) {
	fmt.Fprintf(b, "%sscope%s %s indent=%d\n", strings.Repeat("  ", depth), dumpTag(s.Node), s.SpanAt, s.Indent)
	for _, child := range s.Children {
		switch f := child.(type) {
		case *fragment.Scope:
			dumpScope(b, f, file, depth+1)
		case *fragment.SourceLeaf:
			dumpLeaf(b, "source", dumpText(file, f.SpanAt, f.Text), f.SpanAt, f.Node != nil, depth+1)
		case *fragment.FlagLeaf:
			dumpLeaf(b, "flag", f.Text, f.SpanAt, f.Node != nil, depth+1)
		case *fragment.LayoutLeaf:
			dumpLeaf(b, "layout", f.Text, f.SpanAt, false, depth+1)
		}
	}
}

func dumpLeaf(b *strings.Builder, kind, text string, sp source.Span, tagged bool, depth int) {
	preview := fmt.Sprintf("%q", text)
	pad := previewWidth - runewidth.StringWidth(preview)
	if pad < 1 {
		pad = 1
	}
	mark := ""
	if tagged {
		mark = "*"
	}
	fmt.Fprintf(b, "%s%-7s%s %s%s%s\n", strings.Repeat("  ", depth), kind, mark, preview, strings.Repeat(" ", pad), sp)
}

func dumpText(file *source.File, sp source.Span, printed string) string {
	if sp.IsRange() {
		if t := file.Text(sp); t != "" {
			return t
		}
	}
	return printed
}

func dumpTag(n any) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf(" <%T>", n)
}
