// Package diagfmt formats diagnostics for terminals and tooling.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"reweave/internal/diag"
	"reweave/internal/source"
)

// Pretty writes diagnostics in human-readable form, one per block:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	    <source line>
//	    ^~~~
//
// followed by notes in the same shape. Callers sort the bag first.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeading(w, d, fs, opts)
		writeContext(w, d.Primary, fs)
		if opts.ShowNotes {
			for _, note := range d.Notes {
				fmt.Fprintf(w, "  note: %s\n", note.Msg)
				writeContext(w, note.Span, fs)
			}
		}
	}
}

func writeHeading(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := d.Severity.String()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", formatPosition(d.Primary, fs, opts.PathMode), sev, d.Code.ID(), d.Message)
}

// writeContext prints the first line the span covers with a caret run
// underneath. Spans without a real position print nothing.
func writeContext(w io.Writer, sp source.Span, fs *source.FileSet) {
	if !sp.IsRange() || fs == nil || int(sp.File) >= fs.Len() {
		return
	}
	file := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	line := lineText(file, start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "    %s\n", strings.TrimRight(line, "\n"))

	caretLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		caretLen = int(end.Col - start.Col)
	}
	underline := "^"
	if caretLen > 1 {
		underline += strings.Repeat("~", caretLen-1)
	}
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", int(start.Col-1)), underline)
}

func lineText(file *source.File, line uint32) string {
	if line == 0 || int(line) > len(file.LineIdx) {
		return ""
	}
	startOff := file.LineIdx[line-1]
	endOff := uint32(len(file.Content))
	if int(line) < len(file.LineIdx) {
		endOff = file.LineIdx[line]
	}
	return string(file.Content[startOff:endOff])
}

func formatPosition(sp source.Span, fs *source.FileSet, mode PathMode) string {
	if fs == nil || !sp.IsLayoutRelevant() || int(sp.File) >= fs.Len() {
		return "<unknown>"
	}
	file := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", file.FormatPath(mode.String(), fs.BaseDir()), start.Line, start.Col)
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	}
	return color.New(color.FgCyan)
}
