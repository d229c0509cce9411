package diagfmt

import (
	"encoding/json"
	"io"

	"reweave/internal/diag"
	"reweave/internal/source"
)

// DiagnosticOutput is the JSON shape of one diagnostic.
type DiagnosticOutput struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Path     string       `json:"path,omitempty"`
	Line     uint32       `json:"line,omitempty"`
	Col      uint32       `json:"col,omitempty"`
	Notes    []NoteOutput `json:"notes,omitempty"`
}

type NoteOutput struct {
	Message string `json:"message"`
	Line    uint32 `json:"line,omitempty"`
	Col     uint32 `json:"col,omitempty"`
}

// JSON writes diagnostics as a JSON array.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	items := bag.Items()
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}

	out := make([]DiagnosticOutput, 0, len(items))
	for _, d := range items {
		entry := DiagnosticOutput{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
		}
		if fs != nil && d.Primary.IsRange() && int(d.Primary.File) < fs.Len() {
			file := fs.Get(d.Primary.File)
			start, _ := fs.Resolve(d.Primary)
			entry.Path = file.FormatPath(opts.PathMode.String(), fs.BaseDir())
			entry.Line = start.Line
			entry.Col = start.Col
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				no := NoteOutput{Message: note.Msg}
				if fs != nil && note.Span.IsRange() && int(note.Span.File) < fs.Len() {
					start, _ := fs.Resolve(note.Span)
					no.Line = start.Line
					no.Col = start.Col
				}
				entry.Notes = append(entry.Notes, no)
			}
		}
		out = append(out, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
