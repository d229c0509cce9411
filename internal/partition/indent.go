package partition

import (
	"reweave/internal/source"
)

// indentStep is the number of columns a synthetic scope indents past its
// parent when no source position can be measured.
const indentStep = 4

const tabWidth = 4

// measureIndent computes the indentation column of the source position off.
// When off is not the first non-blank position of its line the node sits
// mid-line and inherits the parent scope's indentation.
func measureIndent(file *source.File, off uint32, parent int) int {
	if file == nil || int(off) > len(file.Content) {
		return parent
	}
	text := file.Content
	lineStart := int(off)
	for lineStart > 0 && text[lineStart-1] != '\n' {
		lineStart--
	}
	width := 0
	for i := lineStart; i < int(off); i++ {
		switch text[i] {
		case ' ':
			width++
		case '\t':
			width += tabWidth - width%tabWidth
		default:
			return parent
		}
	}
	return width
}
