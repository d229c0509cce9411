package source

import (
	"fmt"
)

// SpanKind classifies how a span relates to real source text.
type SpanKind uint8

const (
	// SpanRange maps to literal text in a source file.
	SpanRange SpanKind = iota
	// SpanSynthetic has no source text (inserted by a tool, not typed by a user).
	SpanSynthetic
	// SpanTransparent carries a position but must be ignored for layout purposes.
	SpanTransparent
)

func (k SpanKind) String() string {
	switch k {
	case SpanRange:
		return "range"
	case SpanSynthetic:
		return "synthetic"
	case SpanTransparent:
		return "transparent"
	}
	return "unknown"
}

// Span is a half-open byte interval [Start, End) into one source file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
	Kind  SpanKind
}

// NewRange returns a span that maps to literal source text.
func NewRange(file FileID, start, end uint32) Span {
	return Span{File: file, Start: start, End: end, Kind: SpanRange}
}

// NewSynthetic returns a span for text that does not exist in the source.
func NewSynthetic(file FileID, pos uint32) Span {
	return Span{File: file, Start: pos, End: pos, Kind: SpanSynthetic}
}

// NewTransparent returns a positioned span that layout must skip over.
func NewTransparent(file FileID, start, end uint32) Span {
	return Span{File: file, Start: start, End: end, Kind: SpanTransparent}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

// IsRange reports whether the span maps to real source text.
func (s Span) IsRange() bool { return s.Kind == SpanRange }

// IsSynthetic reports whether the span stands for tool-inserted text.
func (s Span) IsSynthetic() bool { return s.Kind == SpanSynthetic }

// IsLayoutRelevant reports whether layout machinery may look at a node
// carrying this span. Transparent spans are subsumed by an ancestor.
func (s Span) IsLayoutRelevant() bool {
	return s.Kind == SpanRange || s.Kind == SpanSynthetic
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover extends s to include other. Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	if s.File != other.File {
		return false
	}
	return s.Start < other.End && other.Start < s.End
}

func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	s.Start -= n
	s.End -= n
	return s
}

func (s Span) ShiftRight(n uint32) Span {
	s.Start += n
	s.End += n
	return s
}
