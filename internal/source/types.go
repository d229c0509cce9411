package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
// Content is treated as immutable once the file is added.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// Text returns the literal content of sp, or "" when sp does not map
// to real text in this file.
func (f *File) Text(sp Span) string {
	if f == nil || sp.File != f.ID || !sp.IsRange() {
		return ""
	}
	start, end := int(sp.Start), int(sp.End)
	if start < 0 || end > len(f.Content) || start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
