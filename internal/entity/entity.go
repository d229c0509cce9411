// Package entity provides stable identity for named declarations.
//
// A Ref is allocated once per declaration and compares with ==, so callers
// never fall back to comparing textual positions.
package entity

import (
	"fmt"
)

// Ref identifies one declared entity. The zero value is NoRef.
type Ref struct {
	id uint32
}

// NoRef is the absent reference.
var NoRef = Ref{}

func (r Ref) IsValid() bool {
	return r.id != 0
}

func (r Ref) String() string {
	if !r.IsValid() {
		return "entity(none)"
	}
	return fmt.Sprintf("entity(%d)", r.id)
}

// Table allocates references and remembers the declared name for each.
type Table struct {
	names []string // names[0] reserved for NoRef
}

func NewTable() *Table {
	return &Table{names: []string{""}}
}

// Declare allocates a fresh reference for a named declaration. Two
// declarations with the same name still get distinct references.
func (t *Table) Declare(name string) Ref {
	r := Ref{id: uint32(len(t.names))}
	t.names = append(t.names, name)
	return r
}

// Name returns the declared name for a reference, or "" for NoRef.
func (t *Table) Name(r Ref) string {
	if int(r.id) >= len(t.names) {
		return ""
	}
	return t.names[r.id]
}

// Len returns the number of declared entities, NoRef included.
func (t *Table) Len() int {
	return len(t.names)
}
