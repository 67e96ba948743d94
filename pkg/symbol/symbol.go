// Package symbol provides interned names used as element, attribute and
// command keys throughout the translator.
package symbol

// Symbol is an interned string. Two symbols are equal only if they were
// interned by the same Table from the same text, so equality and map
// lookups never compare string contents.
type Symbol struct {
	p *entry
}

type entry struct {
	name string
	id   int
}

// Null is the zero Symbol. It names nothing and prints as "".
var Null Symbol

// String returns the canonical text of the symbol.
func (s Symbol) String() string {
	if s.p == nil {
		return ""
	}
	return s.p.name
}

// IsNull reports whether s is the zero Symbol.
func (s Symbol) IsNull() bool {
	return s.p == nil
}

// ID returns the allocation index of the symbol within its table, or -1 for Null.
func (s Symbol) ID() int {
	if s.p == nil {
		return -1
	}
	return s.p.id
}

// Table interns strings. The zero value is not usable; call NewTable.
type Table struct {
	byName map[string]Symbol
	all    []Symbol
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{byName: make(map[string]Symbol)}
}

// Intern returns the unique Symbol for name, creating it on first use.
func (t *Table) Intern(name string) Symbol {
	if s, ok := t.byName[name]; ok {
		return s
	}
	s := Symbol{p: &entry{name: name, id: len(t.all)}}
	t.byName[name] = s
	t.all = append(t.all, s)
	return s
}

// Lookup returns the Symbol for name without creating it.
func (t *Table) Lookup(name string) (Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// Len returns the number of interned symbols.
func (t *Table) Len() int {
	return len(t.all)
}

// ByID returns the symbol allocated at id, or Null when id is out of range.
func (t *Table) ByID(id int) Symbol {
	if id < 0 || id >= len(t.all) {
		return Null
	}
	return t.all[id]
}
