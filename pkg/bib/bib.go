// Package bib keeps the citation table: which (source, key) pairs were
// cited, the element id each one resolves to, and whether a bibliography
// entry has claimed it yet.
package bib

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadySolved is returned when a second entry claims a citation.
	ErrAlreadySolved = errors.New("bibliography entry already defined")
	// ErrHasID is returned when an entry with its own id claims a citation
	// that already received a generated id.
	ErrHasID = errors.New("cannot solve (element has an Id)")
)

// Item is one row of the citation table.
type Item struct {
	Source string
	Key    string
	ID     string
	Solved bool
}

// Table maps (source, key) pairs to ordinals. The first resolution of a
// pair wins; later lookups return the same ordinal.
type Table struct {
	items  []Item
	index  map[itemKey]int
	nextID int
}

type itemKey struct {
	source string
	key    string
}

// NewTable creates an empty citation table.
func NewTable() *Table {
	return &Table{index: make(map[itemKey]int)}
}

// FindCitationItem returns the ordinal of (source, key). When the pair is
// unknown it is added if insert is true; otherwise ok is false.
func (t *Table) FindCitationItem(source, key string, insert bool) (int, bool) {
	k := itemKey{source: source, key: key}
	if n, ok := t.index[k]; ok {
		return n, true
	}
	if !insert {
		return -1, false
	}
	t.items = append(t.items, Item{Source: source, Key: key})
	n := len(t.items) - 1
	t.index[k] = n
	return n, true
}

// ID returns the element id of citation n, allocating bid0, bid1, ... on
// first use.
func (t *Table) ID(n int) string {
	it := &t.items[n]
	if it.ID == "" {
		it.ID = fmt.Sprintf("bid%d", t.nextID)
		t.nextID++
	}
	return it.ID
}

// Solve marks citation n as claimed by a bibliography entry and returns the
// id that entry must carry. An entry that already has elementID keeps it,
// provided no id was generated for the citation before.
func (t *Table) Solve(n int, elementID string) (string, error) {
	it := &t.items[n]
	if it.Solved {
		return "", fmt.Errorf("%w %s", ErrAlreadySolved, it.Key)
	}
	if elementID != "" {
		if it.ID != "" && it.ID != elementID {
			return "", fmt.Errorf("%w %s", ErrHasID, it.Key)
		}
		it.ID = elementID
	}
	id := t.ID(n)
	it.Solved = true
	return id, nil
}

// Item returns a copy of citation n.
func (t *Table) Item(n int) Item {
	return t.items[n]
}

// Len returns the number of citations.
func (t *Table) Len() int {
	return len(t.items)
}

// Unsolved lists the keys of citations no entry has claimed, in citation
// order.
func (t *Table) Unsolved() []string {
	var out []string
	for _, it := range t.items {
		if !it.Solved {
			out = append(out, it.Key)
		}
	}
	return out
}
