package eqtb

// Macro is a reference-counted command body.
type Macro struct {
	Body Tokens
	refs int
	live bool
}

// MacroTable owns every user macro body. Command slots refer to entries by
// handle; a body is freed when the last slot or saved frame holding it lets
// go. Freed handles are reused.
type MacroTable struct {
	macros []Macro
	free   []int
}

// NewMacroTable creates an empty table.
func NewMacroTable() *MacroTable {
	return &MacroTable{}
}

// New stores body with a reference count of 0. The caller must either
// install the handle in a slot (which claims a reference) or Discard it.
func (m *MacroTable) New(body Tokens) int {
	mac := Macro{Body: body, live: true}
	if n := len(m.free); n > 0 {
		h := m.free[n-1]
		m.free = m.free[:n-1]
		m.macros[h] = mac
		return h
	}
	m.macros = append(m.macros, mac)
	return len(m.macros) - 1
}

// Incr claims one more reference.
func (m *MacroTable) Incr(h int) {
	if !m.Live(h) {
		return
	}
	m.macros[h].refs++
}

// Decr releases one reference and frees the body when none remain.
func (m *MacroTable) Decr(h int) {
	if !m.Live(h) {
		return
	}
	m.macros[h].refs--
	if m.macros[h].refs <= 0 {
		m.release(h)
	}
}

// Discard frees a body that was never installed.
func (m *MacroTable) Discard(h int) {
	if m.Live(h) && m.macros[h].refs == 0 {
		m.release(h)
	}
}

func (m *MacroTable) release(h int) {
	m.macros[h] = Macro{}
	m.free = append(m.free, h)
}

// Live reports whether h refers to an allocated body.
func (m *MacroTable) Live(h int) bool {
	return h >= 0 && h < len(m.macros) && m.macros[h].live
}

// Body returns the tokens of a live macro.
func (m *MacroTable) Body(h int) (Tokens, bool) {
	if !m.Live(h) {
		return nil, false
	}
	return m.macros[h].Body, true
}

// Refs returns the reference count of h, 0 when freed.
func (m *MacroTable) Refs(h int) int {
	if !m.Live(h) {
		return 0
	}
	return m.macros[h].refs
}

// Count returns the number of live bodies.
func (m *MacroTable) Count() int {
	return len(m.macros) - len(m.free)
}
