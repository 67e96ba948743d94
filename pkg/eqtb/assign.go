package eqtb

import "github.com/open-cli-collective/texml/pkg/xmltree"

// LocalAssign sets a slot for the rest of the current group. The first write
// to a slot within a level saves its previous state; later writes at the
// same level overwrite in place.
func (e *Engine) LocalAssign(c Category, idx int, v Value) {
	e.assign(c, idx, v, false)
}

// GlobalAssign sets a slot at level 1. No frame is pushed, so the value
// survives every enclosing group.
func (e *Engine) GlobalAssign(c Category, idx int, v Value) {
	e.assign(c, idx, v, true)
}

// Assign dispatches to LocalAssign or GlobalAssign.
func (e *Engine) Assign(c Category, idx int, v Value, global bool) {
	e.assign(c, idx, v, global)
}

// MaxRegister bounds register indexes in every category but Command, whose
// slots are allocated by Locate.
const MaxRegister = 32768

func (e *Engine) assign(c Category, idx int, v Value, global bool) {
	if idx < 0 || (c != Command && idx >= MaxRegister) {
		e.errorf("Bad register code %d for %s", idx, c)
		return
	}
	s := e.store.at(c, idx)
	e.traceChange(c, idx, s.Value, v, global)
	// The new reference is claimed first so rebinding a name to the body it
	// already holds never drops the count to zero.
	if c == Command && v.Cmd.IsUser() {
		e.macros.Incr(v.Cmd.Handle)
	}
	if !global && s.Level != e.level {
		e.pushFrame(Frame{
			Kind:     RestoreFrame,
			Line:     e.line,
			Category: c,
			Index:    idx,
			Old:      s.Value,
			OldLevel: s.Level,
		})
	} else if c == Command && s.Value.Cmd.IsUser() {
		e.macros.Decr(s.Value.Cmd.Handle)
	}
	level := e.level
	if global {
		level = 1
	}
	// pushFrame never touches the store, so s is still valid.
	*s = Slot{Value: v, Level: level}
}

// SetCount assigns an integer register.
func (e *Engine) SetCount(idx, n int, global bool) {
	e.assign(Int, idx, IntValue(n), global)
}

// Count reads an integer register.
func (e *Engine) Count(idx int) int { return e.store.Get(Int, idx).Value.Int }

// SetDimen assigns a dimension register.
func (e *Engine) SetDimen(idx int, d Dimension, global bool) {
	e.assign(Dimen, idx, DimenValue(d), global)
}

// Dimen reads a dimension register.
func (e *Engine) Dimen(idx int) Dimension { return e.store.Get(Dimen, idx).Value.Dimen }

// SetGlue assigns a glue register.
func (e *Engine) SetGlue(idx int, g GlueSpec, global bool) {
	e.assign(Glue, idx, GlueValue(g), global)
}

// Glue reads a glue register.
func (e *Engine) Glue(idx int) GlueSpec { return e.store.Get(Glue, idx).Value.Glue }

// SetToks assigns a token list register.
func (e *Engine) SetToks(idx int, tl Tokens, global bool) {
	e.assign(TokenList, idx, TokensValue(tl), global)
}

// Toks reads a token list register.
func (e *Engine) Toks(idx int) Tokens { return e.store.Get(TokenList, idx).Value.Tokens }

// SetStr assigns a string register.
func (e *Engine) SetStr(idx int, s string, global bool) {
	e.assign(Str, idx, StrValue(s), global)
}

// Str reads a string register.
func (e *Engine) Str(idx int) string { return e.store.Get(Str, idx).Value.Str }

// SetBox assigns a box register; nil empties it.
func (e *Engine) SetBox(idx int, n *xmltree.Node, global bool) {
	e.assign(Box, idx, BoxValue(n), global)
}

// Box reads a box register.
func (e *Engine) Box(idx int) *xmltree.Node { return e.store.Get(Box, idx).Value.Box }

// SetFont changes the current font for the rest of the group.
func (e *Engine) SetFont(f FontSpec) {
	e.assign(Font, 0, FontValue(f), false)
}

// CurrentFont returns the current font.
func (e *Engine) CurrentFont() FontSpec { return e.store.Get(Font, 0).Value.Font }
