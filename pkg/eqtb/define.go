package eqtb

import "github.com/open-cli-collective/texml/pkg/symbol"

// Redef says when a definition may replace an existing binding.
type Redef int

const (
	// RedefAlways is \def: any binding is replaced.
	RedefAlways Redef = iota
	// RedefIfDefined is \renewcommand: the name must already be bound.
	RedefIfDefined
	// RedefIfUndefined is \newcommand: the name must be free.
	RedefIfUndefined
	// RedefSkip is \providecommand: an existing binding silently wins.
	RedefSkip
	// RedefNever protects primitives; user macros may still be replaced.
	RedefNever
)

// Locate returns the command slot index of name, allocating it on first use.
func (e *Engine) Locate(name symbol.Symbol) int {
	if idx, ok := e.commands[name]; ok {
		return idx
	}
	idx := len(e.cmdNames)
	e.commands[name] = idx
	e.cmdNames = append(e.cmdNames, name)
	e.store.at(Command, idx)
	return idx
}

// LocateName interns name and returns its command slot index.
func (e *Engine) LocateName(name string) int {
	return e.Locate(e.symbols.Intern(name))
}

// Lookup returns the current binding of name.
func (e *Engine) Lookup(name symbol.Symbol) CommandValue {
	idx, ok := e.commands[name]
	if !ok {
		return CommandValue{}
	}
	return e.store.Get(Command, idx).Value.Cmd
}

// MacroBody returns the body bound to name, if name is a user macro.
func (e *Engine) MacroBody(name symbol.Symbol) (Tokens, bool) {
	cv := e.Lookup(name)
	if !cv.IsUser() {
		return nil, false
	}
	return e.macros.Body(cv.Handle)
}

// DefinePrimitive seeds a primitive binding at level 1. It is meant for boot
// time, before any group is open.
func (e *Engine) DefinePrimitive(name string, code, sub int) {
	idx := e.LocateName(name)
	s := e.store.at(Command, idx)
	*s = Slot{Value: CmdValue(PrimitiveCommand(code, sub)), Level: 1}
}

// Define binds name to a new macro with the given body. It returns false
// when redef forbids the definition; the body is then dropped.
func (e *Engine) Define(name symbol.Symbol, body Tokens, global bool, redef Redef) bool {
	h := e.macros.New(body)
	if !e.okToDefine(name, redef) {
		e.macros.Discard(h)
		return false
	}
	e.assign(Command, e.Locate(name), CmdValue(MacroCommand(h)), global)
	return true
}

func (e *Engine) okToDefine(name symbol.Symbol, redef Redef) bool {
	cur := e.Lookup(name)
	switch redef {
	case RedefIfDefined:
		if cur.IsUndefined() {
			e.errorf(`Cannot define \%s: undefined`, name)
			return false
		}
	case RedefIfUndefined:
		if !cur.IsUndefined() {
			e.errorf(`Cannot redefine \%s`, name)
			return false
		}
	case RedefSkip:
		return cur.IsUndefined()
	case RedefNever:
		if cur.Kind == Primitive {
			e.errorf(`Cannot redefine primitive \%s`, name)
			return false
		}
	}
	return true
}

// Let makes name an alias of target's current binding. A macro body is
// shared, not copied.
func (e *Engine) Let(name, target symbol.Symbol, global bool) {
	v := e.Lookup(target)
	e.assign(Command, e.Locate(name), CmdValue(v), global)
}
