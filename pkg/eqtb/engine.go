package eqtb

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/open-cli-collective/texml/pkg/diag"
	"github.com/open-cli-collective/texml/pkg/symbol"
)

// UnwindError is returned by PopGroup when a closing brace meets a
// table-parse-ahead boundary. The boundary and everything above it have
// already been popped; Level is the nesting level in force again.
type UnwindError struct {
	Level int
}

func (e *UnwindError) Error() string {
	return fmt.Sprintf("speculative parse cancelled, back to level %d", e.Level)
}

// Stats counts save stack traffic.
type Stats struct {
	Pushes   int
	Pops     int
	MaxDepth int
}

// Engine is the scope interpreter: it owns the equivalence table, the macro
// table and the save stack, and applies TeX grouping rules to every
// assignment. An Engine is not safe for concurrent use.
type Engine struct {
	store   *Store
	macros  *MacroTable
	symbols *symbol.Table
	stack   []Frame

	commands map[symbol.Symbol]int
	cmdNames []symbol.Symbol

	level   int
	line    int
	file    string
	envName string
	envLine int
	outer   int

	sink   *diag.Sink
	tracer *log.Logger
	stats  Stats
}

// NewEngine creates an engine at level 1 with an empty save stack. A nil
// sink gets replaced by a silent one; a nil symbol table by a fresh one.
func NewEngine(sink *diag.Sink, symbols *symbol.Table) *Engine {
	if sink == nil {
		sink = diag.New(nil)
	}
	if symbols == nil {
		symbols = symbol.NewTable()
	}
	return &Engine{
		store:    NewStore(DefaultSizes),
		macros:   NewMacroTable(),
		symbols:  symbols,
		commands: make(map[symbol.Symbol]int),
		level:    1,
		outer:    -1,
		sink:     sink,
	}
}

// Level returns the current nesting level.
func (e *Engine) Level() int { return e.level }

// Depth returns the number of frames on the save stack.
func (e *Engine) Depth() int { return len(e.stack) }

// Frames returns a copy of the save stack, bottom first.
func (e *Engine) Frames() []Frame {
	out := make([]Frame, len(e.stack))
	copy(out, e.stack)
	return out
}

// Symbols exposes the symbol table used for command names.
func (e *Engine) Symbols() *symbol.Table { return e.symbols }

// Stats returns the save stack counters.
func (e *Engine) Stats() Stats { return e.stats }

// EnvName returns the name of the innermost open environment.
func (e *Engine) EnvName() string { return e.envName }

// SetLine sets the source line recorded in new frames and diagnostics.
func (e *Engine) SetLine(n int) { e.line = n }

// SetFile sets the source file named in diagnostics.
func (e *Engine) SetFile(f string) { e.file = f }

// SetTracer enables assignment and group tracing; nil disables it.
func (e *Engine) SetTracer(l *log.Logger) { e.tracer = l }

func (e *Engine) loc() diag.Location {
	return diag.Location{Line: e.line, File: e.file}
}

func (e *Engine) errorf(format string, args ...interface{}) {
	e.sink.Errorf(e.loc(), format, args...)
}

// Get returns a copy of a slot.
func (e *Engine) Get(c Category, idx int) Slot {
	return e.store.Get(c, idx)
}

// PushGroup opens a group of the given kind.
func (e *Engine) PushGroup(kind BoundaryKind) {
	e.pushFrame(Frame{Kind: BoundaryFrame, Boundary: kind, Line: e.line, prevLevel: e.level})
	e.level++
	e.trace("+stack: level + %d for %s entered on line %d", e.level, kind, e.line)
}

// PushSpeculative opens a table-parse-ahead boundary. The level does not
// change: the boundary only marks how far a cancelled parse backs out.
func (e *Engine) PushSpeculative() {
	e.pushFrame(Frame{Kind: BoundaryFrame, Boundary: TableParseAhead, Line: e.line, prevLevel: e.level})
	e.trace("+stack: level = %d for %s", e.level, TableParseAhead)
}

// BeginEnvironment opens an environment group named name.
func (e *Engine) BeginEnvironment(name string) {
	e.PushGroup(Environment)
	e.pushFrame(Frame{
		Kind:        EnvNameFrame,
		Line:        e.line,
		EnvName:     name,
		PrevEnv:     e.envName,
		PrevEnvLine: e.envLine,
	})
	e.envName = name
	e.envLine = e.line
}

// StartDocument opens the implicit outermost group. FinalUnwind does not
// report it as unclosed.
func (e *Engine) StartDocument() {
	e.outer = len(e.stack)
	e.BeginEnvironment("document")
}

// EndEnvironment closes the innermost environment. A name that does not match
// the open environment is reported but the group is popped anyway.
func (e *Engine) EndEnvironment(name string) error {
	return e.popGroup(Environment, name)
}

// PopGroup closes the innermost group. Only a brace closing a
// table-parse-ahead boundary yields an error, an *UnwindError; every other
// anomaly is reported to the diagnostics sink.
func (e *Engine) PopGroup(expected BoundaryKind) error {
	return e.popGroup(expected, "")
}

func (e *Engine) popGroup(expected BoundaryKind, endName string) error {
	i, ok := e.firstBoundary()
	if !ok {
		switch expected {
		case Brace:
			e.errorf("Extra }")
		case Semisimple:
			e.errorf(`Extra \endgroup`)
		default:
			e.errorf("Empty save stack")
		}
		return nil
	}
	found := e.stack[i].Boundary
	unwind := false
	if found != expected {
		switch {
		case expected == Brace && found == TableParseAhead:
			unwind = true
		case found == Environment:
			e.errorf("Extra %s found in unclosed environment %s", expected.closerName(), e.envName)
			return nil
		default:
			e.errorf("Wrong group delimiter: %s instead of %s", expected.closerName(), found.closerName())
		}
	}
	if expected == Environment && endName != "" && endName != e.envName {
		e.errorf("Environment '%s' started at line %d ended by \\end{%s}", e.envName, e.envLine, endName)
	}
	for {
		if len(e.stack) == 0 {
			e.errorf("Internal error: empty save stack")
			return nil
		}
		f := e.popFrame()
		if f.Kind != BoundaryFrame {
			e.unsave(f)
			continue
		}
		from := e.level
		e.level = f.prevLevel
		if e.outer >= len(e.stack) {
			e.outer = -1
		}
		if f.Boundary == TableParseAhead {
			e.trace("+stack: level = %d for %s from line %d", e.level, f.Boundary, f.Line)
		} else {
			e.trace("+stack: level - %d for %s from line %d", from, f.Boundary, f.Line)
		}
		if unwind {
			return &UnwindError{Level: e.level}
		}
		return nil
	}
}

// Speculate runs fn inside a table-parse-ahead boundary. If a closing brace
// inside fn reaches that boundary, PopGroup returns an *UnwindError that fn
// must pass back up; Speculate catches it and reports completed == false.
// When fn returns normally, whatever fn left open above the boundary is
// discarded together with the boundary and completed is true. Other errors
// from fn are returned after the same cleanup.
func (e *Engine) Speculate(fn func() error) (completed bool, err error) {
	base := len(e.stack)
	e.PushSpeculative()
	err = fn()
	var uw *UnwindError
	if errors.As(err, &uw) && len(e.stack) == base {
		return false, nil
	}
	e.discardTo(base)
	if err != nil {
		return false, err
	}
	return true, nil
}

// discardTo pops frames, restoring values, until the stack has depth n.
func (e *Engine) discardTo(n int) {
	for len(e.stack) > n {
		f := e.popFrame()
		if f.Kind == BoundaryFrame {
			e.level = f.prevLevel
			continue
		}
		e.unsave(f)
	}
	if e.outer >= len(e.stack) {
		e.outer = -1
	}
}

// FinalUnwind closes everything at end of input. Every group still open
// above the implicit outermost one is reported in a single diagnostic, each
// counting as one error. The stack is then emptied, restoring values, and
// the outermost group is opened again.
func (e *Engine) FinalUnwind() {
	var parts []string
	ename := ""
	for i := len(e.stack) - 1; i > e.outer; i-- {
		f := e.stack[i]
		switch f.Kind {
		case EnvNameFrame:
			ename = f.EnvName
		case BoundaryFrame:
			msg := fmt.Sprintf("Non-closed %s", f.Boundary)
			if f.Boundary == Environment {
				msg += fmt.Sprintf(" `%s'", ename)
			}
			parts = append(parts, fmt.Sprintf("%s started at line %d", msg, f.Line))
		}
	}
	if len(parts) > 0 {
		e.errorf("%s", strings.Join(parts, ".\n"))
		for range parts[1:] {
			e.sink.CountError()
		}
	}
	e.discardTo(0)
	e.level = 1
	e.StartDocument()
}

// FinalCheck reports frames left on the stack once processing is over,
// ignoring the implicit outermost group and a pending font change. It
// returns the report lines, which are also traced.
func (e *Engine) FinalCheck() []string {
	frames := e.stack
	if e.outer >= 0 {
		frames = frames[e.outer+2:]
	}
	if len(frames) == 1 && frames[0].Kind == RestoreFrame && frames[0].Category == Font {
		frames = nil
	}
	if len(frames) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("Number of items on the save stack: %d", len(frames))}
	var b strings.Builder
	for i := len(frames) - 1; i >= 0; i-- {
		item := fmt.Sprintf("%s at %d", frames[i].describe(), frames[i].Line)
		switch {
		case b.Len() == 0:
			b.WriteString("  " + item)
		case b.Len()+len(item) < 78:
			b.WriteString("; " + item)
		default:
			lines = append(lines, b.String())
			b.Reset()
			b.WriteString("  " + item)
		}
	}
	lines = append(lines, b.String()+".")
	for _, l := range lines {
		e.trace("%s", l)
	}
	return lines
}

// Dump lists open groups, innermost first.
func (e *Engine) Dump() []string {
	var out []string
	level := e.level
	for i := len(e.stack) - 1; i >= 0; i-- {
		f := e.stack[i]
		if f.Kind != BoundaryFrame {
			continue
		}
		out = append(out, fmt.Sprintf("### %s group (level %d) entered on line %d", f.Boundary, level, f.Line))
		level = f.prevLevel
	}
	return append(out, "### bottom level")
}
