package eqtb

import "fmt"

// BoundaryKind identifies what opened a group.
type BoundaryKind int

const (
	Brace BoundaryKind = iota
	Semisimple
	Environment
	TableParseAhead
	Math
	Cell
	Local
)

var boundaryNames = map[BoundaryKind]string{
	Brace:           "brace",
	Semisimple:      `\begingroup`,
	Environment:     "environment",
	TableParseAhead: "tpa",
	Math:            "math",
	Cell:            "cell",
	Local:           "local",
}

func (k BoundaryKind) String() string {
	if s, ok := boundaryNames[k]; ok {
		return s
	}
	return fmt.Sprintf("boundary(%d)", int(k))
}

// closerName is the name used when k is the thing doing the closing.
func (k BoundaryKind) closerName() string {
	if k == Semisimple {
		return `\endgroup`
	}
	return k.String()
}

// ParseBoundaryKind maps a kind name back to its value.
func ParseBoundaryKind(s string) (BoundaryKind, error) {
	for k, name := range boundaryNames {
		if name == s {
			return k, nil
		}
	}
	if s == "semisimple" {
		return Semisimple, nil
	}
	return 0, fmt.Errorf("unknown group kind %q", s)
}

// FrameKind tags a Frame.
type FrameKind int

const (
	BoundaryFrame FrameKind = iota
	RestoreFrame
	EnvNameFrame
)

// Frame is one save stack entry. Which fields are set depends on Kind:
//
//	BoundaryFrame: Boundary, Line, prevLevel
//	RestoreFrame:  Category, Index, Old, OldLevel, Line
//	EnvNameFrame:  EnvName, PrevEnv, PrevEnvLine, Line
type Frame struct {
	Kind FrameKind
	Line int

	Boundary  BoundaryKind
	prevLevel int

	Category Category
	Index    int
	Old      Value
	OldLevel int

	EnvName     string
	PrevEnv     string
	PrevEnvLine int
}

func (f Frame) describe() string {
	switch f.Kind {
	case BoundaryFrame:
		return "boundary"
	case EnvNameFrame:
		return "environment"
	}
	return f.Category.String()
}

// firstBoundary returns the index of the innermost boundary frame.
func (e *Engine) firstBoundary() (int, bool) {
	for i := len(e.stack) - 1; i >= 0; i-- {
		if e.stack[i].Kind == BoundaryFrame {
			return i, true
		}
	}
	return -1, false
}

func (e *Engine) pushFrame(f Frame) {
	e.stack = append(e.stack, f)
	e.stats.Pushes++
	if len(e.stack) > e.stats.MaxDepth {
		e.stats.MaxDepth = len(e.stack)
	}
}

func (e *Engine) popFrame() Frame {
	f := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	e.stats.Pops++
	return f
}

// unsave undoes one frame that is not a boundary.
func (e *Engine) unsave(f Frame) {
	switch f.Kind {
	case EnvNameFrame:
		e.envName = f.PrevEnv
		e.envLine = f.PrevEnvLine
	case RestoreFrame:
		s := e.store.at(f.Category, f.Index)
		if s.Level == 1 {
			e.trace("{retaining %s}", e.show(f.Category, f.Index, s.Value))
			if f.Category == Command && f.Old.Cmd.IsUser() {
				e.macros.Decr(f.Old.Cmd.Handle)
			}
			return
		}
		if f.Category == Command && s.Value.Cmd.IsUser() {
			e.macros.Decr(s.Value.Cmd.Handle)
		}
		s.Value = f.Old
		s.Level = f.OldLevel
		e.trace("{restoring %s}", e.show(f.Category, f.Index, f.Old))
	}
}
