package eqtb

import "fmt"

func (e *Engine) trace(format string, args ...interface{}) {
	if e.tracer == nil {
		return
	}
	e.tracer.Printf(format, args...)
}

func (e *Engine) traceChange(c Category, idx int, old, v Value, global bool) {
	if e.tracer == nil {
		return
	}
	verb := "changing"
	if global {
		verb = "globally changing"
	}
	e.trace("{%s %s into %s}", verb, e.show(c, idx, old), e.show(c, idx, v))
}

// Show formats a slot the way traces print it, e.g. \count3=5.
func (e *Engine) Show(c Category, idx int) string {
	return e.show(c, idx, e.store.Get(c, idx).Value)
}

func (e *Engine) show(c Category, idx int, v Value) string {
	if c == Command {
		name := fmt.Sprintf(`\cmd%d`, idx)
		if idx < len(e.cmdNames) {
			name = `\` + e.cmdNames[idx].String()
		}
		return name + "=" + e.showCommand(v.Cmd)
	}
	lhs := fmt.Sprintf("%s%d", c.registerPrefix(), idx)
	if c == Font {
		lhs = `\font`
	}
	return lhs + "=" + e.showValue(c, v)
}

func (e *Engine) showValue(c Category, v Value) string {
	switch c {
	case Int:
		return fmt.Sprint(v.Int)
	case Dimen:
		return v.Dimen.String()
	case Glue:
		return v.Glue.String()
	case TokenList:
		return v.Tokens.Format(e.symbols)
	case Box:
		if v.Box == nil {
			return "void"
		}
		return "<" + v.Box.Name.String() + ">"
	case Font:
		return v.Font.String()
	case Str:
		return v.Str
	}
	return e.showCommand(v.Cmd)
}

func (e *Engine) showCommand(cv CommandValue) string {
	switch cv.Kind {
	case Primitive:
		return fmt.Sprintf("primitive(%d,%d)", cv.Code, cv.Sub)
	case UserMacro:
		body, ok := e.macros.Body(cv.Handle)
		if !ok {
			return "macro:->?"
		}
		return "macro:->" + body.Format(e.symbols)
	}
	return "undefined"
}
