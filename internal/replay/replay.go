// Package replay drives an eqtb.Engine from a line-oriented scope script.
//
// Each non-blank line is one statement; '%' and '#' start a comment line.
//
//	{  }  begingroup  endgroup       open/close brace and semisimple groups
//	begin <env>  end <env>           environments
//	push <kind>  pop <kind>          any group kind (math, cell, local, ...)
//	set|gset <cat> <idx> <value>     local/global register assignment
//	def|gdef <name> <body>           macro definition
//	newcommand|renewcommand|providecommand <name> <body>
//	let|glet <name> <target>         alias a command
//	show <cat> <idx|name>            print a slot
//	dump                             print the open groups
//	speculate ... endspeculate       run a block inside a table-parse-ahead
//	                                 boundary
//
// Script errors (unknown statements, bad values) stop the run. Anomalies in
// the grouping itself are the engine's business and go to its diagnostics.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/open-cli-collective/texml/pkg/eqtb"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

type statement struct {
	line int
	op   string
	args []string
	rest string
}

type slotRef struct {
	cat eqtb.Category
	idx int
}

// Replayer runs scripts against one engine.
type Replayer struct {
	engine  *eqtb.Engine
	output  []string
	touched []slotRef
	seen    map[slotRef]bool
}

// New creates a replayer for engine.
func New(engine *eqtb.Engine) *Replayer {
	return &Replayer{engine: engine, seen: make(map[slotRef]bool)}
}

// Engine returns the engine being driven.
func (r *Replayer) Engine() *eqtb.Engine { return r.engine }

// Output returns the lines printed by show, dump and speculate.
func (r *Replayer) Output() []string { return r.output }

// Run parses and executes a script.
func (r *Replayer) Run(src io.Reader) error {
	stmts, err := parse(src)
	if err != nil {
		return err
	}
	return r.exec(stmts)
}

// Finish closes whatever the script left open, reporting it.
func (r *Replayer) Finish() {
	r.engine.FinalUnwind()
}

// Values shows every slot the script assigned, in first-assignment order.
func (r *Replayer) Values() []string {
	out := make([]string, 0, len(r.touched))
	for _, s := range r.touched {
		out = append(out, r.engine.Show(s.cat, s.idx))
	}
	return out
}

func parse(src io.Reader) ([]statement, error) {
	var stmts []statement
	sc := bufio.NewScanner(src)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '%' || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		st := statement{line: n, op: fields[0], args: fields[1:]}
		st.rest = strings.TrimSpace(strings.TrimPrefix(text, fields[0]))
		stmts = append(stmts, st)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return stmts, nil
}

// exec runs stmts in order. An *eqtb.UnwindError from a closing brace
// stops the block and is passed up to the speculate that owns it.
func (r *Replayer) exec(stmts []statement) error {
	for i := 0; i < len(stmts); i++ {
		st := stmts[i]
		r.engine.SetLine(st.line)
		if st.op == "speculate" {
			end, err := matchingEnd(stmts, i)
			if err != nil {
				return err
			}
			if err := r.speculate(st, stmts[i+1:end]); err != nil {
				return err
			}
			i = end
			continue
		}
		if err := r.step(st); err != nil {
			var uw *eqtb.UnwindError
			if errors.As(err, &uw) {
				return err
			}
			return fmt.Errorf("line %d: %w", st.line, err)
		}
	}
	return nil
}

func matchingEnd(stmts []statement, start int) (int, error) {
	depth := 0
	for j := start; j < len(stmts); j++ {
		switch stmts[j].op {
		case "speculate":
			depth++
		case "endspeculate":
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}
	return 0, fmt.Errorf("line %d: speculate without endspeculate", stmts[start].line)
}

func (r *Replayer) speculate(st statement, body []statement) error {
	completed, err := r.engine.Speculate(func() error {
		return r.exec(body)
	})
	if err != nil {
		return err
	}
	if completed {
		r.output = append(r.output, fmt.Sprintf("speculation from line %d completed", st.line))
	} else {
		r.output = append(r.output, fmt.Sprintf("speculation from line %d cancelled at level %d", st.line, r.engine.Level()))
	}
	return nil
}

func (r *Replayer) step(st statement) error {
	e := r.engine
	switch st.op {
	case "{":
		e.PushGroup(eqtb.Brace)
	case "}":
		return e.PopGroup(eqtb.Brace)
	case "begingroup":
		e.PushGroup(eqtb.Semisimple)
	case "endgroup":
		return e.PopGroup(eqtb.Semisimple)
	case "begin":
		if err := want(st, 1); err != nil {
			return err
		}
		e.BeginEnvironment(st.args[0])
	case "end":
		if err := want(st, 1); err != nil {
			return err
		}
		return e.EndEnvironment(st.args[0])
	case "push", "pop":
		if err := want(st, 1); err != nil {
			return err
		}
		kind, err := eqtb.ParseBoundaryKind(st.args[0])
		if err != nil {
			return err
		}
		if st.op == "pop" {
			return e.PopGroup(kind)
		}
		e.PushGroup(kind)
	case "set", "gset":
		return r.set(st, st.op == "gset")
	case "def", "gdef", "newcommand", "renewcommand", "providecommand":
		if len(st.args) < 1 {
			return fmt.Errorf("%s needs a name", st.op)
		}
		body := afterFields(st.rest, 1)
		redef := map[string]eqtb.Redef{
			"def":            eqtb.RedefAlways,
			"gdef":           eqtb.RedefAlways,
			"newcommand":     eqtb.RedefIfUndefined,
			"renewcommand":   eqtb.RedefIfDefined,
			"providecommand": eqtb.RedefSkip,
		}[st.op]
		name := e.Symbols().Intern(csName(st.args[0]))
		e.Define(name, eqtb.Tokenize(body, e.Symbols()), st.op == "gdef", redef)
		r.touch(eqtb.Command, e.Locate(name))
	case "let", "glet":
		if err := want(st, 2); err != nil {
			return err
		}
		name := e.Symbols().Intern(csName(st.args[0]))
		e.Let(name, e.Symbols().Intern(csName(st.args[1])), st.op == "glet")
		r.touch(eqtb.Command, e.Locate(name))
	case "show":
		if err := want(st, 2); err != nil {
			return err
		}
		c, idx, err := r.slot(st.args[0], st.args[1])
		if err != nil {
			return err
		}
		r.output = append(r.output, e.Show(c, idx))
	case "dump":
		r.output = append(r.output, e.Dump()...)
	case "endspeculate":
		return fmt.Errorf("endspeculate without speculate")
	default:
		return fmt.Errorf("unknown statement %q", st.op)
	}
	return nil
}

func want(st statement, n int) error {
	if len(st.args) != n {
		return fmt.Errorf("%s takes %d argument(s), got %d", st.op, n, len(st.args))
	}
	return nil
}

// afterFields drops the first n blank-separated fields of s.
func afterFields(s string, n int) string {
	s = strings.TrimSpace(s)
	for ; n > 0; n-- {
		i := strings.IndexAny(s, " \t")
		if i < 0 {
			return ""
		}
		s = strings.TrimSpace(s[i:])
	}
	return s
}

func csName(s string) string {
	return strings.TrimPrefix(s, `\`)
}

func (r *Replayer) touch(c eqtb.Category, idx int) {
	s := slotRef{cat: c, idx: idx}
	if !r.seen[s] {
		r.seen[s] = true
		r.touched = append(r.touched, s)
	}
}

// slot resolves "<cat> <idx>"; command slots may be given by name.
func (r *Replayer) slot(cat, index string) (eqtb.Category, int, error) {
	c, err := eqtb.ParseCategory(cat)
	if err != nil {
		return 0, 0, err
	}
	idx, err := strconv.Atoi(index)
	if err != nil {
		if c != eqtb.Command {
			return 0, 0, fmt.Errorf("invalid register index %q", index)
		}
		idx = r.engine.LocateName(csName(index))
	}
	return c, idx, nil
}

func (r *Replayer) set(st statement, global bool) error {
	if len(st.args) < 3 {
		return fmt.Errorf("%s needs a category, an index and a value", st.op)
	}
	c, idx, err := r.slot(st.args[0], st.args[1])
	if err != nil {
		return err
	}
	v, err := r.value(c, afterFields(st.rest, 2))
	if err != nil {
		return err
	}
	r.engine.Assign(c, idx, v, global)
	if c == eqtb.Command || (idx >= 0 && idx < eqtb.MaxRegister) {
		r.touch(c, idx)
	}
	return nil
}

func (r *Replayer) value(c eqtb.Category, raw string) (eqtb.Value, error) {
	switch c {
	case eqtb.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return eqtb.Value{}, fmt.Errorf("invalid integer %q", raw)
		}
		return eqtb.IntValue(n), nil
	case eqtb.Dimen:
		d, err := eqtb.ParseDimension(raw)
		if err != nil {
			return eqtb.Value{}, err
		}
		return eqtb.DimenValue(d), nil
	case eqtb.Glue:
		g, err := eqtb.ParseGlue(raw)
		if err != nil {
			return eqtb.Value{}, err
		}
		return eqtb.GlueValue(g), nil
	case eqtb.TokenList:
		return eqtb.TokensValue(eqtb.Tokenize(raw, r.engine.Symbols())), nil
	case eqtb.Box:
		if raw == "void" {
			return eqtb.BoxValue(nil), nil
		}
		return eqtb.BoxValue(xmltree.NewElement(r.engine.Symbols().Intern(raw))), nil
	case eqtb.Font:
		num, color, _ := strings.Cut(raw, "/")
		n, err := strconv.Atoi(num)
		if err != nil {
			return eqtb.Value{}, fmt.Errorf("invalid font %q", raw)
		}
		return eqtb.FontValue(eqtb.FontSpec{Packed: n, Color: color}), nil
	case eqtb.Str:
		return eqtb.StrValue(raw), nil
	}
	return eqtb.Value{}, fmt.Errorf("cannot set %s slots, use def or let", c)
}
