package eqtb

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/open-cli-collective/texml/pkg/symbol"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

// Unity is one point in scaled points.
const Unity = 1 << 16

// Dimension is a length in scaled points (1pt = 65536sp).
type Dimension int32

// Points converts a number of points to a Dimension.
func Points(pt int) Dimension {
	return Dimension(pt * Unity)
}

// String prints the dimension the way TeX does, with the shortest decimal
// expansion that reads back to the same scaled value.
func (d Dimension) String() string {
	var sb strings.Builder
	s := int64(d)
	if s < 0 {
		sb.WriteByte('-')
		s = -s
	}
	fmt.Fprintf(&sb, "%d.", s/Unity)
	s = 10*(s%Unity) + 5
	delta := int64(10)
	for {
		if delta > Unity {
			s += 0x8000 - 50000
		}
		sb.WriteByte(byte('0' + s/Unity))
		s = 10 * (s % Unity)
		delta *= 10
		if s <= delta {
			break
		}
	}
	sb.WriteString("pt")
	return sb.String()
}

// GlueOrder is the infinity order of a stretch or shrink component.
type GlueOrder uint8

const (
	Normal GlueOrder = iota
	Fil
	Fill
	Filll
)

// GlueSpec is a skip register value.
type GlueSpec struct {
	Width        Dimension
	Stretch      Dimension
	Shrink       Dimension
	StretchOrder GlueOrder
	ShrinkOrder  GlueOrder
}

func glueComponent(d Dimension, o GlueOrder) string {
	if o == Normal {
		return d.String()
	}
	s := strings.TrimSuffix(d.String(), "pt")
	return s + "fi" + strings.Repeat("l", int(o))
}

// String prints "<w> plus <s> minus <s>", omitting zero components.
func (g GlueSpec) String() string {
	s := g.Width.String()
	if g.Stretch != 0 {
		s += " plus " + glueComponent(g.Stretch, g.StretchOrder)
	}
	if g.Shrink != 0 {
		s += " minus " + glueComponent(g.Shrink, g.ShrinkOrder)
	}
	return s
}

// CatCode is a TeX category code.
type CatCode uint8

const (
	CatEscape CatCode = iota
	CatBeginGroup
	CatEndGroup
	CatMath
	CatAlign
	CatEOL
	CatParam
	CatSuper
	CatSub
	CatIgnored
	CatSpace
	CatLetter
	CatOther
	CatActive
	CatComment
	CatInvalid
)

// Token is either a character with its category code or a control sequence
// referring to an interned name.
type Token uint32

const csFlag Token = 1 << 31

// CharToken builds a character token.
func CharToken(r rune, c CatCode) Token {
	return Token(uint32(c)<<21 | uint32(r))
}

// CSToken builds a control sequence token for name.
func CSToken(name symbol.Symbol) Token {
	return csFlag | Token(name.ID())
}

// IsCS reports whether t is a control sequence.
func (t Token) IsCS() bool { return t&csFlag != 0 }

// Char returns the character of a character token.
func (t Token) Char() rune { return rune(t & 0x1FFFFF) }

// Cat returns the category code of a character token.
func (t Token) Cat() CatCode { return CatCode((t &^ csFlag) >> 21) }

// SymbolID returns the symbol id of a control sequence token.
func (t Token) SymbolID() int { return int(t &^ csFlag) }

// Tokens is a token list, the value of a \toks register or a macro body.
type Tokens []Token

// Tokenize converts source text into tokens using the default category
// codes. Control sequence names are interned in tbl.
func Tokenize(src string, tbl *symbol.Table) Tokens {
	var out Tokens
	rs := []rune(src)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != '\\' {
			out = append(out, CharToken(r, defaultCat(r)))
			continue
		}
		j := i + 1
		for j < len(rs) && unicode.IsLetter(rs[j]) {
			j++
		}
		if j == i+1 && j < len(rs) {
			j++
		}
		out = append(out, CSToken(tbl.Intern(string(rs[i+1:j]))))
		i = j - 1
	}
	return out
}

func defaultCat(r rune) CatCode {
	switch {
	case r == '{':
		return CatBeginGroup
	case r == '}':
		return CatEndGroup
	case r == '$':
		return CatMath
	case r == '&':
		return CatAlign
	case r == '#':
		return CatParam
	case r == '^':
		return CatSuper
	case r == '_':
		return CatSub
	case r == ' ' || r == '\t' || r == '\n':
		return CatSpace
	case r == '~':
		return CatActive
	case r == '%':
		return CatComment
	case unicode.IsLetter(r):
		return CatLetter
	}
	return CatOther
}

// Format prints the token list, resolving control sequence names in tbl.
// A control sequence made of letters is followed by a space, as TeX shows it.
func (tl Tokens) Format(tbl *symbol.Table) string {
	var sb strings.Builder
	for _, t := range tl {
		if !t.IsCS() {
			sb.WriteRune(t.Char())
			continue
		}
		name := tbl.ByID(t.SymbolID()).String()
		sb.WriteByte('\\')
		sb.WriteString(name)
		if isLetters(name) {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// FontSpec is the value of a font slot: a packed font number and a color.
type FontSpec struct {
	Packed int
	Color  string
}

func (f FontSpec) String() string {
	if f.Color == "" {
		return fmt.Sprintf("font%d", f.Packed)
	}
	return fmt.Sprintf("font%d/%s", f.Packed, f.Color)
}

// CommandKind tags a CommandValue.
type CommandKind uint8

const (
	Undefined CommandKind = iota
	Primitive
	UserMacro
)

// CommandValue is the binding of a control sequence: a primitive (code,
// subtype) pair or a handle into the MacroTable.
type CommandValue struct {
	Kind   CommandKind
	Code   int
	Sub    int
	Handle int
}

// PrimitiveCommand builds a primitive binding.
func PrimitiveCommand(code, sub int) CommandValue {
	return CommandValue{Kind: Primitive, Code: code, Sub: sub}
}

// MacroCommand builds a binding to a macro body.
func MacroCommand(handle int) CommandValue {
	return CommandValue{Kind: UserMacro, Handle: handle}
}

// IsUser reports whether the binding refers to a MacroTable entry.
func (c CommandValue) IsUser() bool { return c.Kind == UserMacro }

// IsUndefined reports whether the binding is empty.
func (c CommandValue) IsUndefined() bool { return c.Kind == Undefined }

// Value is the content of one slot. Only the field matching the slot's
// category is meaningful.
type Value struct {
	Int    int
	Dimen  Dimension
	Glue   GlueSpec
	Tokens Tokens
	Box    *xmltree.Node
	Font   FontSpec
	Str    string
	Cmd    CommandValue
}

// IntValue wraps an integer.
func IntValue(n int) Value { return Value{Int: n} }

// DimenValue wraps a dimension.
func DimenValue(d Dimension) Value { return Value{Dimen: d} }

// GlueValue wraps a glue specification.
func GlueValue(g GlueSpec) Value { return Value{Glue: g} }

// TokensValue wraps a token list.
func TokensValue(tl Tokens) Value { return Value{Tokens: tl} }

// BoxValue wraps a box; nil is the void box.
func BoxValue(n *xmltree.Node) Value { return Value{Box: n} }

// FontValue wraps a font.
func FontValue(f FontSpec) Value { return Value{Font: f} }

// StrValue wraps a string.
func StrValue(s string) Value { return Value{Str: s} }

// CmdValue wraps a command binding.
func CmdValue(c CommandValue) Value { return Value{Cmd: c} }
