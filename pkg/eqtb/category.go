// Package eqtb implements the scoped equivalence table: typed register
// banks with TeX grouping semantics, reference-counted macro bodies and the
// save stack that undoes local assignments on group exit.
package eqtb

import "fmt"

// Category partitions the equivalence table. Each category has its own bank
// of slots addressed by a stable integer index.
type Category int

const (
	Int Category = iota
	Dimen
	Glue
	TokenList
	Box
	Font
	Str
	Command

	numCategories
)

var categoryNames = [numCategories]string{
	Int:       "integer",
	Dimen:     "dimension",
	Glue:      "glue",
	TokenList: "token list",
	Box:       "box",
	Font:      "font",
	Str:       "string",
	Command:   "command",
}

// String returns the human readable category name.
func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory maps a short register name (count, dimen, skip, toks, box,
// font, string, cmd) or a full category name to its Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "count", "int", "integer":
		return Int, nil
	case "dimen", "dimension":
		return Dimen, nil
	case "skip", "glue":
		return Glue, nil
	case "toks", "tokens":
		return TokenList, nil
	case "box":
		return Box, nil
	case "font":
		return Font, nil
	case "string", "str":
		return Str, nil
	case "cmd", "command":
		return Command, nil
	}
	return 0, fmt.Errorf("unknown register category %q", s)
}

// registerPrefix is used when printing a slot in traces, e.g. \count3.
func (c Category) registerPrefix() string {
	switch c {
	case Int:
		return `\count`
	case Dimen:
		return `\dimen`
	case Glue:
		return `\skip`
	case TokenList:
		return `\toks`
	case Box:
		return `\box`
	case Font:
		return `\font`
	case Str:
		return `\string`
	}
	return `\cmd`
}
