package xmltree

import "github.com/open-cli-collective/texml/pkg/symbol"

// Attr is a single attribute.
type Attr struct {
	Name  symbol.Symbol
	Value string
}

// Attrs is an attribute list kept in insertion order. Setting an existing
// name replaces its value in place, so the order of first insertion is the
// order of output.
type Attrs []Attr

// Get returns the value of name.
func (a Attrs) Get(name symbol.Symbol) (string, bool) {
	for _, at := range a {
		if at.Name == name {
			return at.Value, true
		}
	}
	return "", false
}

// Has reports whether name is set.
func (a Attrs) Has(name symbol.Symbol) bool {
	_, ok := a.Get(name)
	return ok
}

// Set adds name=value or replaces the value of an existing name.
func (a *Attrs) Set(name symbol.Symbol, value string) {
	for i := range *a {
		if (*a)[i].Name == name {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attr{Name: name, Value: value})
}

// Delete removes name if present.
func (a *Attrs) Delete(name symbol.Symbol) {
	for i := range *a {
		if (*a)[i].Name == name {
			*a = append((*a)[:i], (*a)[i+1:]...)
			return
		}
	}
}

// CopyFrom sets every attribute of src except skip.
func (a *Attrs) CopyFrom(src Attrs, skip symbol.Symbol) {
	for _, at := range src {
		if at.Name == skip {
			continue
		}
		a.Set(at.Name, at.Value)
	}
}

func (a Attrs) clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	copy(out, a)
	return out
}
