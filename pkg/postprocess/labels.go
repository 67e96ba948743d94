package postprocess

import "github.com/open-cli-collective/texml/pkg/diag"

// RemovedLabel records a defined but unreferenced label that vanished with
// the element carrying it.
type RemovedLabel struct {
	What string
	ID   string
}

type labelInfo struct {
	defined bool
	used    bool
}

// Labels tracks which element ids are defined and which are referenced, so
// that passes deleting elements can report dangling references.
type Labels struct {
	sink    *diag.Sink
	info    map[string]*labelInfo
	refs    []string
	removed []RemovedLabel
}

// NewLabels creates an empty registry.
func NewLabels(sink *diag.Sink) *Labels {
	return &Labels{sink: sink, info: make(map[string]*labelInfo)}
}

func (l *Labels) get(id string) *labelInfo {
	li, ok := l.info[id]
	if !ok {
		li = &labelInfo{}
		l.info[id] = li
	}
	return li
}

// Define records that an element carries id.
func (l *Labels) Define(id string) {
	l.get(id).defined = true
}

// Use records one reference to id.
func (l *Labels) Use(id string) {
	l.get(id).used = true
	l.refs = append(l.refs, id)
}

// Defined reports whether id is currently defined.
func (l *Labels) Defined(id string) bool {
	li, ok := l.info[id]
	return ok && li.defined
}

// Remove forgets id because the element carrying it, described by what, is
// going away. Every reference to it is reported as an error.
func (l *Labels) Remove(what, id string, loc diag.Location) {
	li, ok := l.info[id]
	if !ok {
		return
	}
	for _, r := range l.refs {
		if r == id && li.used {
			l.sink.Errorf(loc, "Removing `%s' made the following label disappear: %s", what, id)
		}
	}
	if li.defined && !li.used {
		li.defined = false
		l.removed = append(l.removed, RemovedLabel{What: what, ID: id})
	}
}

// Removed lists the unreferenced labels dropped so far.
func (l *Labels) Removed() []RemovedLabel {
	return l.removed
}

// Dangling lists referenced ids that are not defined, in reference order
// without repeats.
func (l *Labels) Dangling() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range l.refs {
		if seen[r] || l.Defined(r) {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
