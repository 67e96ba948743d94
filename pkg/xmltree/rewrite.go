package xmltree

import "github.com/open-cli-collective/texml/pkg/symbol"

// Action is what a rewrite pass does to each element it matches.
type Action int

const (
	// ActionContains stops at the first match and sets Result.Found.
	ActionContains Action = iota
	// ActionReturnFirst stops at the first match and returns it.
	ActionReturnFirst
	// ActionReturnFirstAndDetach also removes the match from its parent.
	ActionReturnFirstAndDetach

	// ActionDelete removes every match without looking inside it.
	ActionDelete
	// ActionDeleteIfWhitespaceOnly removes matches whose children are all
	// blank text; other matches are searched.
	ActionDeleteIfWhitespaceOnly
	// ActionCount counts matches, nested ones included.
	ActionCount
	// ActionRename renames every match to Rule.NewName.
	ActionRename
	// ActionSubstitute replaces each match by a copy of Rule.Replacement.
	ActionSubstitute
	// ActionMoveAllTo detaches every match and appends it to Rule.Target.
	ActionMoveAllTo
	// ActionExpandComposition splices the children of each match in its
	// place. Children named Rule.Head go to Result.Heads instead.
	ActionExpandComposition
)

// Rule is one rewrite pass: the element name to match and what to do.
// Text, comment and PI leaves never match.
type Rule struct {
	Match       symbol.Symbol
	Action      Action
	NewName     symbol.Symbol
	Replacement *Node
	// Target must not be inside the tree being traversed.
	Target *Node
	Head   symbol.Symbol
	// OnExpand, when set, sees each composition node before it is spliced.
	OnExpand func(*Node)
}

// Result collects what a pass found.
type Result struct {
	Found bool
	Node  *Node
	Count int
	Heads []*Node
}

type cursor struct {
	n *Node
	i int
}

// ApplyFirst walks the descendants of root depth first, in document order,
// and acts on the first element named r.Match. Only ActionContains,
// ActionReturnFirst and ActionReturnFirstAndDetach are meaningful here.
func ApplyFirst(root *Node, r Rule) Result {
	stack := []cursor{{n: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.i >= len(top.n.Children) {
			stack = stack[:len(stack)-1]
			continue
		}
		parent, k := top.n, top.i
		c := parent.Children[k]
		top.i++
		if c.Kind != ElementNode {
			continue
		}
		if c.Name == r.Match {
			switch r.Action {
			case ActionContains:
				return Result{Found: true}
			case ActionReturnFirst:
				return Result{Found: true, Node: c}
			case ActionReturnFirstAndDetach:
				parent.RemoveAt(k)
				return Result{Found: true, Node: c}
			}
		}
		stack = append(stack, cursor{n: c})
	}
	return Result{}
}

// ApplyAll walks the descendants of root depth first, in document order,
// and acts on every element named r.Match. Removing or splicing at a
// position never skips or revisits a sibling.
func ApplyAll(root *Node, r Rule) Result {
	var res Result
	stack := []cursor{{n: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.i >= len(top.n.Children) {
			stack = stack[:len(stack)-1]
			continue
		}
		parent, k := top.n, top.i
		c := parent.Children[k]
		if c.Kind != ElementNode {
			top.i++
			continue
		}
		if c.Name == r.Match {
			res.Found = true
			switch r.Action {
			case ActionDelete:
				parent.RemoveAt(k)
				res.Count++
				continue
			case ActionDeleteIfWhitespaceOnly:
				if c.IsWhitespace() {
					parent.RemoveAt(k)
					res.Count++
					continue
				}
			case ActionCount:
				res.Count++
			case ActionRename:
				c.Name = r.NewName
				res.Count++
			case ActionSubstitute:
				if r.Replacement == nil {
					parent.RemoveAt(k)
				} else {
					parent.Children[k] = r.Replacement.Clone()
					top.i++
				}
				res.Count++
				continue
			case ActionMoveAllTo:
				parent.RemoveAt(k)
				r.Target.Append(c)
				res.Count++
				continue
			case ActionExpandComposition:
				parent.RemoveAt(k)
				if r.OnExpand != nil {
					r.OnExpand(c)
				}
				var keep []*Node
				for _, ch := range c.Children {
					if !r.Head.IsNull() && ch.Is(r.Head) {
						res.Heads = append(res.Heads, ch)
						continue
					}
					keep = append(keep, ch)
				}
				c.Children = nil
				parent.InsertAt(k, keep...)
				res.Count++
				continue
			}
		}
		top.i++
		stack = append(stack, cursor{n: c})
	}
	return res
}

// Contains reports whether root has a descendant element named name.
func Contains(root *Node, name symbol.Symbol) bool {
	return ApplyFirst(root, Rule{Match: name, Action: ActionContains}).Found
}

// First returns the first descendant element named name, or nil.
func First(root *Node, name symbol.Symbol) *Node {
	return ApplyFirst(root, Rule{Match: name, Action: ActionReturnFirst}).Node
}

// TakeFirst detaches and returns the first descendant named name, or nil.
func TakeFirst(root *Node, name symbol.Symbol) *Node {
	return ApplyFirst(root, Rule{Match: name, Action: ActionReturnFirstAndDetach}).Node
}

// Count returns the number of descendant elements named name.
func Count(root *Node, name symbol.Symbol) int {
	return ApplyAll(root, Rule{Match: name, Action: ActionCount}).Count
}

// DeleteAll removes every descendant named name and returns how many went.
func DeleteAll(root *Node, name symbol.Symbol) int {
	return ApplyAll(root, Rule{Match: name, Action: ActionDelete}).Count
}

// RemoveEmpty removes every descendant named name whose content is blank.
func RemoveEmpty(root *Node, name symbol.Symbol) int {
	return ApplyAll(root, Rule{Match: name, Action: ActionDeleteIfWhitespaceOnly}).Count
}

// RenameAll renames every descendant named from.
func RenameAll(root *Node, from, to symbol.Symbol) int {
	return ApplyAll(root, Rule{Match: from, Action: ActionRename, NewName: to}).Count
}

// SubstituteAll replaces every descendant named name by a copy of repl.
func SubstituteAll(root *Node, name symbol.Symbol, repl *Node) int {
	return ApplyAll(root, Rule{Match: name, Action: ActionSubstitute, Replacement: repl}).Count
}

// MoveAll detaches every descendant named name and appends it to target.
func MoveAll(root *Node, name symbol.Symbol, target *Node) int {
	return ApplyAll(root, Rule{Match: name, Action: ActionMoveAllTo, Target: target}).Count
}

// ExpandAll splices the content of every descendant named name in its
// place, returning the children named head that were set aside.
func ExpandAll(root *Node, name, head symbol.Symbol, onExpand func(*Node)) []*Node {
	return ApplyAll(root, Rule{Match: name, Action: ActionExpandComposition, Head: head, OnExpand: onExpand}).Heads
}
