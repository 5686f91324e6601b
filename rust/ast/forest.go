// Package ast declares the prefix-tree representation of Rust use
// declarations: the import forest.
//
// The forest is comprehensive (it can losslessly hold any set of use
// declarations) but normalized: it does not distinguish `use a::b` from
// `use a::b::self`, and inserting the same path twice yields one entry.
package ast

import "sort"

// Leaf describes how the path ending at a node is imported.
// The zero value is a plain import of the path under its own name.
type Leaf struct {
	// Glob marks a wildcard import of everything under the path.
	Glob bool

	// Alias is the local rename of the path (`as alias`), if any.
	Alias string
}

// Node is one trie node, keyed by its segment name. A node's own
// Used/Aliases/Glob markers are independent of its children: a prefix may
// be imported as an item itself and still have deeper imports beneath it.
type Node struct {
	Name string

	// Used records that the path ending here is itself imported
	// under its own name.
	Used bool

	// Aliases records every distinct local rename of the path ending
	// here, sorted. Two renames of the same path never collapse.
	Aliases []string

	// Glob records a wildcard import of everything under this prefix.
	Glob bool

	kids []*Node // sorted by Name
}

// Children returns the node's children, sorted by segment name.
func (n *Node) Children() []*Node { return n.kids }

// Empty reports whether the node carries no import markers and no children.
func (n *Node) Empty() bool {
	return !n.Used && !n.Glob && len(n.Aliases) == 0 && len(n.kids) == 0
}

func (n *Node) child(name string) (*Node, bool) {
	i := sort.Search(len(n.kids), func(i int) bool { return n.kids[i].Name >= name })
	if i < len(n.kids) && n.kids[i].Name == name {
		return n.kids[i], true
	}
	return nil, false
}

func (n *Node) ensureChild(name string) *Node {
	i := sort.Search(len(n.kids), func(i int) bool { return n.kids[i].Name >= name })
	if i < len(n.kids) && n.kids[i].Name == name {
		return n.kids[i]
	}

	k := &Node{Name: name}
	n.kids = append(n.kids, nil)
	copy(n.kids[i+1:], n.kids[i:])
	n.kids[i] = k
	return k
}

func (n *Node) addAlias(alias string) {
	i := sort.SearchStrings(n.Aliases, alias)
	if i < len(n.Aliases) && n.Aliases[i] == alias {
		return
	}

	n.Aliases = append(n.Aliases, "")
	copy(n.Aliases[i+1:], n.Aliases[i:])
	n.Aliases[i] = alias
}

// mark applies a leaf marker to the node, OR-combining with whatever is
// already recorded rather than overwriting it.
func (n *Node) mark(leaf Leaf) {
	switch {
	case leaf.Glob:
		n.Glob = true
	case leaf.Alias != "":
		n.addAlias(leaf.Alias)
	default:
		n.Used = true
	}
}

// Root is a top-level node of the forest. The root segment may carry a
// leading `::` (so `::core::iter` is distinct from `core::iter`).
type Root struct {
	Rooted bool
	Node
}

// Forest holds the roots of every imported path, at most one root per
// (rooted, first-segment) pair.
type Forest struct {
	roots []*Root // sorted by (Name, Rooted) for lookup; render order is separate
}

func rootLess(a, b *Root) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Rooted && !b.Rooted
}

func (f *Forest) ensureRoot(rooted bool, name string) *Root {
	probe := &Root{Rooted: rooted, Node: Node{Name: name}}
	i := sort.Search(len(f.roots), func(i int) bool { return !rootLess(f.roots[i], probe) })
	if i < len(f.roots) && f.roots[i].Name == name && f.roots[i].Rooted == rooted {
		return f.roots[i]
	}

	f.roots = append(f.roots, nil)
	copy(f.roots[i+1:], f.roots[i:])
	f.roots[i] = probe
	return probe
}

// Empty reports whether the forest contains no imports at all.
func (f *Forest) Empty() bool { return len(f.roots) == 0 }

// Insert adds one fully-qualified path to the forest, walking from the
// matching root (creating it if absent) and find-or-creating each child by
// exact name. The leaf marker at the final segment OR-combines with any
// markers already present, so a second insertion of the same path with a
// different alias adds a second alias rather than discarding the first.
func (f *Forest) Insert(rooted bool, path []string, leaf Leaf) {
	if len(path) == 0 {
		return
	}

	n := &f.ensureRoot(rooted, path[0]).Node
	for _, seg := range path[1:] {
		n = n.ensureChild(seg)
	}
	n.mark(leaf)
}

// Merge unions other into f. Roots present in both are recursively unioned
// child-by-child: Used/Glob flags OR-combine and alias sets union, so
// nothing present in either side is lost and nothing new is fabricated.
// Merge is commutative and idempotent up to Equal.
//
// An explicit work stack bounds the traversal against pathologically deep
// paths.
func (f *Forest) Merge(other *Forest) {
	if other == nil {
		return
	}

	type pair struct {
		dst, src *Node
	}

	stack := make([]pair, 0, len(other.roots))
	for _, r := range other.roots {
		stack = append(stack, pair{&f.ensureRoot(r.Rooted, r.Name).Node, &r.Node})
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p.dst.Used = p.dst.Used || p.src.Used
		p.dst.Glob = p.dst.Glob || p.src.Glob
		for _, alias := range p.src.Aliases {
			p.dst.addAlias(alias)
		}

		for _, k := range p.src.kids {
			stack = append(stack, pair{p.dst.ensureChild(k.Name), k})
		}
	}
}

// Union returns a new forest holding the set union of a and b.
// Neither argument is modified.
func Union(a, b *Forest) *Forest {
	u := new(Forest)
	u.Merge(a)
	u.Merge(b)
	return u
}

// Clone returns a deep copy of the forest.
func (f *Forest) Clone() *Forest {
	c := new(Forest)
	c.Merge(f)
	return c
}

// Equal reports whether two forests hold exactly the same set of
// (path, alias) pairs and glob markers.
func Equal(a, b *Forest) bool {
	fa, fb := a.Flatten(), b.Flatten()
	if len(fa) != len(fb) {
		return false
	}

	for i, it := range fa {
		other := fb[i]
		if it.Rooted != other.Rooted || it.Leaf != other.Leaf || len(it.Path) != len(other.Path) {
			return false
		}
		for j, seg := range it.Path {
			if other.Path[j] != seg {
				return false
			}
		}
	}
	return true
}
