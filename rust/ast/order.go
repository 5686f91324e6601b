package ast

import "sort"

// Locality classifies a root segment for ordering purposes. Standard
// library roots come first, then external crates, then the crate-root,
// current-module, and parent-module markers.
type Locality int

const (
	LocalityStd Locality = iota
	LocalityExtern
	LocalityCrate
	LocalityThis
	LocalitySuper
)

// LocalityOf returns the ordering group of a root segment name.
func LocalityOf(name string) Locality {
	switch name {
	case "std", "core", "alloc":
		return LocalityStd
	case "crate":
		return LocalityCrate
	case "self":
		return LocalityThis
	case "super":
		return LocalitySuper
	default:
		return LocalityExtern
	}
}

// Item is one flattened import: a full path plus how it is imported.
type Item struct {
	Rooted bool
	Path   []string
	Leaf   Leaf
}

// Locality returns the ordering group of the item's root segment.
func (it Item) Locality() Locality { return LocalityOf(it.Path[0]) }

// Roots returns the forest's roots in canonical render order: grouped by
// locality, rooted (`::`-prefixed) before unrooted within a group, then
// lexicographic by name.
func (f *Forest) Roots() []*Root {
	roots := make([]*Root, len(f.roots))
	copy(roots, f.roots)

	sort.SliceStable(roots, func(i, j int) bool {
		a, b := roots[i], roots[j]
		if la, lb := LocalityOf(a.Name), LocalityOf(b.Name); la != lb {
			return la < lb
		}
		if a.Rooted != b.Rooted {
			return a.Rooted
		}
		return a.Name < b.Name
	})
	return roots
}

// Flatten linearizes the forest into one Item per leaf, alias, and glob
// marker, in canonical order. Within a node, the node's own import entries
// come before its subtree, named children are visited lexicographically,
// and the glob marker comes after all named children.
func (f *Forest) Flatten() []Item {
	var items []Item

	for _, root := range f.Roots() {
		items = flattenNode(items, root.Rooted, nil, &root.Node)
	}
	return items
}

func flattenNode(items []Item, rooted bool, prefix []string, n *Node) []Item {
	path := append(prefix, n.Name)

	if n.Used {
		items = append(items, Item{Rooted: rooted, Path: clonePath(path)})
	}
	for _, alias := range n.Aliases {
		items = append(items, Item{Rooted: rooted, Path: clonePath(path), Leaf: Leaf{Alias: alias}})
	}

	for _, k := range n.kids {
		items = flattenNode(items, rooted, path, k)
	}

	if n.Glob {
		items = append(items, Item{Rooted: rooted, Path: clonePath(path), Leaf: Leaf{Glob: true}})
	}
	return items
}

func clonePath(path []string) []string {
	c := make([]string, len(path))
	copy(c, path)
	return c
}
