// Package pretty linearizes import forests into canonical use-declaration
// text and hands it to a formatting backend.
package pretty

import (
	"strings"

	"github.com/Lucretiel/usefix/rust/ast"
)

// Style selects the shape of the canonical text.
type Style int

const (
	// StyleFlat emits one fully-qualified declaration per leaf, alias,
	// and glob marker. This is the canonical intermediate form.
	StyleFlat Style = iota

	// StyleGrouped emits one declaration per root, using nested brace
	// syntax with single-child chains collapsed into joined prefixes.
	StyleGrouped
)

// Render linearizes a forest in canonical order: locality groups separated
// by a blank line, lexicographic children, globs after named siblings, and
// a prefix's own import ahead of its subtree.
func Render(f *ast.Forest, style Style) string {
	if style == StyleGrouped {
		return renderGrouped(f)
	}
	return renderFlat(f)
}

func renderFlat(f *ast.Forest) string {
	var b strings.Builder

	last := ast.Locality(-1)
	for _, it := range f.Flatten() {
		if loc := it.Locality(); loc != last {
			if last >= 0 {
				b.WriteByte('\n')
			}
			last = loc
		}

		b.WriteString("use ")
		if it.Rooted {
			b.WriteString("::")
		}
		b.WriteString(strings.Join(it.Path, "::"))
		switch {
		case it.Leaf.Glob:
			b.WriteString("::*")
		case it.Leaf.Alias != "":
			b.WriteString(" as ")
			b.WriteString(it.Leaf.Alias)
		}
		b.WriteString(";\n")
	}
	return b.String()
}

func renderGrouped(f *ast.Forest) string {
	var b strings.Builder

	last := ast.Locality(-1)
	for _, root := range f.Roots() {
		if loc := ast.LocalityOf(root.Name); loc != last {
			if last >= 0 {
				b.WriteByte('\n')
			}
			last = loc
		}

		for _, entry := range childEntries(&root.Node) {
			b.WriteString("use ")
			if root.Rooted {
				b.WriteString("::")
			}
			b.WriteString(entry)
			b.WriteString(";\n")
		}
	}
	return b.String()
}

// childEntries renders a node as it appears inside its parent's braces.
// A node with no subtree yields one entry per usage; a node with a subtree
// yields a single entry, joined into the prefix when the subtree holds
// exactly one item.
func childEntries(n *ast.Node) []string {
	if len(n.Children()) == 0 && !n.Glob {
		var out []string
		if n.Used {
			out = append(out, n.Name)
		}
		for _, alias := range n.Aliases {
			out = append(out, n.Name+" as "+alias)
		}
		return out
	}

	inner := innerEntries(n)
	if len(inner) == 1 {
		return []string{n.Name + "::" + inner[0]}
	}
	return []string{n.Name + "::{" + strings.Join(inner, ", ") + "}"}
}

// innerEntries renders the contents of the braces that follow n: the
// node's own import first, then named children, then the glob.
func innerEntries(n *ast.Node) []string {
	var inner []string
	if n.Used {
		inner = append(inner, "self")
	}
	for _, alias := range n.Aliases {
		inner = append(inner, "self as "+alias)
	}
	for _, k := range n.Children() {
		inner = append(inner, childEntries(k)...)
	}
	if n.Glob {
		inner = append(inner, "*")
	}
	return inner
}
