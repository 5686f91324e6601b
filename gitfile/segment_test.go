package gitfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lucretiel/usefix/rust/ast"
)

func flattenPaths(f *ast.Forest) []string {
	var paths []string
	for _, it := range f.Flatten() {
		p := ""
		for i, seg := range it.Path {
			if i > 0 {
				p += "::"
			}
			p += seg
		}
		paths = append(paths, p)
	}
	return paths
}

func TestSplitCode(t *testing.T) {
	src := "fn main() {\n    println!(\"hi\");\n}\n"
	segs := Split("main.rs", src)

	require.Len(t, segs, 1)
	assert.Equal(t, Code, segs[0].Kind)
	assert.Equal(t, src, segs[0].Text)
}

func TestSplitImports(t *testing.T) {
	t.Run("singleRun", func(subT *testing.T) {
		src := "use std::fmt;\nuse foo::bar;\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		assert.Equal(subT, ImportBlock, segs[0].Kind)
		assert.Equal(subT, src, segs[0].Text)
		assert.False(subT, segs[0].Nested)
		assert.Equal(subT, []string{"std::fmt", "foo::bar"}, flattenPaths(segs[0].Forest))
	})

	t.Run("surroundedByCode", func(subT *testing.T) {
		src := "// header\nuse a;\n\nfn main() {}\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 3)
		assert.Equal(subT, Code, segs[0].Kind)
		assert.Equal(subT, "// header\n", segs[0].Text)
		assert.Equal(subT, ImportBlock, segs[1].Kind)
		assert.Equal(subT, "use a;\n", segs[1].Text)
		assert.Equal(subT, Code, segs[2].Kind)
		assert.Equal(subT, "\nfn main() {}\n", segs[2].Text)
	})

	t.Run("blankLinesJoinRuns", func(subT *testing.T) {
		src := "use std::fmt;\n\nuse foo::bar;\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		assert.Equal(subT, ImportBlock, segs[0].Kind)
		assert.Equal(subT, src, segs[0].Text)
	})

	t.Run("multiLineDecl", func(subT *testing.T) {
		src := "use a::{\n    b,\n    c,\n};\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		assert.Equal(subT, ImportBlock, segs[0].Kind)
		assert.Equal(subT, []string{"a::b", "a::c"}, flattenPaths(segs[0].Forest))
	})

	t.Run("nested", func(subT *testing.T) {
		src := "fn main() {\n    use a;\n}\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 3)
		assert.Equal(subT, ImportBlock, segs[1].Kind)
		assert.True(subT, segs[1].Nested)
		assert.Equal(subT, "    ", segs[1].Indent)
	})

	t.Run("bracesInStringsIgnored", func(subT *testing.T) {
		src := "const S: &str = \"{\";\nuse a;\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 2)
		assert.Equal(subT, ImportBlock, segs[1].Kind)
		assert.False(subT, segs[1].Nested)
	})

	t.Run("lookalikesAreCode", func(subT *testing.T) {
		for _, src := range []string{
			"user x = 1;\n",
			"use;\n",
			"use = 3;\n",
			"use a::{b; c}\n",
		} {
			segs := Split("main.rs", src)
			require.Len(subT, segs, 1, src)
			assert.Equal(subT, Code, segs[0].Kind, src)
			assert.Equal(subT, src, segs[0].Text, src)
		}
	})

	t.Run("insideBlockCommentIsCode", func(subT *testing.T) {
		src := "/*\nuse fake::thing;\n*/\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		assert.Equal(subT, Code, segs[0].Kind)
		assert.Equal(subT, src, segs[0].Text)
	})

	t.Run("insideMultiLineStringIsCode", func(subT *testing.T) {
		src := "let s = \"\nuse a::b;\nuse a::a;\n\";\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		assert.Equal(subT, Code, segs[0].Kind)
		assert.Equal(subT, src, segs[0].Text)
	})

	t.Run("insideRawStringIsCode", func(subT *testing.T) {
		src := "let s = r#\"\nuse a::b;\n\"#;\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		assert.Equal(subT, Code, segs[0].Kind)
	})

	t.Run("attributeBindsImport", func(subT *testing.T) {
		src := "#[cfg(test)]\nuse foo;\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		assert.Equal(subT, Code, segs[0].Kind)
		assert.Equal(subT, src, segs[0].Text)
	})

	t.Run("docCommentBindsImport", func(subT *testing.T) {
		for _, src := range []string{
			"/// re-exported for callers\nuse foo;\n",
			"//! module docs\nuse foo;\n",
			"#![allow(unused_imports)]\nuse foo;\n",
		} {
			segs := Split("main.rs", src)
			require.Len(subT, segs, 1, src)
			assert.Equal(subT, Code, segs[0].Kind, src)
		}
	})

	t.Run("attributeBindsOnlyNextDecl", func(subT *testing.T) {
		src := "#[cfg(test)]\nuse a;\nuse b;\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 2)
		assert.Equal(subT, Code, segs[0].Kind)
		assert.Equal(subT, "#[cfg(test)]\nuse a;\n", segs[0].Text)
		assert.Equal(subT, ImportBlock, segs[1].Kind)
		assert.Equal(subT, "use b;\n", segs[1].Text)
	})

	t.Run("unterminatedDecl", func(subT *testing.T) {
		src := "use a::{\n    b,\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		assert.Equal(subT, Code, segs[0].Kind)
		assert.Equal(subT, src, segs[0].Text)
	})
}

func TestSplitConflicts(t *testing.T) {
	t.Run("wellFormed", func(subT *testing.T) {
		src := "<<<<<<< HEAD\nuse a;\n=======\nuse b;\n>>>>>>> feature/x\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		seg := segs[0]
		assert.Equal(subT, ConflictBlock, seg.Kind)
		assert.Equal(subT, src, seg.Text)

		require.NotNil(subT, seg.Conflict)
		assert.Equal(subT, "HEAD", seg.Conflict.OursName)
		assert.Equal(subT, "feature/x", seg.Conflict.TheirsName)
		assert.Equal(subT, "use a;\n", seg.Conflict.Ours)
		assert.Equal(subT, "use b;\n", seg.Conflict.Theirs)
		assert.False(subT, seg.Conflict.Malformed)
	})

	t.Run("surroundedByCode", func(subT *testing.T) {
		src := "fn before() {}\n<<<<<<<\nx\n=======\ny\n>>>>>>>\nfn after() {}\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 3)
		assert.Equal(subT, Code, segs[0].Kind)
		assert.Equal(subT, ConflictBlock, segs[1].Kind)
		assert.Equal(subT, Code, segs[2].Kind)
		assert.Equal(subT, "x\n", segs[1].Conflict.Ours)
		assert.Equal(subT, "y\n", segs[1].Conflict.Theirs)
	})

	t.Run("unterminatedIsCode", func(subT *testing.T) {
		src := "<<<<<<< HEAD\nuse a;\n=======\nuse b;\n"
		segs := Split("main.rs", src)

		// The whole region degrades to passthrough text. The import
		// lines inside still form runs of their own.
		require.NotEmpty(subT, segs)
		assert.Equal(subT, Code, segs[0].Kind)
		assert.Equal(subT, "<<<<<<< HEAD\n", segs[0].Text)
	})

	t.Run("innerStartMarkerIsMalformed", func(subT *testing.T) {
		src := "<<<<<<< a\n<<<<<<< b\nx\n=======\ny\n>>>>>>> c\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		require.Equal(subT, ConflictBlock, segs[0].Kind)
		assert.True(subT, segs[0].Conflict.Malformed)
		assert.Equal(subT, src, segs[0].Text)
	})

	t.Run("secondSeparatorIsContent", func(subT *testing.T) {
		src := "<<<<<<<\nx\n=======\ny\n=======\n>>>>>>>\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		require.Equal(subT, ConflictBlock, segs[0].Kind)
		assert.Equal(subT, "y\n=======\n", segs[0].Conflict.Theirs)
	})

	t.Run("markersInsideCommentAreCode", func(subT *testing.T) {
		src := "/*\n<<<<<<< HEAD\nx\n=======\ny\n>>>>>>> other\n*/\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		assert.Equal(subT, Code, segs[0].Kind)
		assert.Equal(subT, src, segs[0].Text)
	})

	t.Run("separatorWithTrailingTextIsContent", func(subT *testing.T) {
		src := "<<<<<<< a\nuse a;\n======= stray\n=======\nuse b;\n>>>>>>> b\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		require.Equal(subT, ConflictBlock, segs[0].Kind)
		assert.Equal(subT, "use a;\n======= stray\n", segs[0].Conflict.Ours)
		assert.Equal(subT, "use b;\n", segs[0].Conflict.Theirs)
	})

	t.Run("indentedMarkersAreCode", func(subT *testing.T) {
		src := "    <<<<<<< HEAD\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 1)
		assert.Equal(subT, Code, segs[0].Kind)
	})

	t.Run("declNeverCrossesMarker", func(subT *testing.T) {
		src := "use a::{\n<<<<<<<\nb\n=======\nc\n>>>>>>>\n"
		segs := Split("main.rs", src)

		require.Equal(subT, Code, segs[0].Kind)
		assert.Equal(subT, "use a::{\n", segs[0].Text)
		require.Equal(subT, ConflictBlock, segs[1].Kind)
	})

	t.Run("nestedConflict", func(subT *testing.T) {
		src := "fn main() {\n<<<<<<<\nuse a;\n=======\nuse b;\n>>>>>>>\n}\n"
		segs := Split("main.rs", src)

		require.Len(subT, segs, 3)
		require.Equal(subT, ConflictBlock, segs[1].Kind)
		assert.True(subT, segs[1].Nested)
	})
}

func TestIsImportStart(t *testing.T) {
	for line, want := range map[string]bool{
		"use a;\n":        true,
		"    use a;\n":    true,
		"\tuse a::{\n":    true,
		"use ::a;\n":      true,
		"use\n":           false,
		"use":             false,
		"user x\n":        false,
		"use_thing()\n":   false,
		"use2 = 1\n":      false,
		"fn use_it() {\n": false,
	} {
		assert.Equal(t, want, isImportStart(line), "%q", line)
	}
}
