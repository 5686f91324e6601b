// Package resolver classifies merge-conflict blocks, merges the import-only
// ones, and rebuilds the file around a single canonical import region.
package resolver

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Lucretiel/usefix/gitfile"
	"github.com/Lucretiel/usefix/pretty"
	"github.com/Lucretiel/usefix/rust/ast"
)

// Options configures one run over one file.
type Options struct {
	// Style selects the canonical text shape.
	Style pretty.Style

	// Formatter is the rendering backend for the top-level import
	// region. Defaults to the builtin pass-through.
	Formatter pretty.Formatter

	// Log receives progress events. Defaults to a nop logger.
	Log *zap.Logger
}

// Result reports what happened to the conflict blocks of a run.
type Result struct {
	// Resolved counts conflicts whose sides were import-only and were
	// replaced by their merged union, markers removed.
	Resolved int

	// Unresolved counts conflicts preserved byte-identical because a
	// side held non-import content or failed to parse. An unresolved
	// conflict is a reported outcome, not a failure.
	Unresolved int
}

// Fix transforms the full text of one file: every top-level import,
// standalone or recovered from a resolved conflict, is unioned into a
// single forest re-emitted at the position of the first import region;
// later top-level import text is removed. Import regions inside an inner
// lexical scope are normalized independently, in place. Only backend
// failures are fatal.
func Fix(ctx context.Context, name, src string, opts Options) (string, Result, error) {
	if opts.Formatter == nil {
		opts.Formatter = pretty.Builtin{}
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	var res Result
	segs := gitfile.Split(name, src)

	// Classify every conflict block up front.
	merged := make(map[int]*ast.Forest)
	for idx, seg := range segs {
		if seg.Kind != gitfile.ConflictBlock {
			continue
		}

		f, ok := mergeConflict(name, seg.Conflict)
		if !ok {
			res.Unresolved++
			opts.Log.Info("conflict left unresolved",
				zap.String("ours", seg.Conflict.OursName),
				zap.String("theirs", seg.Conflict.TheirsName))
			continue
		}

		res.Resolved++
		merged[idx] = f
	}

	// Union the whole top-level import region.
	top := new(ast.Forest)
	firstTop := -1
	for idx, seg := range segs {
		if seg.Nested {
			continue
		}

		var f *ast.Forest
		switch seg.Kind {
		case gitfile.ImportBlock:
			f = seg.Forest
		case gitfile.ConflictBlock:
			f = merged[idx]
		}
		if f == nil {
			continue
		}

		top.Merge(f)
		if firstTop < 0 {
			firstTop = idx
		}
	}

	// The backend runs once, over the canonical top-level text.
	var formatted string
	if firstTop >= 0 {
		var err error
		formatted, err = opts.Formatter.Format(ctx, pretty.Render(top, opts.Style))
		if err != nil {
			return "", Result{}, err
		}
	}

	var out strings.Builder
	for idx := 0; idx < len(segs); idx++ {
		seg := segs[idx]

		switch seg.Kind {
		case gitfile.Code:
			out.WriteString(seg.Text)

		case gitfile.ImportBlock, gitfile.ConflictBlock:
			if seg.Kind == gitfile.ConflictBlock && merged[idx] == nil {
				out.WriteString(seg.Text)
				continue
			}
			if !seg.Nested {
				if idx == firstTop {
					out.WriteString(formatted)
				}
				continue
			}
			idx = writeNestedRegion(&out, segs, merged, idx, opts.Style)
		}
	}

	return out.String(), res, nil
}

// mergeConflict computes the union of a conflict's two sides, or reports
// that the block cannot be resolved because a side holds anything besides
// well-formed use declarations.
func mergeConflict(name string, c *gitfile.Conflict) (*ast.Forest, bool) {
	if c.Malformed {
		return nil, false
	}

	ours, ok := importOnly(name, c.Ours)
	if !ok {
		return nil, false
	}
	theirs, ok := importOnly(name, c.Theirs)
	if !ok {
		return nil, false
	}
	return ast.Union(ours, theirs), true
}

// importOnly parses one conflict side, succeeding only when every segment
// of it is an import run or blank.
func importOnly(name, side string) (*ast.Forest, bool) {
	f := new(ast.Forest)
	for _, seg := range gitfile.Split(name, side) {
		switch seg.Kind {
		case gitfile.ImportBlock:
			f.Merge(seg.Forest)
		case gitfile.Code:
			if strings.TrimSpace(seg.Text) != "" {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return f, true
}

// writeNestedRegion unions a contiguous run of nested import segments
// (import runs and resolved conflicts), renders it once at the position of
// the first, and returns the index of the last segment consumed. Nested
// regions never go through the external backend.
func writeNestedRegion(out *strings.Builder, segs []gitfile.Segment, merged map[int]*ast.Forest, start int, style pretty.Style) int {
	region := new(ast.Forest)
	indent := ""

	end := start
	for ; end < len(segs); end++ {
		seg := segs[end]
		if !seg.Nested {
			break
		}

		var f *ast.Forest
		switch seg.Kind {
		case gitfile.ImportBlock:
			f = seg.Forest
		case gitfile.ConflictBlock:
			f = merged[end]
		}
		if f == nil {
			break
		}

		region.Merge(f)
		if indent == "" {
			if seg.Kind == gitfile.ImportBlock {
				indent = seg.Indent
			} else if indent = leadingIndent(seg.Conflict.Ours); indent == "" {
				indent = leadingIndent(seg.Conflict.Theirs)
			}
		}
	}

	out.WriteString(indentLines(pretty.Render(region, style), indent))
	return end - 1
}

// leadingIndent returns the indentation of the first nonblank line of text.
func leadingIndent(text string) string {
	for _, line := range strings.SplitAfter(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	}
	return ""
}

// indentLines prefixes every nonblank line of text with indent.
func indentLines(text, indent string) string {
	if indent == "" {
		return text
	}

	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		if strings.TrimSpace(line) != "" {
			b.WriteString(indent)
		}
		b.WriteString(line)
	}
	return b.String()
}
