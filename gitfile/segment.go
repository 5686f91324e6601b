// Package gitfile segments the text of a source file that may contain git
// merge conflicts into passthrough code, runs of use declarations, and
// conflict blocks. Everything that is not a well-formed use declaration or
// a complete conflict block is passed through byte-for-byte.
package gitfile

import (
	"strings"

	"github.com/Lucretiel/usefix/rust/ast"
	"github.com/Lucretiel/usefix/rust/parser"
)

// Kind tags a segment of the file.
type Kind int

const (
	// Code is opaque text, preserved byte-for-byte.
	Code Kind = iota

	// ImportBlock is a maximal contiguous run of well-formed use
	// declarations.
	ImportBlock

	// ConflictBlock is a region bounded by git conflict markers.
	ConflictBlock
)

// Segment is one region of the segmented file.
type Segment struct {
	Kind Kind

	// Text is the raw text of the segment, including any line
	// terminators. For a ConflictBlock it spans the whole block,
	// markers included.
	Text string

	// Nested is set when the segment sits inside an inner lexical scope
	// (at nonzero brace depth) rather than at file scope.
	Nested bool

	// Indent is the leading whitespace of the first declaration of an
	// ImportBlock.
	Indent string

	// Forest holds the parsed imports of an ImportBlock.
	Forest *ast.Forest

	// Conflict holds the two sides of a ConflictBlock.
	Conflict *Conflict
}

// Conflict is a region bounded by the three conflict-marker lines.
type Conflict struct {
	OursName   string // the ref name on the start-marker line
	TheirsName string // the ref name on the end-marker line
	Ours       string // raw text of the "ours" span, markers excluded
	Theirs     string // raw text of the "theirs" span, markers excluded

	// Malformed is set when a side contains a further start marker.
	// Nested conflicts are not supported; the block is never resolved.
	Malformed bool
}

const (
	startMarker = "<<<<<<<"
	sepMarker   = "======="
	endMarker   = ">>>>>>>"
)

// isMarker reports whether line is a conflict-marker line for the given
// marker, and returns the ref name following it, if any.
func isMarker(line, marker string) (name string, ok bool) {
	trimmed := strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(trimmed, marker) {
		return "", false
	}

	rest := trimmed[len(marker):]
	if rest == "" {
		return "", true
	}
	if rest[0] != ' ' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// isImportStart reports whether line begins (after indentation) with the
// use keyword.
func isImportStart(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "use") {
		return false
	}

	rest := trimmed[3:]
	if rest == "" || rest == "\n" || rest == "\r\n" {
		return false // a bare `use` never terminates; let it be code
	}
	c := rest[0]
	return !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z')
}

// isSeparator reports whether line is the conflict separator. Git writes
// it bare; a `=======` with trailing text is ordinary content.
func isSeparator(line string) bool {
	return strings.TrimRight(line, "\r\n") == sepMarker
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// decoratedPrefixes begin the attribute and doc-comment lines that bind to
// the declaration below them.
var decoratedPrefixes = []string{"#[", "#![", "///", "//!", "/**", "/*!"}

// decorated reports whether the declaration starting at line i has an
// attribute or doc comment on the line above it.
func (s *segmenter) decorated(i int) bool {
	if i == 0 {
		return false
	}

	trimmed := strings.TrimSpace(s.lines[i-1])
	for _, prefix := range decoratedPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// splitLines splits src into lines, each keeping its terminator. The final
// line may lack one.
func splitLines(src string) []string {
	var lines []string
	for len(src) > 0 {
		i := strings.IndexByte(src, '\n')
		if i < 0 {
			lines = append(lines, src)
			break
		}
		lines = append(lines, src[:i+1])
		src = src[i+1:]
	}
	return lines
}

// segmenter walks the lines of a file, accumulating segments.
type segmenter struct {
	name  string
	lines []string
	segs  []Segment
	code  strings.Builder
	depth depthTracker
}

// Split segments the full text of a file. It never fails: text that merely
// resembles an import or a conflict is classified as Code.
func Split(name, src string) []Segment {
	s := &segmenter{name: name, lines: splitLines(src)}
	s.run()
	return s.segs
}

func (s *segmenter) run() {
	i := 0
	for i < len(s.lines) {
		line := s.lines[i]

		// Text inside an open block comment or string literal is
		// literal content, whatever it looks like.
		if s.depth.opaque() {
			s.codeLine(line)
			i++
			continue
		}

		if _, ok := isMarker(line, startMarker); ok {
			if next := s.conflict(i); next > i {
				i = next
				continue
			}
			// No complete block; the marker line is just code.
			s.codeLine(line)
			i++
			continue
		}

		if isImportStart(line) {
			// A declaration under an attribute or doc comment must
			// not move away from it.
			if s.decorated(i) {
				s.codeLine(line)
				i++
				continue
			}
			if next := s.importRun(i); next > i {
				i = next
				continue
			}
			s.codeLine(line)
			i++
			continue
		}

		s.codeLine(line)
		i++
	}
	s.flushCode()
}

func (s *segmenter) codeLine(line string) {
	s.code.WriteString(line)
	s.depth.update(line)
}

func (s *segmenter) flushCode() {
	if s.code.Len() > 0 {
		s.segs = append(s.segs, Segment{Kind: Code, Text: s.code.String()})
		s.code.Reset()
	}
}

// conflict consumes a complete conflict block starting at line i and
// returns the index of the line after it, or i if the block never
// terminates (in which case nothing is consumed).
func (s *segmenter) conflict(i int) int {
	oursName, _ := isMarker(s.lines[i], startMarker)

	var ours, theirs strings.Builder
	cur := &ours
	sawSep := false
	malformed := false

	j := i + 1
	for ; j < len(s.lines); j++ {
		line := s.lines[j]

		if name, ok := isMarker(line, endMarker); ok && sawSep {
			s.flushCode()

			var raw strings.Builder
			for _, l := range s.lines[i : j+1] {
				raw.WriteString(l)
			}

			s.segs = append(s.segs, Segment{
				Kind:   ConflictBlock,
				Text:   raw.String(),
				Nested: s.depth.nested(),
				Conflict: &Conflict{
					OursName:   oursName,
					TheirsName: name,
					Ours:       ours.String(),
					Theirs:     theirs.String(),
					Malformed:  malformed,
				},
			})
			return j + 1
		}

		if _, ok := isMarker(line, startMarker); ok {
			malformed = true
		}
		if !sawSep && isSeparator(line) {
			sawSep = true
			cur = &theirs
			continue
		}

		cur.WriteString(line)
	}
	return i
}

// importRun consumes a maximal run of well-formed use declarations
// starting at line i and returns the index of the line after it, or i if
// the first declaration fails to parse (in which case nothing is
// consumed).
func (s *segmenter) importRun(i int) int {
	forest := new(ast.Forest)
	var text strings.Builder
	j := i

	for j < len(s.lines) && isImportStart(s.lines[j]) {
		declText, next, ok := s.collectDecl(j)
		if !ok {
			break
		}

		f, err := parser.ParseDecls(s.name, []byte(declText))
		if err != nil {
			break
		}

		forest.Merge(f)
		text.WriteString(declText)
		j = next

		// Blank lines between declarations belong to the run, so that
		// canonical output (which spaces its locality groups) stays a
		// fixed point.
		k := j
		for k < len(s.lines) && isBlank(s.lines[k]) {
			k++
		}
		if k > j && k < len(s.lines) && isImportStart(s.lines[k]) {
			for ; j < k; j++ {
				text.WriteString(s.lines[j])
			}
		}
	}

	if forest.Empty() {
		return i
	}

	s.flushCode()
	first := s.lines[i]
	s.segs = append(s.segs, Segment{
		Kind:   ImportBlock,
		Text:   text.String(),
		Nested: s.depth.nested(),
		Indent: first[:len(first)-len(strings.TrimLeft(first, " \t"))],
		Forest: forest,
	})
	return j
}

// collectDecl gathers the lines of one declaration, from its use keyword
// through the line holding its terminating semicolon. It refuses to cross
// a conflict marker.
func (s *segmenter) collectDecl(i int) (text string, next int, ok bool) {
	var b strings.Builder
	for j := i; j < len(s.lines); j++ {
		line := s.lines[j]

		if _, isStart := isMarker(line, startMarker); isStart {
			return "", i, false
		}
		if isSeparator(line) {
			return "", i, false
		}
		if _, isEnd := isMarker(line, endMarker); isEnd {
			return "", i, false
		}

		b.WriteString(line)
		if strings.ContainsRune(line, ';') {
			return b.String(), j + 1, true
		}
	}
	return "", i, false
}
