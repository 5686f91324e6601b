package gitfile

import "strings"

// depthTracker follows the lexical context of passthrough code: the net
// brace depth, so import runs can be classified as top-level or nested in
// an inner lexical scope, and any block comment or string literal left
// open at the end of a line, so text inside one is never mistaken for a
// declaration or a conflict marker.
type depthTracker struct {
	depth        int
	commentDepth int    // Rust block comments nest
	strCloser    string // delimiter that ends the open string literal, if any
}

func (d *depthTracker) nested() bool { return d.depth > 0 }

// opaque reports whether a previous line left a block comment or string
// literal open, making the current line literal text rather than code.
func (d *depthTracker) opaque() bool { return d.commentDepth > 0 || d.strCloser != "" }

// update scans one line of code and adjusts the state.
func (d *depthTracker) update(line string) {
	i := 0
	for i < len(line) {
		if d.commentDepth > 0 {
			switch {
			case strings.HasPrefix(line[i:], "/*"):
				d.commentDepth++
				i += 2
			case strings.HasPrefix(line[i:], "*/"):
				d.commentDepth--
				i += 2
			default:
				i++
			}
			continue
		}
		if d.strCloser != "" {
			i = d.continueString(line, i)
			continue
		}

		switch c := line[i]; c {
		case '{':
			d.depth++
			i++
		case '}':
			if d.depth > 0 {
				d.depth--
			}
			i++
		case '/':
			if strings.HasPrefix(line[i:], "//") {
				return // rest of line is a comment
			}
			if strings.HasPrefix(line[i:], "/*") {
				d.commentDepth++
				i += 2
				continue
			}
			i++
		case '"':
			d.strCloser = `"`
			i = d.continueString(line, i+1)
		case 'r':
			if closer, body, ok := rawStringOpen(line, i); ok {
				d.strCloser = closer
				i = d.continueString(line, body)
			} else {
				i++
			}
		case '\'':
			i = skipCharLiteral(line, i)
		default:
			i++
		}
	}
}

// continueString advances through the body of the open string literal,
// clearing strCloser when its delimiter appears on this line.
func (d *depthTracker) continueString(line string, i int) int {
	if d.strCloser == `"` {
		for i < len(line) {
			switch line[i] {
			case '\\':
				i += 2
			case '"':
				d.strCloser = ""
				return i + 1
			default:
				i++
			}
		}
		return i
	}

	// Raw strings have no escapes; look for the exact closer.
	if end := strings.Index(line[i:], d.strCloser); end >= 0 {
		next := i + end + len(d.strCloser)
		d.strCloser = ""
		return next
	}
	return len(line)
}

// rawStringOpen recognizes the opening of a raw string literal r"..." or
// r#"..."# at i and returns its closing delimiter and the index of the
// first body byte.
func rawStringOpen(line string, i int) (closer string, body int, ok bool) {
	j := i + 1
	hashes := 0
	for j < len(line) && line[j] == '#' {
		hashes++
		j++
	}
	if j >= len(line) || line[j] != '"' {
		return "", 0, false
	}
	return `"` + strings.Repeat("#", hashes), j + 1, true
}

// skipCharLiteral distinguishes a character literal ('a', '\n') from a
// lifetime ('a) and advances past whichever it finds.
func skipCharLiteral(line string, i int) int {
	rest := line[i+1:]
	switch {
	case strings.HasPrefix(rest, `\`):
		if end := strings.IndexByte(rest[1:], '\''); end >= 0 {
			return i + 1 + 1 + end + 1
		}
	case len(rest) >= 2 && rest[1] == '\'':
		return i + 3
	}
	// A lifetime: just skip the quote.
	return i + 1
}
