// Package lexer implements a lexer for the text of Rust use declarations.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Lucretiel/usefix/rust/token"
)

// Item represents a lexed token.
type Item struct {
	Typ  token.Token
	Pos  int // byte offset within the source
	Val  string
	Line int
}

func (i Item) String() string {
	switch {
	case i.Typ == token.EOF:
		return "EOF"
	case i.Typ == token.ERR:
		return i.Val
	case i.Typ.IsKeyword():
		return fmt.Sprintf("<%s>", i.Val)
	case len(i.Val) > 10:
		return fmt.Sprintf("%.10q...", i.Val)
	}
	return fmt.Sprintf("%q", i.Val)
}

// Interface defines the simplest API any consumer of a lexer could need.
type Interface interface {
	// NextItem returns the next lexed Item
	NextItem() Item

	// Drain drains the remaining items. Used only by parser if error occurs.
	Drain()
}

// stateFn represents the state of the scanner as a function that returns the next state.
type stateFn func(*lxr) stateFn

type lxr struct {
	// immutable state
	name string
	src  []byte

	// scanning state
	pos   int
	start int
	width int
	line  int
	items chan Item
}

// Lex lexes the given src as a run of use declarations.
func Lex(name string, src []byte) Interface {
	l := &lxr{
		name:  name,
		src:   src,
		items: make(chan Item),
		line:  1,
	}

	go l.run()
	return l
}

const bom = 0xFEFF

// run runs the state machine for the lexer.
func (l *lxr) run() {
	r := l.next()
	if r == bom {
		l.ignore()
	} else {
		l.backup()
	}

	for state := lexDecl; state != nil; {
		state = state(l)
	}
	close(l.items)
}

const eof = -1

// next returns the next rune in the src.
func (l *lxr) next() rune {
	if l.pos >= len(l.src) {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRune(l.src[l.pos:])
	l.width = w
	l.pos += l.width
	if r == '\n' {
		l.line++
	}
	return r
}

// peek returns but does not consume the next rune in the src.
func (l *lxr) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (l *lxr) backup() {
	l.pos -= l.width
	// Correct newline count.
	if l.width == 1 && l.src[l.pos] == '\n' {
		l.line--
	}
}

// emit passes an item back to the client.
func (l *lxr) emit(t token.Token) {
	l.items <- Item{t, l.start, string(l.src[l.start:l.pos]), l.line}
	l.start = l.pos
}

// ignore skips over the pending src before this point.
func (l *lxr) ignore() {
	l.start = l.pos
}

// accept consumes the next rune if it's from the valid set.
func (l *lxr) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

// errorf returns an error token and terminates the scan by passing
// back a nil pointer that will be the next state, terminating l.NextItem.
func (l *lxr) errorf(format string, args ...interface{}) stateFn {
	l.items <- Item{token.ERR, l.start, fmt.Sprintf(format, args...), l.line}
	return nil
}

// ignoreSpace consumes all whitespace.
func (l *lxr) ignoreSpace() {
	for isSpace(l.next()) {
	}
	l.backup()
	l.ignore()
}

// NextItem returns the next item from the src.
// Called by the parser, not in the lexing goroutine.
func (l *lxr) NextItem() Item {
	return <-l.items
}

// Drain drains the output so the lexing goroutine will exit.
// Called by the parser, not in the lexing goroutine.
func (l *lxr) Drain() {
	for range l.items {
	}
}

// ignoreLineComment discards src up to the next end of line.
func (l *lxr) ignoreLineComment() {
	for r := l.next(); !isEndOfLine(r) && r != eof; {
		r = l.next()
	}
	l.ignore()
}

// ignoreBlockComment discards a (possibly nested) /* */ comment. Rust
// block comments nest, unlike C.
func (l *lxr) ignoreBlockComment() stateFn {
	depth := 1
	for depth > 0 {
		switch r := l.next(); r {
		case eof:
			return l.errorf("unterminated block comment")
		case '/':
			if l.peek() == '*' {
				l.next()
				depth++
			}
		case '*':
			if l.peek() == '/' {
				l.next()
				depth--
			}
		}
	}
	l.ignore()
	return lexDecl
}

// lexDecl scans the top level of a run of use declarations.
func lexDecl(l *lxr) stateFn {
	switch r := l.next(); {
	case r == eof:
		l.emit(token.EOF)
		return nil
	case isSpace(r):
		l.ignoreSpace()
	case r == '/':
		switch l.peek() {
		case '/':
			l.ignoreLineComment()
		case '*':
			l.next()
			l.ignore()
			return l.ignoreBlockComment()
		default:
			return l.errorf("unexpected character: %q", r)
		}
	case r == ':':
		if !l.accept(":") {
			return l.errorf("expected '::', found single ':'")
		}
		l.emit(token.PATHSEP)
	case r == '{':
		l.emit(token.LBRACE)
	case r == '}':
		l.emit(token.RBRACE)
	case r == ',':
		l.emit(token.COMMA)
	case r == '*':
		l.emit(token.STAR)
	case r == ';':
		l.emit(token.SEMI)
	case isIdentStart(r):
		l.backup()
		return lexIdentifier
	default:
		return l.errorf("unexpected character: %q", r)
	}
	return lexDecl
}

// lexIdentifier scans an identifier, optionally prefixed with r# (a raw
// identifier, which is never a keyword).
func lexIdentifier(l *lxr) stateFn {
	raw := false
	if l.accept("r") && l.accept("#") {
		raw = true
		if !isIdentStart(l.peek()) {
			return l.errorf("malformed raw identifier")
		}
	}

	for r := l.next(); isIdentContinue(r); {
		r = l.next()
	}
	l.backup()

	word := string(l.src[l.start:l.pos])
	if raw {
		l.emit(token.IDENT)
	} else {
		l.emit(token.Lookup(word))
	}
	return lexDecl
}

// isIdentStart reports whether r can begin an identifier.
func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isIdentContinue reports whether r can continue an identifier.
func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isEndOfLine(r rune) bool {
	return r == '\r' || r == '\n'
}
