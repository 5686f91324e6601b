// Package parser implements a parser for Rust use declarations, producing
// import forests.
package parser

import (
	"fmt"
	"runtime"

	"github.com/Lucretiel/usefix/rust/ast"
	"github.com/Lucretiel/usefix/rust/lexer"
	"github.com/Lucretiel/usefix/rust/token"
)

// Error describes a malformed use declaration. It carries the source name
// and line of the offending text.
type Error struct {
	Name string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parser: %s:%d: %s", e.Name, e.Line, e.Msg)
}

// ParseDecls parses a run of zero or more use declarations from src and
// returns the forest of every imported path. It returns a *Error if src
// contains anything that is not a well-formed use declaration.
func ParseDecls(name string, src []byte) (f *ast.Forest, err error) {
	p := &parser{
		l:    lexer.Lex(name, src),
		name: name,
		f:    new(ast.Forest),
	}
	defer p.recover(&err)

	for {
		switch i := p.next(); i.Typ {
		case token.EOF:
			return p.f, nil
		case token.USE:
			p.parseUse()
		default:
			p.unexpected(i, "expected a use declaration")
		}
	}
}

type parser struct {
	l    lexer.Interface
	name string
	line int
	pk   *lexer.Item
	f    *ast.Forest
}

// next consumes and returns the next token.
func (p *parser) next() lexer.Item {
	var i lexer.Item
	if p.pk != nil {
		i, p.pk = *p.pk, nil
	} else {
		i = p.l.NextItem()
	}

	p.line = i.Line
	if i.Typ == token.ERR {
		p.errorf("%s", i.Val)
	}
	return i
}

// peek returns but does not consume the next token.
func (p *parser) peek() lexer.Item {
	if p.pk == nil {
		i := p.l.NextItem()
		p.pk = &i
	}
	return *p.pk
}

// expect consumes the next token and guarantees it has the required type.
func (p *parser) expect(tok token.Token, context string) lexer.Item {
	i := p.next()
	if i.Typ != tok {
		p.unexpected(i, context)
	}
	return i
}

// errorf formats the error and terminates processing.
func (p *parser) errorf(format string, args ...interface{}) {
	panic(&Error{Name: p.name, Line: p.line, Msg: fmt.Sprintf(format, args...)})
}

// unexpected complains about the token and terminates processing.
func (p *parser) unexpected(i lexer.Item, context string) {
	p.errorf("unexpected %s in %s", i, context)
}

// recover is the handler that turns panics into returns from ParseDecls.
func (p *parser) recover(err *error) {
	if e := recover(); e != nil {
		if _, ok := e.(runtime.Error); ok {
			panic(e)
		}
		if p.l != nil {
			p.l.Drain()
			p.l = nil
		}
		*err = e.(*Error)
	}
}

// parseUse parses one declaration after its `use` keyword, through the
// terminating semicolon.
func (p *parser) parseUse() {
	rooted := false
	if p.peek().Typ == token.PATHSEP {
		p.next()
		rooted = true
	}

	if p.peek().Typ == token.LBRACE {
		p.next()
		p.parseGroup(rooted, nil)
	} else {
		p.parsePath(rooted, nil)
	}

	p.expect(token.SEMI, "use declaration")
}

// parseGroup parses the comma list inside braces, each element being a
// subtree rooted at prefix. The opening brace has been consumed.
func (p *parser) parseGroup(rooted bool, prefix []string) {
	for {
		if p.peek().Typ == token.RBRACE {
			p.next()
			return
		}

		if p.peek().Typ == token.LBRACE {
			p.next()
			p.parseGroup(rooted, prefix)
		} else if p.peek().Typ == token.STAR {
			p.next()
			p.glob(rooted, prefix)
		} else {
			p.parsePath(rooted, prefix)
		}

		switch i := p.next(); i.Typ {
		case token.COMMA:
		case token.RBRACE:
			return
		default:
			p.unexpected(i, "brace group")
		}
	}
}

// parsePath parses a `::`-separated path continuing from prefix, ending at
// a leaf (plain, renamed, glob) or a nested brace group. It does not
// consume the terminator that follows.
func (p *parser) parsePath(rooted bool, prefix []string) {
	path := append([]string(nil), prefix...)

	for {
		i := p.next()
		if !i.Typ.IsSegment() {
			p.unexpected(i, "import path")
		}

		// `self` names the enclosing prefix rather than extending it.
		if i.Typ == token.SELF && len(path) > 0 {
			p.f.Insert(rooted, path, p.parseLeaf())
			return
		}
		path = append(path, i.Val)

		switch p.peek().Typ {
		case token.PATHSEP:
			p.next()
		default:
			p.f.Insert(rooted, path, p.parseLeaf())
			return
		}

		switch p.peek().Typ {
		case token.LBRACE:
			p.next()
			p.parseGroup(rooted, path)
			return
		case token.STAR:
			p.next()
			p.glob(rooted, path)
			return
		}
	}
}

// parseLeaf parses the optional renaming clause of a path that just ended.
func (p *parser) parseLeaf() ast.Leaf {
	if p.peek().Typ != token.AS {
		return ast.Leaf{}
	}

	p.next()
	alias := p.expect(token.IDENT, "rename clause")
	return ast.Leaf{Alias: alias.Val}
}

// glob records a wildcard import of everything under path.
func (p *parser) glob(rooted bool, path []string) {
	if len(path) == 0 {
		p.errorf("cannot glob-import at the path root")
	}
	p.f.Insert(rooted, path, ast.Leaf{Glob: true})
}
