// Package token defines constants representing the lexical tokens of the
// Rust use-declaration mini-grammar and basic operations on tokens
// (printing, predicates).
package token

import "strconv"

// Token is the set of lexical tokens of a use declaration.
type Token int

// A list of tokens
const (
	// Special Tokens
	ERR Token = iota
	EOF
	COMMENT

	litBeg
	IDENT // foo, r#type
	litEnd

	opBeg
	PATHSEP // ::
	LBRACE  // {
	RBRACE  // }
	COMMA   // ,
	STAR    // *
	SEMI    // ;
	opEnd

	keyBeg
	USE   // use
	AS    // as
	CRATE // crate
	SELF  // self
	SUPER // super

	SELFTYPE // Self
	keyEnd
)

var tokens = [...]string{
	ERR: "ERROR",

	EOF:     "EOF",
	COMMENT: "COMMENT",

	IDENT: "IDENT",

	PATHSEP: "::",
	LBRACE:  "{",
	RBRACE:  "}",
	COMMA:   ",",
	STAR:    "*",
	SEMI:    ";",

	USE:   "use",
	AS:    "as",
	CRATE: "crate",
	SELF:  "self",
	SUPER: "super",

	SELFTYPE: "Self",
}

func (tok Token) String() string {
	s := ""
	if 0 <= tok && tok < Token(len(tokens)) {
		s = tokens[tok]
	}
	if s == "" {
		s = "token(" + strconv.Itoa(int(tok)) + ")"
	}
	return s
}

var keywords map[string]Token

func init() {
	keywords = make(map[string]Token)
	for i := keyBeg + 1; i < keyEnd; i++ {
		if tokens[i] != "" {
			keywords[tokens[i]] = i
		}
	}
}

// Lookup maps an identifier to its keyword token or IDENT if it isn't
// a keyword. Raw identifiers (r#use) never map to keywords.
func Lookup(ident string) Token {
	if tok, isKeyword := keywords[ident]; isKeyword {
		return tok
	}
	return IDENT
}

// Predicates

// IsLiteral returns true for tokens corresponding to identifiers;
// it returns false otherwise.
func (tok Token) IsLiteral() bool { return litBeg < tok && tok < litEnd }

// IsOperator returns true for tokens corresponding to operators and
// delimiters; it returns false otherwise.
func (tok Token) IsOperator() bool { return opBeg < tok && tok < opEnd }

// IsKeyword returns true for tokens corresponding to keywords;
// it returns false otherwise.
func (tok Token) IsKeyword() bool { return keyBeg < tok && tok < keyEnd }

// IsSegment returns true for tokens that may appear as a path segment:
// identifiers and the reserved path keywords.
func (tok Token) IsSegment() bool {
	return tok == IDENT || tok == CRATE || tok == SELF || tok == SUPER || tok == SELFTYPE
}
