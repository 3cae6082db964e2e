// Package token defines the lexical tokens produced by the lexer and
// consumed by the parser.
package token

import (
	"fmt"

	"github.com/mood-lang/mood/internal/location"
)

// Kind identifies the category of a token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	IDENT  // x, myVariable; also covers the bare words "true" and "false"
	NUMBER // 123 (suffix-less digit run; a '.' lexes as a separate DOT)

	// Keywords
	FN
	LET
	PUB
	IF
	ELSE
	WHILE
	RETURN
	ENUM
	STRUCT

	// Punctuation / operators
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	COLON     // :
	COLONCOLON // ::
	COMMA     // ,
	SEMICOLON // ;
	ASSIGN    // =
	EQ        // ==
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	DOT       // .
	UNDERSCORE // _
)

var names = map[Kind]string{
	ILLEGAL:    "ILLEGAL",
	EOF:        "EOF",
	IDENT:      "IDENT",
	NUMBER:     "NUMBER",
	FN:         "fn",
	LET:        "let",
	PUB:        "pub",
	IF:         "if",
	ELSE:       "else",
	WHILE:      "while",
	RETURN:     "return",
	ENUM:       "enum",
	STRUCT:     "struct",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACE:     "{",
	RBRACE:     "}",
	COLON:      ":",
	COLONCOLON: "::",
	COMMA:      ",",
	SEMICOLON:  ";",
	ASSIGN:     "=",
	EQ:         "==",
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	DOT:        ".",
	UNDERSCORE: "_",
}

// String renders a Kind for diagnostics and test failures.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps the fixed keyword spellings to their token kind. Matching a
// keyword requires the next character to not continue an identifier; the
// lexer enforces that before consulting this table.
var keywords = map[string]Kind{
	"fn":     FN,
	"let":    LET,
	"pub":    PUB,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"return": RETURN,
	"enum":   ENUM,
	"struct": STRUCT,
}

// Lookup returns the keyword Kind for ident, or IDENT if ident is not a
// reserved word.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// Token is a single lexical token with its source span.
type Token struct {
	Kind    Kind
	Literal string
	Span    location.Span
}
