package lexer

import (
	"fmt"
)

type TokenType int

type Token struct {
	Type   TokenType // Type of the token
	Lexeme string    // Actual string from source text
	Pos    Position  // Position of the first character
}

// NewToken creates a new Token instance
func NewToken(tokenType TokenType, lexeme string, pos Position) Token {
	return Token{
		Type:   tokenType,
		Lexeme: lexeme,
		Pos:    pos,
	}
}

const (
	EOF     TokenType = iota // End of input
	ILLEGAL                  // word that is neither a number nor a name
	NUM                      // signed decimal integer
	ID                       // mnemonic or other name
)

var tokenNames = [...]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	NUM:     "NUM",
	ID:      "ID",
}

// String returns the name of the token type
func (t TokenType) String() string {
	if t < 0 || int(t) >= len(tokenNames) {
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
	return tokenNames[t]
}

// String renders the token with its position for error messages
func (t Token) String() string {
	return fmt.Sprintf("%s %q at %d:%d", t.Type, t.Lexeme, t.Pos.Line, t.Pos.Column)
}
