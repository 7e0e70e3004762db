package lexer

import (
	"regexp"
)

// Whole-word patterns; a word is a maximal run of non-space characters
var tokenRegexes = map[TokenType]*regexp.Regexp{
	NUM: regexp.MustCompile(`^[+-]?\d+$`),
	ID:  regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`),
}

// Token precedence order for matching
var tokenPrecedenceOrder = []TokenType{NUM, ID}

// MatchToken classifies a whole word
func MatchToken(word string) (TokenType, bool) {
	if word == "" {
		return EOF, false
	}

	for _, tokenType := range tokenPrecedenceOrder {
		if tokenRegexes[tokenType].MatchString(word) {
			return tokenType, true
		}
	}

	return ILLEGAL, false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}
