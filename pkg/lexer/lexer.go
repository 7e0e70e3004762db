package lexer

type Lexer struct {
	input    string // input string to be tokenized
	length   int    // length of the input string
	position int    // current position in the input string
	line     int    // current line number for error reporting
	column   int    // current column number for error reporting
}

// Create a new lexer instance
func NewLexer(s string) *Lexer {
	return &Lexer{
		input:    s,
		length:   len(s),
		position: 0,
		line:     1,
		column:   1,
	}
}

// Get the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.currentPosition()
	if l.position >= l.length {
		return NewToken(EOF, "", pos)
	}

	start := l.position
	for l.position < l.length && !isSpace(l.input[l.position]) && !l.atComment() {
		l.advance(1)
	}

	word := l.input[start:l.position]
	tokenType, _ := MatchToken(word)

	return NewToken(tokenType, word, pos)
}

// View next token without advancing the position
func (l *Lexer) Peek() Token {
	cpos, cline, ccol := l.position, l.line, l.column

	token := l.NextToken()

	l.position, l.line, l.column = cpos, cline, ccol
	return token
}

// Check if there are more characters to read
func (l *Lexer) HasMore() bool {
	return l.position < l.length
}

// Tokens returns every remaining token, excluding EOF
func (l *Lexer) Tokens() []Token {
	var tokens []Token
	for l.HasMore() {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Skip whitespace and comments. Comments start with "//" or "#" and run to
// the end of the line.
func (l *Lexer) skipWhitespace() {
	for l.position < l.length {
		ch := l.input[l.position]

		if isSpace(ch) {
			l.advance(1)
		} else if l.atComment() {
			for l.position < l.length && l.input[l.position] != '\n' {
				l.advance(1)
			}
		} else {
			break
		}
	}
}

func (l *Lexer) atComment() bool {
	if l.input[l.position] == '#' {
		return true
	}
	return l.position+1 < l.length && l.input[l.position] == '/' && l.input[l.position+1] == '/'
}

// Advance the lexer position by n characters
func (l *Lexer) advance(n int) {
	for range n {
		if l.position >= l.length {
			break
		}

		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}

		l.position++
	}
}

// Get the current position of the lexer
func (l *Lexer) currentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}
