package lexer_test

import (
	"testing"

	"voltage/pkg/lexer"
)

func TestTokens(t *testing.T) {
	input := "16 2\n\t16 3 1\n  21 23"
	mylexer := lexer.NewLexer(input)

	expectedTokens := []lexer.TokenType{
		lexer.NUM, lexer.NUM,
		lexer.NUM, lexer.NUM, lexer.NUM,
		lexer.NUM, lexer.NUM,
		lexer.EOF,
	}

	for i, expected := range expectedTokens {
		token := mylexer.NextToken()
		if token.Type != expected {
			t.Errorf("Token %d: expected %s, got %s", i, expected, token.Type)
		}
	}

	if mylexer.HasMore() {
		t.Errorf("expected input to be consumed")
	}
}

func TestTokenPositions(t *testing.T) {
	input := "CONST 2\n  bad! 5"
	tokens := lexer.NewLexer(input).Tokens()

	expected := []struct {
		tokenType    lexer.TokenType
		line, column int
	}{
		{lexer.ID, 1, 1},
		{lexer.NUM, 1, 7},
		{lexer.ILLEGAL, 2, 3},
		{lexer.NUM, 2, 8},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}

	for i, e := range expected {
		tok := tokens[i]
		if tok.Type != e.tokenType || tok.Pos.Line != e.line || tok.Pos.Column != e.column {
			t.Errorf("Token %d: expected %s at %d:%d, got %s", i, e.tokenType, e.line, e.column, tok)
		}
	}
}

func TestPeek(t *testing.T) {
	mylexer := lexer.NewLexer("HALT 1")

	if tok := mylexer.Peek(); tok.Lexeme != "HALT" {
		t.Errorf("expected HALT, got %s", tok)
	}
	if tok := mylexer.NextToken(); tok.Lexeme != "HALT" {
		t.Errorf("expected Peek not to consume, got %s", tok)
	}
	if tok := mylexer.NextToken(); tok.Type != lexer.NUM || tok.Lexeme != "1" {
		t.Errorf("expected NUM 1, got %s", tok)
	}
}
