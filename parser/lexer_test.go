package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panyam/pgcl/ast"
)

// Helper struct for expected token properties
type expectedToken struct {
	tok       int    // Token kind
	text      string // Raw token text as scanned by lexer
	startPos  int    // Expected start byte offset
	startLine int
	startCol  int
}

func runLexerTest(t *testing.T, input string, expectedTokens []expectedToken) {
	t.Helper()
	lexer := NewLexer(strings.NewReader(input))
	for i, exp := range expectedTokens {
		tok, err := lexer.Next()
		require.NoError(t, err, "Test %d: unexpected lexer error", i)
		assert.Equal(t, exp.tok, tok.Kind, "Test %d: Token type mismatch. Expected %s, got %s", i, TokenString(exp.tok), tok)
		assert.Equal(t, exp.text, tok.Text, "Test %d: Token text mismatch", i)
		assert.Equal(t, exp.startPos, tok.Pos, "Test %d: Token startPos mismatch for %s", i, tok)
		assert.Equal(t, exp.startLine, tok.Line, "Test %d: Token startLine mismatch for %s", i, tok)
		assert.Equal(t, exp.startCol, tok.Col, "Test %d: Token startCol mismatch for %s", i, tok)
	}
	// After all expected tokens, Next should keep returning EOF
	for range 2 {
		tok, err := lexer.Next()
		require.NoError(t, err)
		assert.Equal(t, eof, tok.Kind, "Expected EOF after all tokens, got %s", tok)
	}
}

func TestLexerAssignment(t *testing.T) {
	runLexerTest(t, "x := x + 1", []expectedToken{
		{IDENTIFIER, "x", 0, 1, 1},
		{ASSIGN, ":=", 2, 1, 3},
		{IDENTIFIER, "x", 5, 1, 6},
		{BINARY_OP, "+", 7, 1, 8},
		{NUMBER, "1", 9, 1, 10},
	})
}

func TestLexerNumbers(t *testing.T) {
	runLexerTest(t, "12 0.5 3", []expectedToken{
		{NUMBER, "12", 0, 1, 1},
		{NUMBER, "0.5", 3, 1, 4},
		{NUMBER, "3", 7, 1, 8},
	})
}

func TestLexerMultiline(t *testing.T) {
	input := "nat x;\n// a comment\n  # another\n/* block\n comment */ skip"
	runLexerTest(t, input, []expectedToken{
		{NAT, "nat", 0, 1, 1},
		{IDENTIFIER, "x", 4, 1, 5},
		{SEMICOLON, ";", 5, 1, 6},
		{SKIP, "skip", 53, 5, 13},
	})
}

func TestLexerOperators(t *testing.T) {
	runLexerTest(t, "<= < >= > = != || & xor not - ^ % /", []expectedToken{
		{BINARY_OP, "<=", 0, 1, 1},
		{BINARY_OP, "<", 3, 1, 4},
		{BINARY_OP, ">=", 5, 1, 6},
		{BINARY_OP, ">", 8, 1, 9},
		{BINARY_OP, "=", 10, 1, 11},
		{BINARY_OP, "!=", 12, 1, 13},
		{BINARY_OP, "||", 15, 1, 16},
		{BINARY_OP, "&", 18, 1, 19},
		{BINARY_OP, "xor", 20, 1, 21},
		{NOT, "not", 24, 1, 25},
		{MINUS, "-", 28, 1, 29},
		{BINARY_OP, "^", 30, 1, 31},
		{BINARY_OP, "%", 32, 1, 33},
		{BINARY_OP, "/", 34, 1, 35},
	})
}

func TestLexerQueriesAndCommands(t *testing.T) {
	runLexerTest(t, "?Ex[x] ?Pr ?Opt !Print !Plot", []expectedToken{
		{QUERY_EX, "?Ex", 0, 1, 1},
		{LBRACKET, "[", 3, 1, 4},
		{IDENTIFIER, "x", 4, 1, 5},
		{RBRACKET, "]", 5, 1, 6},
		{QUERY_PR, "?Pr", 7, 1, 8},
		{QUERY_OPT, "?Opt", 11, 1, 12},
		{PRINT, "!Print", 16, 1, 17},
		{PLOT, "!Plot", 23, 1, 24},
	})
}

func TestLexerDistributions(t *testing.T) {
	runLexerTest(t, "unif_d categorical iid unif", []expectedToken{
		{DISTRIBUTION, "unif_d", 0, 1, 1},
		{CATEGORICAL, "categorical", 7, 1, 8},
		{IID, "iid", 19, 1, 20},
		{IDENTIFIER, "unif", 23, 1, 24},
	})
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		errorContains string
	}{
		{"unknown character", "x := $", "unexpected character '$'"},
		{"unknown command", "?Foo", "unknown query or command"},
		{"unterminated comment", "skip /* never closed", "unterminated block comment"},
		{"embedded nul", "x := 1\x00 y := 2", "unexpected character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(strings.NewReader(tt.input))
			var err error
			for err == nil {
				var tok Token
				tok, err = lexer.Next()
				if tok.Kind == eof && err == nil {
					t.Fatalf("reached end of input without an error")
				}
			}
			assert.ErrorIs(t, err, ErrSyntax)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

// Every reserved word of the language lexes as something other than an
// identifier and nothing else is reserved.
func TestKeywordsMatchAst(t *testing.T) {
	for word := range keywordTokens {
		assert.True(t, ast.IsKeyword(word), "%s is lexed as a keyword but not reserved", word)
	}
	for _, word := range ast.Keywords() {
		_, ok := keywordTokens[word]
		assert.True(t, ok, "%s is reserved but lexed as an identifier", word)
	}
}
