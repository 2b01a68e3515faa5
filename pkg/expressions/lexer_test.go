//go:build !integration

package expressions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenize_Valid(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		kinds  []TokenKind
		values []string
	}{
		{
			name:   "property path",
			expr:   "input.lead.email",
			kinds:  []TokenKind{TokenIdent, TokenDot, TokenIdent, TokenDot, TokenIdent},
			values: []string{"input", ".", "lead", ".", "email"},
		},
		{
			name:   "bracket access with string",
			expr:   `steps["a"].outputs['text']`,
			kinds:  []TokenKind{TokenIdent, TokenLBracket, TokenString, TokenRBracket, TokenDot, TokenIdent, TokenLBracket, TokenString, TokenRBracket},
			values: []string{"steps", "[", `"a"`, "]", ".", "outputs", "[", "'text'", "]"},
		},
		{
			name:   "two char operators before one char",
			expr:   "input.a >= 10 && !runtime.b",
			kinds:  []TokenKind{TokenIdent, TokenDot, TokenIdent, TokenOperator, TokenNumber, TokenOperator, TokenOperator, TokenIdent, TokenDot, TokenIdent},
			values: []string{"input", ".", "a", ">=", "10", "&&", "!", "runtime", ".", "b"},
		},
		{
			name:   "number with decimal",
			expr:   "input.x * 1.5",
			kinds:  []TokenKind{TokenIdent, TokenDot, TokenIdent, TokenOperator, TokenNumber},
			values: []string{"input", ".", "x", "*", "1.5"},
		},
		{
			name:   "parentheses and whitespace",
			expr:   "  ( input.a || input.b )  ",
			kinds:  []TokenKind{TokenLParen, TokenIdent, TokenDot, TokenIdent, TokenOperator, TokenIdent, TokenDot, TokenIdent, TokenRParen},
			values: []string{"(", "input", ".", "a", "||", "input", ".", "b", ")"},
		},
		{
			name:   "string containing an operator",
			expr:   `input.a == "x != y"`,
			kinds:  []TokenKind{TokenIdent, TokenDot, TokenIdent, TokenOperator, TokenString},
			values: []string{"input", ".", "a", "==", `"x != y"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.kinds, kinds(tokens))
			values := make([]string, len(tokens))
			for i, tok := range tokens {
				values[i] = tok.Value
			}
			assert.Equal(t, tt.values, values)
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := Tokenize("  input.a")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, 0, tokens[0].Pos, "positions are relative to the trimmed expression")
	assert.Equal(t, 5, tokens[1].Pos)
	assert.Equal(t, 6, tokens[2].Pos)
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantMsg string
	}{
		{name: "semicolon", expr: "input.a; input.b", wantMsg: "Illegal character in expression"},
		{name: "backtick", expr: "`input`", wantMsg: "Illegal character in expression"},
		{name: "open brace", expr: "input.{a", wantMsg: "Illegal character in expression"},
		{name: "close brace", expr: "input.a}", wantMsg: "Illegal character in expression"},
		{name: "illegal char wins over forbidden keyword", expr: "eval; x", wantMsg: "Illegal character in expression"},
		{name: "unterminated double quote", expr: `input.a == "abc`, wantMsg: "Unterminated string literal"},
		{name: "unterminated single quote", expr: `'abc`, wantMsg: "Unterminated string literal"},
		{name: "forbidden keyword", expr: "eval(input.a)", wantMsg: "Forbidden keyword: eval"},
		{name: "forbidden keyword as property", expr: "input.constructor.new", wantMsg: "Forbidden keyword: new"},
		{name: "forbidden function", expr: "function", wantMsg: "Forbidden keyword: function"},
		{name: "single equals", expr: "input.a = 1", wantMsg: "Unexpected character '='"},
		{name: "dollar sign", expr: "$input", wantMsg: "Unexpected character '$'"},
		{name: "comma", expr: "input.a, input.b", wantMsg: "Unexpected character ','"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.expr)
			require.Error(t, err)
			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.wantMsg, se.Msg)
		})
	}
}

func TestTokenize_ForbiddenIdentifierPrefix(t *testing.T) {
	// Only whole identifiers are forbidden.
	_, err := Tokenize("input.format.newest")
	assert.NoError(t, err)
}

func TestTokenKindString(t *testing.T) {
	assert.Equal(t, "ident", TokenIdent.String())
	assert.Equal(t, "op", TokenOperator.String())
	assert.Equal(t, "TokenKind(99)", TokenKind(99).String())
}
