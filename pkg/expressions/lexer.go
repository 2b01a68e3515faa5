// This file provides the expression lexer.
//
// # Expression Lexer
//
// Expressions live inside {{ ... }} templates in agent definitions. The lexer
// turns the raw content of one template into tokens under a deliberately small
// grammar: identifiers, numbers, quoted strings, '.', parentheses, brackets
// and a fixed operator set.
//
// # Hardening
//
// Two checks run regardless of grammar:
//   - ';', '`', '{' and '}' anywhere in the input reject it before tokenizing
//     (statement separators and nested templating)
//   - the identifiers in constants.ForbiddenExpressionIdentifiers are rejected
//     even in property position
//
// This is a heuristic filter in front of whatever evaluates expressions later.
// It is not a sandbox and gives no guarantee that an accepted expression is
// safe to evaluate.
//
// String literals have no escape handling: the literal ends at the next
// matching quote.

package expressions

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/logger"
)

var lexerLog = logger.New("expressions:lexer")

// TokenKind classifies a token.
type TokenKind int

const (
	TokenIdent TokenKind = iota
	TokenNumber
	TokenString
	TokenDot
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenOperator
)

var tokenKindNames = map[TokenKind]string{
	TokenIdent:    "ident",
	TokenNumber:   "number",
	TokenString:   "string",
	TokenDot:      "dot",
	TokenLParen:   "lparen",
	TokenRParen:   "rparen",
	TokenLBracket: "lbrack",
	TokenRBracket: "rbrack",
	TokenOperator: "op",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexeme. Pos is the byte offset in the trimmed expression.
type Token struct {
	Kind  TokenKind
	Value string
	Pos   int
}

// SyntaxError is returned for any expression the lexer or the syntax gate
// rejects.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	if e.Pos < 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s at %d", e.Msg, e.Pos)
}

const illegalChars = ";`{}"

var (
	twoCharOperators = []string{"==", "!=", "<=", ">=", "&&", "||"}
	oneCharOperators = "+-*/%<>!"
	singleCharTokens = map[byte]TokenKind{
		'.': TokenDot,
		'(': TokenLParen,
		')': TokenRParen,
		'[': TokenLBracket,
		']': TokenRBracket,
	}
)

// Tokenize splits expr into tokens. It returns a *SyntaxError for illegal
// characters, forbidden identifiers, unterminated strings and characters
// outside the grammar.
func Tokenize(expr string) ([]Token, error) {
	if i := strings.IndexAny(expr, illegalChars); i >= 0 {
		lexerLog.Printf("Rejected illegal character %q in expression", expr[i])
		return nil, &SyntaxError{Pos: i, Msg: "Illegal character in expression"}
	}

	s := strings.TrimSpace(expr)
	var tokens []Token

	for i := 0; i < len(s); {
		c := s[i]

		if kind, ok := singleCharTokens[c]; ok {
			tokens = append(tokens, Token{Kind: kind, Value: string(c), Pos: i})
			i++
			continue
		}

		switch {
		case isSpace(c):
			i++

		case c == '\'' || c == '"':
			end := strings.IndexByte(s[i+1:], c)
			if end < 0 {
				return nil, &SyntaxError{Pos: i, Msg: "Unterminated string literal"}
			}
			j := i + 1 + end
			tokens = append(tokens, Token{Kind: TokenString, Value: s[i : j+1], Pos: i})
			i = j + 1

		case isDigit(c):
			j := i + 1
			for j < len(s) && (isDigit(s[j]) || s[j] == '.') {
				j++
			}
			tokens = append(tokens, Token{Kind: TokenNumber, Value: s[i:j], Pos: i})
			i = j

		case isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			ident := s[i:j]
			if slices.Contains(constants.ForbiddenExpressionIdentifiers, ident) {
				return nil, &SyntaxError{Pos: i, Msg: "Forbidden keyword: " + ident}
			}
			tokens = append(tokens, Token{Kind: TokenIdent, Value: ident, Pos: i})
			i = j

		default:
			if i+2 <= len(s) && slices.Contains(twoCharOperators, s[i:i+2]) {
				tokens = append(tokens, Token{Kind: TokenOperator, Value: s[i : i+2], Pos: i})
				i += 2
				continue
			}
			if strings.IndexByte(oneCharOperators, c) >= 0 {
				tokens = append(tokens, Token{Kind: TokenOperator, Value: string(c), Pos: i})
				i++
				continue
			}
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("Unexpected character '%c'", c)}
		}
	}

	return tokens, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
