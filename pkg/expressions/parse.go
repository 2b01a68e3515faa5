package expressions

import "github.com/agentkit-dev/agentkit/pkg/logger"

var parseLog = logger.New("expressions:parse")

// Parse runs the syntax gate over expr: it tokenizes and checks that
// parentheses balance. No AST is built; expressions are never evaluated here.
// The returned error is always a *SyntaxError.
func Parse(expr string) error {
	tokens, err := Tokenize(expr)
	if err != nil {
		return err
	}

	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth < 0 {
				parseLog.Printf("Unexpected ')' at %d", tok.Pos)
				return &SyntaxError{Pos: tok.Pos, Msg: "Unbalanced parentheses"}
			}
		}
	}
	if depth != 0 {
		return &SyntaxError{Pos: -1, Msg: "Unbalanced parentheses"}
	}
	return nil
}
