package expressions

import (
	"regexp"
	"slices"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/constants"
)

var leadingIdentRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)

// ValidateNamespace extracts the leading identifier of expr and reports
// whether it is one of constants.AllowedExpressionRoots. root is empty when
// expr does not start with an identifier.
func ValidateNamespace(expr string) (root string, ok bool) {
	root = leadingIdentRegex.FindString(strings.TrimSpace(expr))
	if root == "" {
		return "", false
	}
	return root, slices.Contains(constants.AllowedExpressionRoots, root)
}
