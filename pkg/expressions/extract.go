package expressions

import (
	"fmt"
	"iter"
	"regexp"
	"slices"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/sliceutil"
)

var extractLog = logger.New("expressions:extract")

// templateRegex matches {{ <content> }}. Content cannot contain '}' and there
// is no escaping of the delimiters.
var templateRegex = regexp.MustCompile(`{{\s*([^}]+?)\s*}}`)

// Occurrence is one template expression found in a document.
type Occurrence struct {
	// JSONPath points at the string leaf containing the template.
	JSONPath string
	// Expr is the trimmed content between the braces.
	Expr string
}

// Occurrences lazily walks value depth first and yields every template
// expression found in string leaves. Map keys are visited in sorted order and
// appended as ".key"; sequence elements are appended as "[i]". basePath
// defaults to "$".
func Occurrences(value any, basePath string) iter.Seq[Occurrence] {
	if basePath == "" {
		basePath = "$"
	}
	return func(yield func(Occurrence) bool) {
		walkOccurrences(value, basePath, yield)
	}
}

// ExtractExpressions collects Occurrences into a slice.
func ExtractExpressions(value any, basePath string) []Occurrence {
	occurrences := slices.Collect(Occurrences(value, basePath))
	extractLog.Printf("Extracted %d expression occurrences", len(occurrences))
	return occurrences
}

func walkOccurrences(value any, path string, yield func(Occurrence) bool) bool {
	switch v := value.(type) {
	case string:
		for _, m := range templateRegex.FindAllStringSubmatch(v, -1) {
			if !yield(Occurrence{JSONPath: path, Expr: strings.TrimSpace(m[1])}) {
				return false
			}
		}
	case []any:
		for i, item := range v {
			if !walkOccurrences(item, fmt.Sprintf("%s[%d]", path, i), yield) {
				return false
			}
		}
	case map[string]any:
		for _, key := range sliceutil.SortedKeys(v) {
			if !walkOccurrences(v[key], path+"."+key, yield) {
				return false
			}
		}
	}
	return true
}
