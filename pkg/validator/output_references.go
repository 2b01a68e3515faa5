package validator

import "regexp"

// OutputRef is a reference to steps.<StepID>.outputs.<Key> inside an
// expression.
type OutputRef struct {
	StepID string
	Key    string
}

// Dot form steps.a.outputs.text and bracket form steps["a"].outputs["text"].
// These are pattern matches over the raw expression, not a parse: a reference
// inside a string literal is still reported.
var (
	outputRefDotPattern     = regexp.MustCompile(`\bsteps\.([A-Za-z_][A-Za-z0-9_-]*)\.outputs\.([A-Za-z_][A-Za-z0-9_-]*)\b`)
	outputRefBracketPattern = regexp.MustCompile(`\bsteps\[["']([A-Za-z_][A-Za-z0-9_-]*)["']\]\.outputs\[["']([A-Za-z_][A-Za-z0-9_-]*)["']\]`)
)

// ExtractOutputRefs returns every output reference in expr: dot-form matches
// first, then bracket-form matches, each in order of appearance.
func ExtractOutputRefs(expr string) []OutputRef {
	var refs []OutputRef
	for _, re := range []*regexp.Regexp{outputRefDotPattern, outputRefBracketPattern} {
		for _, m := range re.FindAllStringSubmatch(expr, -1) {
			refs = append(refs, OutputRef{StepID: m[1], Key: m[2]})
		}
	}
	return refs
}
