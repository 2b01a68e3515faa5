package registry

import (
	"fmt"

	"github.com/agentkit-dev/agentkit/pkg/logger"
)

var mergeLog = logger.New("registry:merge")

// Merge combines base with extras into a new Registry. A step type defined in
// more than one input is an error naming both sources; step types cannot be
// overridden.
func Merge(base Registry, extras ...Registry) (Registry, error) {
	out := base.Clone()
	for _, extra := range extras {
		for _, t := range extra.Types() {
			def := extra[t]
			if existing, ok := out[t]; ok {
				return nil, fmt.Errorf("duplicate step type %q: defined by %s and %s", t, sourceOf(existing), sourceOf(def))
			}
			out[t] = def
		}
	}
	mergeLog.Printf("Merged %d registries into %d step types", len(extras)+1, len(out))
	return out, nil
}

func sourceOf(def *StepTypeDef) string {
	if def.Source == "" {
		return "<unknown>"
	}
	return def.Source
}
