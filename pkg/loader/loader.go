// Package loader reads agent definition files into the plain value tree the
// validator works on.
//
// JSON and YAML are both decoded with github.com/goccy/go-yaml (JSON is a
// subset of YAML), so a document's shape does not depend on its format.
// Mappings with non-string keys are converted to map[string]any with the
// keys formatted as strings.
package loader

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/goccy/go-yaml"
)

var log = logger.New("loader:loader")

// ErrEmptyDocument is returned for files with no content.
var ErrEmptyDocument = errors.New("document is empty")

// LoadFile reads and decodes the document at path.
func LoadFile(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	log.Printf("Loaded %s (%d top-level keys)", path, len(doc))
	return doc, nil
}

// Parse decodes content, which must hold a single mapping.
func Parse(content []byte) (map[string]any, error) {
	if strings.TrimSpace(string(content)) == "" {
		return nil, ErrEmptyDocument
	}

	var raw any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrEmptyDocument
	}

	doc, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root must be a mapping, got %T", raw)
	}
	return doc, nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	}
	return v
}
