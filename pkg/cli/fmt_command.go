package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/console"
	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/loader"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/sliceutil"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var fmtLog = logger.New("cli:fmt_command")

// NewFmtCommand creates the fmt command
func NewFmtCommand() *cobra.Command {
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "fmt <path>...",
		Short: "Rewrite agent definitions with sorted keys",
		Long: `Rewrite agent definitions in a deterministic layout: mapping keys sorted at every
level, two-space indentation. .json files are written as JSON and .yaml/.yml
files as YAML. Comments in YAML files are not preserved.

Examples:
  ` + constants.CLIName + ` fmt agent.yaml            # Rewrite in place
  ` + constants.CLIName + ` fmt agents/               # Rewrite every definition in a directory
  ` + constants.CLIName + ` fmt agent.json --stdout   # Print instead of writing`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			collector := NewErrorCollector(false)
			for _, file := range files {
				_ = collector.Add(formatFile(cmd, file, toStdout))
			}
			return collector.FormattedError("format")
		},
	}

	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print formatted output instead of rewriting files")
	return cmd
}

func formatFile(cmd *cobra.Command, file string, toStdout bool) error {
	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	original, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	doc, err := loader.Parse(original)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}

	formatted, err := FormatDocument(doc, isYAMLFile(file))
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", file, err)
	}

	if toStdout {
		_, err := cmd.OutOrStdout().Write(formatted)
		return err
	}
	if bytes.Equal(original, formatted) {
		fmtLog.Printf("%s already formatted", file)
		return nil
	}
	if err := os.WriteFile(file, formatted, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), console.FormatSuccessMessage("Formatted "+file, console.StderrColorEnabled()))
	return nil
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// FormatDocument renders doc with keys sorted at every level, as YAML or
// as two-space indented JSON. Both end in a newline.
func FormatDocument(doc map[string]any, asYAML bool) ([]byte, error) {
	if !asYAML {
		out, err := console.MarshalJSON(doc)
		return []byte(out), err
	}
	return yaml.MarshalWithOptions(sortKeysDeep(doc), yaml.Indent(2))
}

// sortKeysDeep converts mappings to yaml.MapSlice in key order.
func sortKeysDeep(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(yaml.MapSlice, 0, len(t))
		for _, k := range sliceutil.SortedKeys(t) {
			out = append(out, yaml.MapItem{Key: k, Value: sortKeysDeep(t[k])})
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = sortKeysDeep(item)
		}
		return out
	}
	return v
}
