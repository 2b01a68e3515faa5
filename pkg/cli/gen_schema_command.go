package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentkit-dev/agentkit/pkg/console"
	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/schema"
	"github.com/spf13/cobra"
)

var genSchemaLog = logger.New("cli:gen_schema_command")

// NewGenSchemaCommand creates the gen-schema command
func NewGenSchemaCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "gen-schema",
		Short: "Print the JSON Schema for agent definitions",
		Long: `Print the JSON Schema (draft 2020-12) that validate uses for its structural check.
Editors can use it for completion and inline errors.

With --out the schema is written to ` + constants.SchemaFileName + ` in that directory instead.

Examples:
  ` + constants.CLIName + ` gen-schema                  # Print to stdout
  ` + constants.CLIName + ` gen-schema --out schemas/   # Write schemas/` + constants.SchemaFileName,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := schema.GenerateJSON()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}

			if outDir == "" {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", outDir, err)
			}
			path := filepath.Join(outDir, constants.SchemaFileName)
			if err := os.WriteFile(path, content, 0o644); err != nil {
				return fmt.Errorf("failed to write schema: %w", err)
			}
			genSchemaLog.Printf("Wrote %d bytes to %s", len(content), path)
			fmt.Fprintln(cmd.ErrOrStderr(), console.FormatSuccessMessage("Wrote "+path, console.StderrColorEnabled()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory to write "+constants.SchemaFileName+" into")
	return cmd
}
