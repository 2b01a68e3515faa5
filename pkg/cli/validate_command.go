package cli

import (
	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/spf13/cobra"
)

var validateLog = logger.New("cli:validate_command")

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	var flags checkFlags
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate agent definitions",
		Long: `Validate one or more agent definitions with the full pipeline: structural schema
check, step types and params, expressions, flow graph, lint rules, inline secrets
and declared permissions. The selected policy decides which findings are reported
and at what severity.

Directories are searched recursively for .json, .yaml and .yml files.

Exit status is 0 when no finding is an error, 1 when at least one is, and 2 when
a file could not be loaded or checked.

Examples:
  ` + constants.CLIName + ` validate agent.yaml                  # Validate one definition
  ` + constants.CLIName + ` validate agents/                     # Validate every definition in a directory
  ` + constants.CLIName + ` validate agent.yaml --format json    # Output findings as JSON
  ` + constants.CLIName + ` validate agent.yaml --strict         # Treat warnings as errors
  ` + constants.CLIName + ` validate agent.yaml --policy runtime # Use the runtime policy pack
  ` + constants.CLIName + ` validate agent.yaml -r steps.yaml    # Add step types from a registry file
  ` + constants.CLIName + ` validate agents/ --watch             # Re-validate on every change`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validateLog.Printf("Running validate command: args=%v, watch=%v", args, watch)

			settings, err := flags.resolve("", "")
			if err != nil {
				return err
			}
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			runErr := writeReport(cmd, RunFiles(settings.runConfig(ModeValidate, files)), settings.format)
			if !watch {
				return runErr
			}
			return watchFiles(cmd, files, func() {
				_ = writeReport(cmd, RunFiles(settings.runConfig(ModeValidate, files)), settings.format)
			})
		},
	}

	addCheckFlags(cmd, &flags)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-validate whenever a file changes, until interrupted")

	return cmd
}
