package cli

import (
	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/spf13/cobra"
)

var lintLog = logger.New("cli:lint_command")

// NewLintCommand creates the lint command
func NewLintCommand() *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "lint <path>...",
		Short: "Run maintainability lint rules on agent definitions",
		Long: `Run only the lint rules: missing description, missing metadata.owner, missing
error_handling and action steps without params.idempotency_key. The definition is
not otherwise validated.

Lint findings are warnings, so lint passes unless the policy escalates them
(--strict or --policy ci).

Examples:
  ` + constants.CLIName + ` lint agent.yaml           # Report lint warnings
  ` + constants.CLIName + ` lint agents/ --strict     # Fail on any lint warning
  ` + constants.CLIName + ` lint agent.yaml -f json   # Output findings as JSON`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lintLog.Printf("Running lint command: args=%v", args)

			settings, err := flags.resolve("", "")
			if err != nil {
				return err
			}
			files, err := expandFiles(args)
			if err != nil {
				return err
			}
			return writeReport(cmd, RunFiles(settings.runConfig(ModeLint, files)), settings.format)
		},
	}

	addCheckFlags(cmd, &flags)
	return cmd
}
