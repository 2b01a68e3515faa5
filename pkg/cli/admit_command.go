package cli

import (
	"github.com/agentkit-dev/agentkit/pkg/config"
	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/spf13/cobra"
)

var admitLog = logger.New("cli:admit_command")

// NewAdmitCommand creates the admit command
func NewAdmitCommand() *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "admit <path>...",
		Short: "Admission check for agent definitions before they run",
		Long: `Run the full validation pipeline as a runtime admission gate. Unlike validate,
admit defaults to the runtime policy pack and JSON output so the result can be
consumed by the runtime directly. Both can still be overridden with flags.

Examples:
  ` + constants.CLIName + ` admit agent.yaml                  # Admit with the runtime policy
  ` + constants.CLIName + ` admit agent.yaml --policy strict  # Admit with a stricter policy
  ` + constants.CLIName + ` admit agent.yaml --format text    # Human-readable output`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			admitLog.Printf("Running admit command: args=%v", args)

			settings, err := flags.resolve(string(constants.PolicyRuntime), config.FormatJSON)
			if err != nil {
				return err
			}
			files, err := expandFiles(args)
			if err != nil {
				return err
			}
			return writeReport(cmd, RunFiles(settings.runConfig(ModeValidate, files)), settings.format)
		},
	}

	addCheckFlags(cmd, &flags)
	return cmd
}
