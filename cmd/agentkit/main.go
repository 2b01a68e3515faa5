package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentkit-dev/agentkit/pkg/cli"
	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/spf13/cobra"
)

// Build-time variables.
var (
	version = "dev"
)

var mainLog = logger.New("main:main")

var rootCmd = &cobra.Command{
	Use:     constants.CLIName,
	Short:   "Validate and lint agent definitions",
	Version: version,
	Long: `agentkit checks agent definitions before they run: structure, step types and params,
expressions, flow graph, inline secrets and declared permissions.

Common Tasks:
  ` + constants.CLIName + ` validate agent.yaml    # Validate a definition
  ` + constants.CLIName + ` lint agents/           # Lint every definition in a directory
  ` + constants.CLIName + ` admit agent.yaml       # Runtime admission check (JSON)
  ` + constants.CLIName + ` rules                  # List finding codes

For detailed help on any command, use:
  ` + constants.CLIName + ` [command] --help`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", constants.CLIName, constants.CLIVersion)
	},
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "validation",
		Title: "Validation Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "utilities",
		Title: "Utilities:",
	})

	validateCmd := cli.NewValidateCommand()
	lintCmd := cli.NewLintCommand()
	admitCmd := cli.NewAdmitCommand()
	rulesCmd := cli.NewRulesCommand()
	fmtCmd := cli.NewFmtCommand()
	genSchemaCmd := cli.NewGenSchemaCommand()
	mcpServerCmd := cli.NewMCPServerCommand()

	validateCmd.GroupID = "validation"
	lintCmd.GroupID = "validation"
	admitCmd.GroupID = "validation"
	rulesCmd.GroupID = "utilities"
	fmtCmd.GroupID = "utilities"
	genSchemaCmd.GroupID = "utilities"
	mcpServerCmd.GroupID = "utilities"

	rootCmd.AddCommand(validateCmd, lintCmd, admitCmd, rulesCmd, fmtCmd, genSchemaCmd, mcpServerCmd, versionCmd)
}

func main() {
	constants.CLIVersion = constants.Version(version)
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		mainLog.Printf("Command failed: %v", err)
		cli.PrintValidationError(os.Stderr, err)
	}
	os.Exit(cli.ExitCode(err))
}
