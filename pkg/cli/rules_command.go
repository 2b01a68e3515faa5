package cli

import (
	"fmt"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/config"
	"github.com/agentkit-dev/agentkit/pkg/console"
	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/validator"
	"github.com/spf13/cobra"
)

var rulesLog = logger.New("cli:rules_command")

// ruleDetail is the text view of one rule.
type ruleDetail struct {
	Code        string             `console:"header:Code"`
	Severity    validator.Severity `console:"header:Default severity"`
	Title       string             `console:"header:Title"`
	Description string             `console:"header:Description"`
	Hint        string             `console:"header:Hint,omitempty"`
}

// NewRulesCommand creates the rules command
func NewRulesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules [code]",
		Short: "List finding codes or explain one",
		Long: `List every finding code in the rule catalog, or show the title, default severity,
description and hint of a single code.

Examples:
  ` + constants.CLIName + ` rules                      # Table of all rules
  ` + constants.CLIName + ` rules E_CYCLE_DETECTED     # Explain one rule
  ` + constants.CLIName + ` rules --format json        # Catalog as JSON`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = config.FormatText
			}
			if format != config.FormatText && format != config.FormatJSON {
				return fmt.Errorf("unknown output format %q (want one of %v)", format, config.Formats)
			}

			if len(args) == 0 {
				return writeRuleList(cmd, format)
			}

			code := strings.TrimSpace(args[0])
			rule, ok := validator.GetRule(code)
			if !ok {
				rulesLog.Printf("Unknown rule code: %s", code)
				fmt.Fprintln(cmd.ErrOrStderr(), console.FormatErrorMessage("Unknown rule code: "+code, console.StderrColorEnabled()))
				return exitWith(ExitFindings)
			}
			if format == config.FormatJSON {
				out, err := console.MarshalJSON(rule)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), console.RenderStruct(ruleDetail{
				Code:        rule.Code,
				Severity:    rule.DefaultSeverity,
				Title:       rule.Title,
				Description: rule.Description,
				Hint:        rule.Hint,
			}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text or json")
	return cmd
}

func writeRuleList(cmd *cobra.Command, format string) error {
	rules := validator.ListRules()
	rulesLog.Printf("Listing %d rules as %s", len(rules), format)

	if format == config.FormatJSON {
		out, err := console.MarshalJSON(rules)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}

	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []string{r.Code, string(r.DefaultSeverity), r.Title})
	}
	fmt.Fprint(cmd.OutOrStdout(), console.RenderTable(console.TableConfig{
		Headers: []string{"Code", "Severity", "Title"},
		Rows:    rows,
	}, console.ColorEnabled()))
	return nil
}
