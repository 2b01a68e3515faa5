// This file provides the mcp-server command.
//
// # MCP Server
//
// The server speaks the Model Context Protocol over stdio so coding agents
// can validate the definitions they write. It exposes three tools:
//   - validate_agent: run the full pipeline over a file or inline content
//   - list_rules: the rule catalog
//   - explain_rule: one catalog entry by code
//
// Step registries and custom policy packs come from the same config file
// and --registry flags as the validate command, resolved once at startup.

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agentkit-dev/agentkit/pkg/config"
	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/loader"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/registry"
	"github.com/agentkit-dev/agentkit/pkg/validator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpServerLog = logger.New("cli:mcp_server")

type validateAgentArgs struct {
	Path    string `json:"path,omitempty" jsonschema:"path to an agent definition file (.json, .yaml or .yml)"`
	Content string `json:"content,omitempty" jsonschema:"agent definition as JSON or YAML text, used when path is empty"`
	Policy  string `json:"policy,omitempty" jsonschema:"policy pack name (default, strict, runtime, ci or a custom pack)"`
}

type validateAgentResult struct {
	Valid    bool                `json:"valid"`
	Findings []validator.Finding `json:"findings"`
}

type listRulesArgs struct{}

type listRulesResult struct {
	Rules []validator.RuleMeta `json:"rules"`
}

type explainRuleArgs struct {
	Code string `json:"code" jsonschema:"finding code, for example E_CYCLE_DETECTED"`
}

// mcpTools holds what the tool handlers share.
type mcpTools struct {
	policies *validator.PolicyRegistry
	registry registry.Registry
	log      *slog.Logger
}

func newMCPServer(tools *mcpTools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    constants.CLIName,
		Version: constants.CLIVersion.String(),
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_agent",
		Description: "Validate an agent definition and return its findings. Pass either path or content.",
	}, tools.validateAgent)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_rules",
		Description: "List every finding code with its default severity, title, description and hint.",
	}, tools.listRules)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "explain_rule",
		Description: "Explain one finding code.",
	}, tools.explainRule)

	return server
}

func (t *mcpTools) validateAgent(ctx context.Context, _ *mcp.CallToolRequest, args validateAgentArgs) (*mcp.CallToolResult, validateAgentResult, error) {
	var doc map[string]any
	var err error
	switch {
	case args.Path != "":
		doc, err = loader.LoadFile(args.Path)
	case args.Content != "":
		doc, err = loader.Parse([]byte(args.Content))
	default:
		err = errors.New("either path or content is required")
	}
	if err != nil {
		t.log.WarnContext(ctx, "validate_agent failed to load", "path", args.Path, "error", err)
		return nil, validateAgentResult{}, err
	}

	findings, err := checkDocument(doc, RunConfig{
		Mode:     ModeValidate,
		Policy:   args.Policy,
		Policies: t.policies,
		Registry: t.registry,
	})
	if err != nil {
		return nil, validateAgentResult{}, err
	}
	if args.Path != "" {
		findings = validator.WithFile(findings, args.Path)
	}
	findings = validator.NormalizeFindings(findings)

	t.log.InfoContext(ctx, "validate_agent", "path", args.Path, "policy", args.Policy, "findings", len(findings))
	return nil, validateAgentResult{
		Valid:    !validator.HasErrors(findings),
		Findings: findings,
	}, nil
}

func (t *mcpTools) listRules(ctx context.Context, _ *mcp.CallToolRequest, _ listRulesArgs) (*mcp.CallToolResult, listRulesResult, error) {
	rules := validator.ListRules()
	t.log.DebugContext(ctx, "list_rules", "count", len(rules))
	return nil, listRulesResult{Rules: rules}, nil
}

func (t *mcpTools) explainRule(ctx context.Context, _ *mcp.CallToolRequest, args explainRuleArgs) (*mcp.CallToolResult, validator.RuleMeta, error) {
	rule, ok := validator.GetRule(args.Code)
	if !ok {
		return nil, validator.RuleMeta{}, fmt.Errorf("unknown rule code: %s", args.Code)
	}
	t.log.DebugContext(ctx, "explain_rule", "code", args.Code)
	return nil, rule, nil
}

// NewMCPServerCommand creates the mcp-server command
func NewMCPServerCommand() *cobra.Command {
	var configPath string
	var registries []string

	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve validation tools over the Model Context Protocol (stdio)",
		Long: `Run an MCP server on stdin/stdout exposing the tools validate_agent, list_rules and
explain_rule. Step registries and policy packs are loaded from the config file
and --registry flags once at startup.

Set DEBUG=cli:* to log tool calls to stderr.

Examples:
  ` + constants.CLIName + ` mcp-server                     # Serve with the built-in step types
  ` + constants.CLIName + ` mcp-server -r steps.yaml       # Serve with extra step types`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Discover(configPath, ".")
			if err != nil {
				return err
			}
			policies, err := cfg.PolicyRegistry()
			if err != nil {
				return err
			}
			reg, err := cfg.StepRegistry(registries...)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			mcpServerLog.Printf("Starting MCP server: step_types=%d, policies=%v", len(reg), policies.Names())
			server := newMCPServer(&mcpTools{
				policies: policies,
				registry: reg,
				log:      logger.NewSlogLogger("cli:mcp_server"),
			})
			if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default: agentkit.config.yaml in the current directory)")
	cmd.Flags().StringSliceVarP(&registries, "registry", "r", nil, "Step registry file merged over the built-in step types (repeatable)")
	return cmd
}
