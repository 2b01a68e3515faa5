//go:build !integration

package cli

import (
	"context"
	"testing"

	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/validator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTools() *mcpTools {
	return &mcpTools{log: logger.NewSlogLogger("cli:mcp_server_test")}
}

func TestMCPValidateAgent(t *testing.T) {
	tools := testTools()
	cycle := writeFile(t, t.TempDir(), "cycle.json", cycleAgentJSON)

	t.Run("path", func(t *testing.T) {
		_, out, err := tools.validateAgent(context.Background(), nil, validateAgentArgs{Path: cycle})
		require.NoError(t, err)
		assert.False(t, out.Valid)
		require.Len(t, out.Findings, 1)
		assert.Equal(t, validator.CodeCycleDetected, out.Findings[0].Code)
		assert.Equal(t, cycle, out.Findings[0].File)
		assert.NotEmpty(t, out.Findings[0].Hint)
	})

	t.Run("content", func(t *testing.T) {
		_, out, err := tools.validateAgent(context.Background(), nil, validateAgentArgs{Content: cleanAgentYAML})
		require.NoError(t, err)
		assert.True(t, out.Valid)
		assert.NotNil(t, out.Findings)
		assert.Empty(t, out.Findings)
	})

	t.Run("policy", func(t *testing.T) {
		_, out, err := tools.validateAgent(context.Background(), nil, validateAgentArgs{Content: lintAgentYAML, Policy: "strict"})
		require.NoError(t, err)
		assert.False(t, out.Valid)
		assert.Len(t, out.Findings, 3)
	})

	t.Run("no input", func(t *testing.T) {
		_, _, err := tools.validateAgent(context.Background(), nil, validateAgentArgs{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "either path or content")
	})

	t.Run("unparsable content", func(t *testing.T) {
		_, _, err := tools.validateAgent(context.Background(), nil, validateAgentArgs{Content: "- just\n- a list\n"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "document root must be a mapping")
	})
}

func TestMCPRuleTools(t *testing.T) {
	tools := testTools()

	_, list, err := tools.listRules(context.Background(), nil, listRulesArgs{})
	require.NoError(t, err)
	assert.Equal(t, validator.ListRules(), list.Rules)

	_, rule, err := tools.explainRule(context.Background(), nil, explainRuleArgs{Code: validator.CodeFlowTargetMissing})
	require.NoError(t, err)
	assert.Equal(t, validator.CodeFlowTargetMissing, rule.Code)

	_, _, err = tools.explainRule(context.Background(), nil, explainRuleArgs{Code: "E_NOPE"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rule code: E_NOPE")
}

func TestMCPServer_InMemory(t *testing.T) {
	ctx := context.Background()
	server := newMCPServer(testTools())

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"validate_agent", "list_rules", "explain_rule"}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "validate_agent",
		Arguments: map[string]any{"content": cleanAgentYAML},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "explain_rule",
		Arguments: map[string]any{"code": "E_NOPE"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError, "unknown codes are reported as tool errors")
}
