//go:build !integration

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const cleanAgentYAML = `schema_version: "1.0.0"
kind: agent_definition
id: support-triage
name: Support triage
description: Classifies incoming tickets.
template_version: "1.0.0"
metadata:
  owner: support-team
error_handling:
  retries: 1
trigger:
  type: manual
flow:
  entrypoint: classify
steps:
  - id: classify
    type: llm.prompt
    params:
      user_prompt: "Classify {{ input.ticket }}"
    outputs:
      text: {}
    flow:
      next: summarize
  - id: summarize
    type: llm.prompt
    params:
      user_prompt: "Summarize {{ steps.classify.outputs.text }}"
permissions:
  llm: {}
`

// lintAgentYAML is structurally valid but has no description, owner or
// error_handling.
const lintAgentYAML = `schema_version: "1.0.0"
kind: agent_definition
id: bare
name: Bare
template_version: "1.0.0"
trigger:
  type: manual
flow:
  entrypoint: only
steps:
  - id: only
    type: llm.prompt
    params:
      user_prompt: hello
permissions:
  llm: {}
`

const cycleAgentJSON = `{
  "schema_version": "1.0.0",
  "kind": "agent_definition",
  "id": "loop",
  "name": "Loop",
  "description": "Loops forever.",
  "template_version": "1.0.0",
  "metadata": {"owner": "team"},
  "error_handling": {"retries": 0},
  "trigger": {"type": "manual"},
  "flow": {"entrypoint": "a"},
  "steps": [
    {"id": "a", "type": "llm.prompt", "params": {"user_prompt": "x"}, "flow": {"next": "b"}},
    {"id": "b", "type": "llm.prompt", "params": {"user_prompt": "y"}, "flow": {"next": "a"}}
  ],
  "permissions": {"llm": {}}
}
`

const brokenYAML = "steps: [\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	t.Setenv("AGENTKIT_POLICY", "")
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
