package cli

import (
	"fmt"

	"github.com/agentkit-dev/agentkit/pkg/config"
	"github.com/agentkit-dev/agentkit/pkg/console"
	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/fileutil"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/registry"
	"github.com/agentkit-dev/agentkit/pkg/validator"
	"github.com/spf13/cobra"
)

var settingsLog = logger.New("cli:settings")

// checkFlags are the flags shared by validate, lint and admit.
type checkFlags struct {
	policy     string
	format     string
	configPath string
	strict     bool
	failFast   bool
	registries []string
}

func addCheckFlags(cmd *cobra.Command, f *checkFlags) {
	cmd.Flags().StringVarP(&f.policy, "policy", "p", "", "Policy pack: default, strict, runtime, ci or a custom pack from the config file")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: text or json")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Treat warnings as errors (same as --policy strict)")
	cmd.Flags().StringSliceVarP(&f.registries, "registry", "r", nil, "Step registry file merged over the built-in step types (repeatable)")
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file (default: agentkit.config.yaml in the current directory)")
	cmd.Flags().BoolVar(&f.failFast, "fail-fast", false, "Stop at the first failing file instead of checking all files")
}

// checkSettings is checkFlags resolved against the config file.
type checkSettings struct {
	policy   string
	format   string
	failFast bool
	policies *validator.PolicyRegistry
	registry registry.Registry
}

// resolve applies precedence: --strict, then flags, then the command
// defaults (admit), then the config file and environment.
func (f *checkFlags) resolve(defaultPolicy, defaultFormat string) (*checkSettings, error) {
	cfg, err := config.Discover(f.configPath, ".")
	if err != nil {
		return nil, err
	}

	policyFlag := f.policy
	switch {
	case f.strict:
		policyFlag = string(constants.PolicyStrict)
	case policyFlag == "":
		policyFlag = defaultPolicy
	}
	formatFlag := f.format
	if formatFlag == "" {
		formatFlag = defaultFormat
	}

	format, err := cfg.ResolveFormat(formatFlag)
	if err != nil {
		return nil, err
	}
	policies, err := cfg.PolicyRegistry()
	if err != nil {
		return nil, err
	}
	reg, err := cfg.StepRegistry(f.registries...)
	if err != nil {
		return nil, err
	}

	s := &checkSettings{
		policy:   cfg.ResolvePolicy(policyFlag),
		format:   format,
		failFast: f.failFast,
		policies: policies,
		registry: reg,
	}
	if _, ok := policies.Lookup(s.policy); !ok {
		settingsLog.Printf("Unknown policy %q, falling back to %s", s.policy, constants.PolicyDefault)
	}
	settingsLog.Printf("Resolved settings: policy=%s, format=%s, step_types=%d", s.policy, s.format, len(reg))
	return s, nil
}

func (s *checkSettings) runConfig(mode Mode, files []string) RunConfig {
	return RunConfig{
		Files:    files,
		Mode:     mode,
		Policy:   s.policy,
		Policies: s.policies,
		Registry: s.registry,
		FailFast: s.failFast,
	}
}

// expandFiles turns arguments into files. Directories are walked for
// document files; anything else is kept as given so a missing file is
// reported by the run rather than here.
func expandFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if !fileutil.DirExists(arg) {
			files = append(files, arg)
			continue
		}
		expanded, err := fileutil.ExpandDocumentPaths([]string{arg})
		if err != nil {
			return nil, err
		}
		files = append(files, expanded...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no agent definition files found in %v (looked for %v)", args, fileutil.DocumentExtensions)
	}
	return files, nil
}

// writeReport renders the run to stdout, prints a summary to stderr for
// multi-file text runs and returns the exit error for the run.
func writeReport(cmd *cobra.Command, report Report, format string) error {
	findings := report.Findings()

	var out string
	if format == config.FormatJSON {
		rendered, err := console.RenderFindingsJSON(findings)
		if err != nil {
			return err
		}
		out = rendered
	} else {
		out = console.RenderFindingsText(findings, console.ColorEnabled())
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if format == config.FormatText && len(report.Results) > 1 {
		summary := console.FormatSummary(findings, len(report.Results))
		fmt.Fprintln(cmd.ErrOrStderr(), console.FormatInfoMessage(summary, console.StderrColorEnabled()))
	}
	return exitWith(report.ExitCode())
}
