// This file provides the multi-file run shared by validate, lint and admit.
//
// # File Runs
//
// Each file is loaded, checked and its findings stamped with the file path
// and normalized against the rule catalog. Files are checked concurrently,
// bounded by AGENTKIT_MAX_CONCURRENCY (default GOMAXPROCS), and results keep
// the order of the input files. With fail-fast the files are checked one
// after another and the run stops at the first failing file.
//
// A file that cannot be loaded, or whose check hits an internal fault, is
// reported as an E_CLI_INTERNAL finding at "$" and makes the run exit 2.

package cli

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/envutil"
	"github.com/agentkit-dev/agentkit/pkg/loader"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/registry"
	"github.com/agentkit-dev/agentkit/pkg/schema"
	"github.com/agentkit-dev/agentkit/pkg/validator"
	"github.com/sourcegraph/conc/iter"
)

var runLog = logger.New("cli:run")

// Mode selects what a run checks.
type Mode int

const (
	// ModeValidate runs the full pipeline with the structural check.
	ModeValidate Mode = iota
	// ModeLint runs the lint rules only and applies the policy.
	ModeLint
)

func (m Mode) String() string {
	if m == ModeLint {
		return "lint"
	}
	return "validate"
}

// RunConfig configures RunFiles.
type RunConfig struct {
	Files    []string
	Mode     Mode
	Policy   string
	Policies *validator.PolicyRegistry
	Registry registry.Registry
	FailFast bool
}

// FileResult is the outcome for one file. Err is set for load failures and
// internal faults; Findings may still be empty in that case.
type FileResult struct {
	File     string
	Findings []validator.Finding
	Err      error
}

var errFindings = errors.New("validation failed")

// failure returns the reason r fails the run, or nil.
func (r FileResult) failure() error {
	switch {
	case r.Err != nil:
		return fmt.Errorf("%s: %w", r.File, r.Err)
	case validator.HasErrors(r.Findings):
		return fmt.Errorf("%s: %w", r.File, errFindings)
	}
	return nil
}

// Report is the outcome of a run, in input file order.
type Report struct {
	Results []FileResult
}

// Findings returns all findings of the run. A result with an internal fault
// contributes an E_CLI_INTERNAL finding after its other findings.
func (r Report) Findings() []validator.Finding {
	var out []validator.Finding
	for _, res := range r.Results {
		out = append(out, res.Findings...)
		if res.Err != nil {
			out = append(out, internalFinding(res.File, res.Err))
		}
	}
	return out
}

// ExitCode is ExitInternal when any file hit a fault, ExitFindings when any
// finding is an error and ExitOK otherwise.
func (r Report) ExitCode() int {
	code := ExitOK
	for _, res := range r.Results {
		if res.Err != nil {
			return ExitInternal
		}
		if validator.HasErrors(res.Findings) {
			code = ExitFindings
		}
	}
	return code
}

func internalFinding(file string, err error) validator.Finding {
	return validator.Finding{
		Code:     validator.CodeCLIInternal,
		Severity: validator.SeverityError,
		Message:  err.Error(),
		JSONPath: "$",
		File:     file,
	}
}

// RunFiles checks every file in cfg.Files.
func RunFiles(cfg RunConfig) Report {
	runLog.Printf("Running %s over %d files: policy=%q, fail_fast=%v", cfg.Mode, len(cfg.Files), cfg.Policy, cfg.FailFast)

	collector := NewErrorCollector(cfg.FailFast)
	var results []FileResult

	if cfg.FailFast {
		for _, file := range cfg.Files {
			res := checkFile(file, cfg)
			results = append(results, res)
			if err := collector.Add(res.failure()); err != nil {
				runLog.Printf("Stopping after %s", file)
				break
			}
		}
	} else {
		mapper := iter.Mapper[string, FileResult]{MaxGoroutines: maxConcurrency()}
		results = mapper.Map(cfg.Files, func(file *string) FileResult {
			return checkFile(*file, cfg)
		})
		for _, res := range results {
			_ = collector.Add(res.failure())
		}
	}

	if collector.HasErrors() {
		runLog.Printf("%v", collector.FormattedError(cfg.Mode.String()))
	}
	return Report{Results: results}
}

func maxConcurrency() int {
	return envutil.GetIntFromEnv(constants.EnvMaxConcurrency, runtime.GOMAXPROCS(0), 1, 256, runLog)
}

func checkFile(file string, cfg RunConfig) FileResult {
	doc, err := loader.LoadFile(file)
	if err != nil {
		return FileResult{File: file, Err: err}
	}

	findings, err := checkDocument(doc, cfg)
	if err != nil {
		return FileResult{File: file, Err: err}
	}

	findings = validator.NormalizeFindings(validator.WithFile(findings, file))
	runLog.Printf("%s: %d findings", file, len(findings))
	return FileResult{File: file, Findings: findings}
}

// checkDocument runs the configured mode over one parsed document.
func checkDocument(doc map[string]any, cfg RunConfig) ([]validator.Finding, error) {
	if cfg.Mode == ModeLint {
		policies := cfg.Policies
		if policies == nil {
			policies = validator.DefaultPolicies()
		}
		return validator.ApplyPolicy(validator.LintAgent(doc), policies.Resolve(cfg.Policy)), nil
	}

	return validator.ValidateAll(doc, validator.Options{
		Registry:   cfg.Registry,
		Policy:     cfg.Policy,
		Policies:   cfg.Policies,
		Structural: schema.Check,
	})
}
