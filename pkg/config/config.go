// Package config loads the optional agentkit.config.yaml project file and
// resolves CLI settings against it.
//
// Precedence, highest first: command-line flags, the config file, the
// AGENTKIT_POLICY environment variable (policy only), built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/envutil"
	"github.com/agentkit-dev/agentkit/pkg/fileutil"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/registry"
	"github.com/agentkit-dev/agentkit/pkg/validator"
	"github.com/goccy/go-yaml"
)

var log = logger.New("config:config")

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatText, FormatJSON}

// Config is the content of a project config file.
type Config struct {
	// Policy is the default policy pack name.
	Policy string `yaml:"policy,omitempty" json:"policy,omitempty"`
	// Format is the default output format.
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	// Registries are step registry files merged over the built-in one.
	// Relative paths are resolved against the config file's directory.
	Registries []string `yaml:"registries,omitempty" json:"registries,omitempty"`
	// Policies are custom policy packs made selectable by name.
	Policies []validator.PolicyPack `yaml:"policies,omitempty" json:"policies,omitempty"`

	// Dir is the directory the config was loaded from. Empty for the zero
	// config.
	Dir string `yaml:"-" json:"-"`
}

// Load reads the config file at path.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.UnmarshalWithOptions(content, &cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(path)

	if cfg.Format != "" && !slices.Contains(Formats, cfg.Format) {
		return nil, fmt.Errorf("config file %s: format must be one of %v, got %q", path, Formats, cfg.Format)
	}
	log.Printf("Loaded config %s: policy=%q format=%q registries=%d policies=%d",
		path, cfg.Policy, cfg.Format, len(cfg.Registries), len(cfg.Policies))
	return &cfg, nil
}

// Find returns the first of constants.ConfigFileNames present in dir.
func Find(dir string) (string, bool) {
	for _, name := range constants.ConfigFileNames {
		path := filepath.Join(dir, name)
		if fileutil.FileExists(path) {
			return path, true
		}
	}
	return "", false
}

// Discover loads explicit when it is set. Otherwise it looks for a config file
// in dir and returns an empty config when there is none.
func Discover(explicit, dir string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if path, ok := Find(dir); ok {
		return Load(path)
	}
	log.Printf("No config file in %s", dir)
	return &Config{}, nil
}

// ResolvePolicy picks the policy name: flag, config, AGENTKIT_POLICY, then
// the default pack.
func (c *Config) ResolvePolicy(flag string) string {
	if flag != "" {
		return flag
	}
	if c.Policy != "" {
		return c.Policy
	}
	return envutil.GetStringFromEnv(constants.EnvPolicy, string(constants.PolicyDefault))
}

// ResolveFormat picks the output format: flag, config, then text.
func (c *Config) ResolveFormat(flag string) (string, error) {
	format := FormatText
	switch {
	case flag != "":
		format = flag
	case c.Format != "":
		format = c.Format
	}
	if !slices.Contains(Formats, format) {
		return "", fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
	return format, nil
}

// PolicyRegistry returns the built-in packs plus the config's custom packs.
func (c *Config) PolicyRegistry() (*validator.PolicyRegistry, error) {
	reg := validator.NewPolicyRegistry()
	var errs []error
	for _, pack := range c.Policies {
		if err := reg.Register(pack); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid policies in config: %w", err)
	}
	return reg, nil
}

// StepRegistry merges the built-in step registry with the config's registry
// files and then extra (typically from --registry flags, resolved against
// the working directory).
func (c *Config) StepRegistry(extra ...string) (registry.Registry, error) {
	base, err := registry.Builtin()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(c.Registries)+len(extra))
	for _, p := range c.Registries {
		paths = append(paths, c.resolvePath(p))
	}
	paths = append(paths, extra...)
	if len(paths) == 0 {
		return base, nil
	}

	loaded := make([]registry.Registry, 0, len(paths))
	for _, p := range paths {
		r, err := registry.LoadFile(p)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, r)
	}
	return registry.Merge(base, loaded...)
}

func (c *Config) resolvePath(p string) string {
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}
