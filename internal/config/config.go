// Package config provides configuration loading and management for plugin-index.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/muicebot/plugin-index/internal/issue"
	"github.com/muicebot/plugin-index/internal/loader"
	"github.com/muicebot/plugin-index/internal/registry"
)

// EnvPrefix is the prefix of plugin-index environment variables
const EnvPrefix = "PLUGIN_INDEX"

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Event decides which workflow events are processed
	Event issue.Gate `yaml:"event"`

	// Extract lists the issue headings for every submission field
	Extract issue.Fields `yaml:"extract"`

	Paths     PathsConfig     `yaml:"paths"`
	Registry  RegistryConfig  `yaml:"registry"`
	Installer InstallerConfig `yaml:"installer"`
	Loader    LoaderConfig    `yaml:"loader"`
}

// PathsConfig locates the files the pipeline reads and writes.
// Relative paths are resolved against the working directory.
type PathsConfig struct {
	// HostDir is the checkout of the host application plugins are loaded into
	HostDir string `yaml:"hostDir"`

	// PluginsDir is where plugin repositories are cloned
	PluginsDir string `yaml:"pluginsDir"`

	// Registry is the plugin registry JSON file
	Registry string `yaml:"registry"`

	// Template is the listing template; empty selects the built-in one
	Template string `yaml:"template,omitempty"`

	// Readme is the generated listing
	Readme string `yaml:"readme"`

	// EnvFile receives the configuration block of a submission
	EnvFile string `yaml:"envFile"`
}

// RegistryConfig configures registry updates
type RegistryConfig struct {
	KeyPolicy registry.KeyPolicy `yaml:"keyPolicy"`
}

// InstallerConfig configures dependency installation
type InstallerConfig struct {
	// Python is the interpreter used to run pip
	Python string `yaml:"python"`
}

// LoaderConfig configures the plugin load probe
type LoaderConfig struct {
	// Command is the probe program, run inside the host directory
	Command string `yaml:"command"`

	// Args are the probe arguments; "{plugin}" is replaced by the plugin path
	Args []string `yaml:"args,omitempty"`

	// RequireMetadata fails plugins that load without declaring metadata.
	// Nil means true.
	RequireMetadata *bool `yaml:"requireMetadata,omitempty"`
}

// MetadataRequired reports whether plugins must declare metadata
func (l LoaderConfig) MetadataRequired() bool {
	return l.RequireMetadata == nil || *l.RequireMetadata
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads configuration from an optional YAML file, fills in
// defaults and validates the result
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	var config Config
	if loaderCfg.path != "" {
		data, err := os.ReadFile(loaderCfg.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if len(c.Event.Events) == 0 {
		c.Event.Events = issue.DefaultGate().Events
	}
	if c.Event.Label == "" {
		c.Event.Label = issue.DefaultGate().Label
	}

	c.Extract = c.Extract.WithDefaults()

	setDefault(&c.Paths.HostDir, "Muicebot")
	setDefault(&c.Paths.PluginsDir, filepath.Join(c.Paths.HostDir, "plugins"))
	setDefault(&c.Paths.Registry, registry.FileName)
	setDefault(&c.Paths.Readme, "README.md")
	setDefault(&c.Paths.EnvFile, filepath.Join(c.Paths.HostDir, ".env"))

	if c.Registry.KeyPolicy == "" {
		c.Registry.KeyPolicy = registry.KeyByProject
	}

	setDefault(&c.Installer.Python, "python")
	setDefault(&c.Loader.Command, c.Installer.Python)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := c.Extract.Policy.Validate(); err != nil {
		return fmt.Errorf("extract.projectPolicy: %w", err)
	}

	if err := c.Registry.KeyPolicy.Validate(); err != nil {
		return fmt.Errorf("registry.keyPolicy: %w", err)
	}

	for i, event := range c.Event.Events {
		if strings.TrimSpace(event) == "" {
			return fmt.Errorf("event.events[%d]: event name cannot be empty", i)
		}
	}

	if len(c.Loader.Args) > 0 && !containsPlaceholder(c.Loader.Args) {
		return fmt.Errorf("loader.args: must contain the %s placeholder", loader.PluginPlaceholder)
	}

	return nil
}

func containsPlaceholder(args []string) bool {
	for _, arg := range args {
		if strings.Contains(arg, loader.PluginPlaceholder) {
			return true
		}
	}
	return false
}

// Resolve returns p with every relative path joined onto root
func (p PathsConfig) Resolve(root string) PathsConfig {
	if root == "" {
		return p
	}
	for _, field := range []*string{&p.HostDir, &p.PluginsDir, &p.Registry, &p.Template, &p.Readme, &p.EnvFile} {
		if *field != "" && !filepath.IsAbs(*field) {
			*field = filepath.Join(root, *field)
		}
	}
	return p
}

// Environment carries the values the workflow runner passes through
// environment variables
type Environment struct {
	// EventName is the name of the triggering event
	EventName string

	// EventPath is the location of the event payload
	EventPath string

	// OutputPath is the step output file
	OutputPath string

	// LogLevel is the requested log level
	LogLevel string
}

// LoadEnvironment reads the workflow variables through viper. The GitHub
// variables are bound by their fixed names; the rest use EnvPrefix.
func LoadEnvironment() (Environment, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindings := []struct{ key, env string }{
		{"event.name", "GITHUB_EVENT_NAME"},
		{"event.path", "GITHUB_EVENT_PATH"},
		{"output", "GITHUB_OUTPUT"},
	}
	for _, b := range bindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return Environment{}, fmt.Errorf("failed to bind %s: %w", b.env, err)
		}
	}

	return Environment{
		EventName:  v.GetString("event.name"),
		EventPath:  v.GetString("event.path"),
		OutputPath: v.GetString("output"),
		LogLevel:   v.GetString("log.level"),
	}, nil
}
