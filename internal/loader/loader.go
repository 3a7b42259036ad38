// Package loader checks that a cloned plugin loads inside the host runtime.
//
// The check runs a probe program in the host checkout. The probe loads the
// plugin and prints a single JSON document on its last line of output:
//
//	{"loaded": true, "meta": {"name": "...", "description": "..."}, "error": ""}
//
// Anything the host prints before that line is ignored.
package loader

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/muicebot/plugin-index/internal/command"
	"github.com/muicebot/plugin-index/internal/logger"
)

//go:generate mockgen -destination=mocks/mock_loader.go -package=mocks -source=loader.go Loader

// PluginPlaceholder is replaced with the plugin path in probe arguments
const PluginPlaceholder = "{plugin}"

//go:embed probe.py
var defaultProbe string

var (
	// ErrPluginNotLoaded is returned when the host cannot load the plugin
	ErrPluginNotLoaded = errors.New("plugin could not be loaded")

	// ErrMissingMetadata is returned when the plugin loads but declares no metadata
	ErrMissingMetadata = errors.New("plugin metadata is missing")
)

// Handle describes a successfully loaded plugin
type Handle struct {
	// Path is the plugin path handed to the host
	Path string

	// Metadata holds the plugin's declared metadata; empty when it has none
	Metadata map[string]string
}

// HasMetadata reports whether the plugin declared any metadata
func (h *Handle) HasMetadata() bool {
	return len(h.Metadata) > 0
}

// Loader loads a plugin into the host runtime
type Loader interface {
	// Load loads the plugin at path, relative to the host directory
	Load(ctx context.Context, path string) (*Handle, error)
}

// Config configures a ProbeLoader
type Config struct {
	// HostDir is the working directory of the probe
	HostDir string

	// Command is the probe program
	Command string

	// Args are the probe arguments; PluginPlaceholder is substituted
	Args []string

	// RequireMetadata turns a plugin without metadata into ErrMissingMetadata
	RequireMetadata bool
}

// DefaultArgs runs the embedded probe with a Python interpreter
func DefaultArgs() []string {
	return []string{"-c", defaultProbe, PluginPlaceholder}
}

// ProbeLoader implements Loader by running a probe program
type ProbeLoader struct {
	runner command.Runner
	config Config
}

// NewProbeLoader creates a loader running the configured probe through runner
func NewProbeLoader(runner command.Runner, config Config) *ProbeLoader {
	if config.Command == "" {
		config.Command = "python"
	}
	if len(config.Args) == 0 {
		config.Args = DefaultArgs()
	}
	return &ProbeLoader{runner: runner, config: config}
}

// Load implements Loader
func (l *ProbeLoader) Load(ctx context.Context, path string) (*Handle, error) {
	args := make([]string, len(l.config.Args))
	for i, arg := range l.config.Args {
		args[i] = strings.ReplaceAll(arg, PluginPlaceholder, path)
	}

	out, err := l.runner.Run(ctx, l.config.HostDir, l.config.Command, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPluginNotLoaded, path, err)
	}

	result, ok := lastJSONLine(out)
	if !ok {
		return nil, fmt.Errorf("%w: %s: probe printed no result", ErrPluginNotLoaded, path)
	}

	if !result.Get("loaded").Bool() {
		reason := result.Get("error").String()
		if reason == "" {
			reason = "host returned no plugin"
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrPluginNotLoaded, path, reason)
	}

	handle := &Handle{Path: path, Metadata: map[string]string{}}
	if meta := result.Get("meta"); meta.IsObject() {
		meta.ForEach(func(key, value gjson.Result) bool {
			handle.Metadata[key.String()] = value.String()
			return true
		})
	}

	if !handle.HasMetadata() {
		if l.config.RequireMetadata {
			return nil, fmt.Errorf("%w: %s", ErrMissingMetadata, path)
		}
		logger.Warnf("Plugin %s declares no metadata", path)
	}

	return handle, nil
}

// lastJSONLine returns the last line of out that is a JSON object
func lastJSONLine(out []byte) (gjson.Result, bool) {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) > 0 && line[0] == '{' && gjson.ValidBytes(line) {
			return gjson.ParseBytes(line), true
		}
	}
	return gjson.Result{}, false
}
