// Package installer installs the Python dependencies a cloned plugin declares.
package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/muicebot/plugin-index/internal/command"
	"github.com/muicebot/plugin-index/internal/logger"
)

//go:generate mockgen -destination=mocks/mock_installer.go -package=mocks -source=installer.go Installer

// Manifest identifies the dependency manifest found in a plugin directory
type Manifest string

const (
	// ManifestNone means the plugin declares no dependencies
	ManifestNone Manifest = ""

	// ManifestRequirements is a plain pip requirements list
	ManifestRequirements Manifest = "requirements.txt"

	// ManifestPyProject is a PEP 621 project metadata file
	ManifestPyProject Manifest = "pyproject.toml"
)

// Installer installs the dependencies of a cloned plugin
type Installer interface {
	// Install detects the dependency manifest in dir and installs it.
	// The detected manifest is returned; ManifestNone is not an error.
	Install(ctx context.Context, dir string) (Manifest, error)
}

// PipInstaller installs dependencies with "<python> -m pip"
type PipInstaller struct {
	fs     afero.Fs
	runner command.Runner
	python string
}

// NewPipInstaller returns an installer using the given interpreter
func NewPipInstaller(fs afero.Fs, runner command.Runner, python string) *PipInstaller {
	if python == "" {
		python = "python"
	}
	return &PipInstaller{fs: fs, runner: runner, python: python}
}

// Detect returns the manifest pip should install from. requirements.txt
// takes precedence over pyproject.toml.
func (p *PipInstaller) Detect(dir string) (Manifest, error) {
	for _, m := range []Manifest{ManifestRequirements, ManifestPyProject} {
		ok, err := afero.Exists(p.fs, filepath.Join(dir, string(m)))
		if err != nil {
			return ManifestNone, fmt.Errorf("failed to inspect %s: %w", dir, err)
		}
		if ok {
			return m, nil
		}
	}
	return ManifestNone, nil
}

// Install implements Installer
func (p *PipInstaller) Install(ctx context.Context, dir string) (Manifest, error) {
	manifest, err := p.Detect(dir)
	if err != nil {
		return ManifestNone, err
	}

	var args []string
	switch manifest {
	case ManifestRequirements:
		args = []string{"-m", "pip", "install", "-r", string(ManifestRequirements)}
	case ManifestPyProject:
		args = []string{"-m", "pip", "install", "."}
	default:
		logger.Infof("No dependency manifest in %s, nothing to install", dir)
		return ManifestNone, nil
	}

	logger.Infof("Installing plugin dependencies from %s", manifest)
	if _, err := p.runner.Run(ctx, dir, p.python, args...); err != nil {
		return manifest, fmt.Errorf("failed to install plugin dependencies (%s): %w", manifest, err)
	}
	return manifest, nil
}
