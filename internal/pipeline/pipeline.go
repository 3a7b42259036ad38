// Package pipeline runs the plugin publication workflow for one issue event.
//
// The steps run in order and the first failure aborts the run:
//
//  1. read the issue body from the event payload (or skip the event)
//  2. extract the submission from the issue body
//  3. clone the plugin repository
//  4. install its dependencies
//  5. load it inside the host
//  6. publish the plugin name as a step output
//  7. append its configuration block to the host env file
//  8. upsert it into the registry
//  9. regenerate the listing
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/muicebot/plugin-index/internal/config"
	"github.com/muicebot/plugin-index/internal/git"
	"github.com/muicebot/plugin-index/internal/installer"
	"github.com/muicebot/plugin-index/internal/issue"
	"github.com/muicebot/plugin-index/internal/loader"
	"github.com/muicebot/plugin-index/internal/logger"
	"github.com/muicebot/plugin-index/internal/registry"
	"github.com/muicebot/plugin-index/internal/runctx"
)

const (
	// OutputShouldSkip is set to "true" when the event is skipped
	OutputShouldSkip = "should_skip"

	// OutputPluginName carries the display name of a verified plugin
	OutputPluginName = "plugin_name"
)

// Renderer regenerates the listing from a registry
type Renderer interface {
	WriteFile(path string, reg *registry.Registry) error
}

// Dependencies are the collaborators a Pipeline drives
type Dependencies struct {
	FS        afero.Fs
	Git       git.Client
	Installer installer.Installer
	Loader    loader.Loader
	Run       runctx.RunContext
	Store     *registry.Store
	Renderer  Renderer
}

// Pipeline publishes one plugin submission
type Pipeline struct {
	cfg  *config.Config
	deps Dependencies
}

// New creates a pipeline. cfg.Paths must already be resolved.
func New(cfg *config.Config, deps Dependencies) *Pipeline {
	return &Pipeline{cfg: cfg, deps: deps}
}

// Run processes the event. It never returns a skip as a failure.
func (p *Pipeline) Run(ctx context.Context, event issue.Event) *Result {
	body, err := issue.ReadIssueBody(p.deps.FS, event, p.cfg.Event)
	if err != nil {
		if errors.Is(err, issue.ErrSkip) {
			return p.skip(err.Error())
		}
		return failed(nil, fmt.Errorf("failed to read issue event: %w", err))
	}

	return p.Publish(ctx, body)
}

// Publish runs every step after the event gate for an issue body
func (p *Pipeline) Publish(ctx context.Context, body string) *Result {
	sub, err := issue.Extract(body, p.cfg.Extract)
	if err != nil {
		return failed(nil, err)
	}
	logger.Infof("Processing plugin %q (project %s, module %s)", sub.Name, sub.Project, sub.Module)

	if err := p.verify(ctx, sub); err != nil {
		return failed(sub, err)
	}

	if err := p.deps.Run.SetOutput(OutputPluginName, sub.Name); err != nil {
		return failed(sub, fmt.Errorf("failed to set %s output: %w", OutputPluginName, err))
	}

	if sub.Config != "" {
		if err := p.deps.Run.AppendEnv(sub.Config); err != nil {
			return failed(sub, fmt.Errorf("failed to append plugin configuration: %w", err))
		}
	}

	if err := p.publish(ctx, sub); err != nil {
		return failed(sub, err)
	}

	return &Result{Status: StatusOK, Submission: sub}
}

// verify clones, installs and loads the plugin
func (p *Pipeline) verify(ctx context.Context, sub *issue.Submission) error {
	dir := filepath.Join(p.cfg.Paths.PluginsDir, sub.Project)

	info, err := p.deps.Git.Clone(ctx, &git.CloneConfig{URL: sub.Repo, Directory: dir})
	if err != nil {
		return fmt.Errorf("failed to clone %s: %w", sub.Repo, err)
	}
	logger.Infof("Cloned %s at %s into %s", info.RemoteURL, info.Commit, info.Path)

	manifest, err := p.deps.Installer.Install(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to install dependencies of %s: %w", sub.Name, err)
	}
	if manifest == installer.ManifestNone {
		logger.Infof("No dependency manifest found for %s", sub.Name)
	}

	handle, err := p.deps.Loader.Load(ctx, p.pluginPath(dir, sub.Module))
	if err != nil {
		return err
	}
	logger.Debugf("Plugin %s metadata: %v", handle.Path, handle.Metadata)

	return nil
}

// publish records the plugin in the registry and regenerates the listing
func (p *Pipeline) publish(ctx context.Context, sub *issue.Submission) error {
	key, entry := p.cfg.Registry.KeyPolicy.Keyed(sub.Project, sub.Name, registry.Entry{
		Module:      sub.Module,
		Description: sub.Description,
		Repo:        sub.Repo,
	})

	reg, err := p.deps.Store.Upsert(ctx, key, entry)
	if err != nil {
		return fmt.Errorf("failed to update registry: %w", err)
	}

	if err := p.deps.Renderer.WriteFile(p.cfg.Paths.Readme, reg); err != nil {
		return fmt.Errorf("failed to render listing: %w", err)
	}
	logger.Infow("Plugin published",
		"key", key,
		"name", sub.Name,
		"registry", p.deps.Store.Path(),
		"listing", p.cfg.Paths.Readme,
		"plugins", reg.Len())

	return nil
}

// pluginPath returns the plugin path relative to the host directory, which is
// how the host resolves plugins. Clone directories outside the host are
// passed by absolute path.
func (p *Pipeline) pluginPath(dir, module string) string {
	target := filepath.Join(dir, module)
	rel, err := filepath.Rel(p.cfg.Paths.HostDir, target)
	if err != nil || !filepath.IsLocal(rel) {
		if abs, err := filepath.Abs(target); err == nil {
			return abs
		}
		return target
	}
	return filepath.ToSlash(rel)
}

func (p *Pipeline) skip(reason string) *Result {
	logger.Infof("Skipping event: %s", reason)
	if err := p.deps.Run.SetOutput(OutputShouldSkip, "true"); err != nil {
		return failed(nil, fmt.Errorf("failed to set %s output: %w", OutputShouldSkip, err))
	}
	return skipped(reason)
}
