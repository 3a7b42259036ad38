package app

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/muicebot/plugin-index/internal/command"
	"github.com/muicebot/plugin-index/internal/config"
	"github.com/muicebot/plugin-index/internal/git"
	"github.com/muicebot/plugin-index/internal/installer"
	"github.com/muicebot/plugin-index/internal/issue"
	"github.com/muicebot/plugin-index/internal/loader"
	"github.com/muicebot/plugin-index/internal/logger"
	"github.com/muicebot/plugin-index/internal/pipeline"
	"github.com/muicebot/plugin-index/internal/registry"
	"github.com/muicebot/plugin-index/internal/render"
	"github.com/muicebot/plugin-index/internal/runctx"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process the plugin submission issue of the current workflow event",
		Long: `Process the plugin submission issue of the current workflow event.

The event is read from GITHUB_EVENT_NAME and GITHUB_EVENT_PATH. Events that are
not open issues labelled as plugin submissions are skipped and set the
should_skip output. A verified plugin sets the plugin_name output.`,
		Args: cobra.NoArgs,
		RunE: runPipeline,
	}
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	env, err := config.LoadEnvironment()
	if err != nil {
		return fmt.Errorf("failed to read workflow environment: %w", err)
	}

	p, err := newPipeline(cfg, env)
	if err != nil {
		return err
	}

	result := p.Run(cmd.Context(), issue.Event{Name: env.EventName, Path: env.EventPath})
	switch result.Status {
	case pipeline.StatusOK:
		return nil
	case pipeline.StatusSkipped:
		return nil
	case pipeline.StatusFailed:
		logger.Errorf("Plugin submission failed: %v", result.Err)
		return result.Err
	default:
		return fmt.Errorf("unknown pipeline status %q", result.Status)
	}
}

// newPipeline wires the production collaborators on the OS filesystem
func newPipeline(cfg *config.Config, env config.Environment) (*pipeline.Pipeline, error) {
	fs := afero.NewOsFs()
	runner := command.NewExecRunner()

	renderer, err := render.New(fs, cfg.Paths.Template)
	if err != nil {
		return nil, err
	}

	return pipeline.New(cfg, pipeline.Dependencies{
		FS:        fs,
		Git:       git.NewDefaultGitClient(),
		Installer: installer.NewPipInstaller(fs, runner, cfg.Installer.Python),
		Loader: loader.NewProbeLoader(runner, loader.Config{
			HostDir:         cfg.Paths.HostDir,
			Command:         cfg.Loader.Command,
			Args:            cfg.Loader.Args,
			RequireMetadata: cfg.Loader.MetadataRequired(),
		}),
		Run:      runctx.NewWorkflow(fs, env.OutputPath, cfg.Paths.EnvFile),
		Store:    registry.NewStore(fs, cfg.Paths.Registry),
		Renderer: renderer,
	}), nil
}
