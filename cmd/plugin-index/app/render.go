package app

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/muicebot/plugin-index/internal/logger"
	"github.com/muicebot/plugin-index/internal/registry"
	"github.com/muicebot/plugin-index/internal/render"
)

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Regenerate the README listing from the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			reg, err := registry.NewStore(fs, cfg.Paths.Registry).Load(cmd.Context())
			if err != nil {
				return err
			}

			renderer, err := render.New(fs, cfg.Paths.Template)
			if err != nil {
				return err
			}
			if err := renderer.WriteFile(cfg.Paths.Readme, reg); err != nil {
				return err
			}

			logger.Infof("Rendered %d plugins into %s", reg.Len(), cfg.Paths.Readme)
			return nil
		},
	}
}
