package app

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/muicebot/plugin-index/internal/registry"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the registered plugins as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			reg, err := registry.NewStore(afero.NewOsFs(), cfg.Paths.Registry).Load(cmd.Context())
			if err != nil {
				return err
			}
			return printRegistry(cmd.OutOrStdout(), reg)
		},
	}
}

func printRegistry(w io.Writer, reg *registry.Registry) error {
	table := tablewriter.NewWriter(w)
	table.Header("Key", "Name", "Module", "Description", "Repository")

	for _, item := range reg.Items() {
		row := []string{item.Key, item.Entry.Name, item.Entry.Module, item.Entry.Description, item.Entry.Repo}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to add %s to table: %w", item.Key, err)
		}
	}

	return table.Render()
}
