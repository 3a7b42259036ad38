package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/muicebot/plugin-index/internal/issue"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [issue-body-file]",
		Short: "Print the submission parsed from an issue body",
		Long: `Parse a plugin submission issue body and print the extracted fields as JSON.
The body is read from the given file, or from standard input when no file is
given. Nothing is cloned, installed or written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var body []byte
			if len(args) == 1 {
				body, err = afero.ReadFile(afero.NewOsFs(), args[0])
			} else {
				body, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read issue body: %w", err)
			}

			sub, err := issue.Extract(string(body), cfg.Extract)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(sub)
		},
	}
}
