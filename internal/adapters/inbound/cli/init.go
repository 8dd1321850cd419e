package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codejanitor/janitor/internal/adapters/outbound/config"
	"github.com/codejanitor/janitor/internal/adapters/outbound/provider"
	"github.com/codejanitor/janitor/internal/domain"
)

func newInitCmd() *cobra.Command {
	var (
		force     bool
		ollamaURL string
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a janitor.yaml configuration file",
		Long:  "Create a janitor.yaml with the default settings. A running local Ollama server is preferred over cloud providers.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(targetArg(args))
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			cfg := domain.DefaultConfig()
			if provider.Reachable(cmd.Context(), ollamaURL) {
				cfg.AI.Provider = domain.ProviderOllama
				cfg.AI.Model = domain.DefaultModel(domain.ProviderOllama)
				if ollamaURL != provider.OllamaBaseURL {
					cfg.AI.BaseURL = ollamaURL
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Detected Ollama at %s, using model %s\n", ollamaURL, cfg.AI.Model)
			}

			if err := config.Write(dest, cfg); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing janitor.yaml")
	cmd.Flags().StringVar(&ollamaURL, "ollama-url", provider.OllamaBaseURL, "Ollama server to probe")

	return cmd
}
