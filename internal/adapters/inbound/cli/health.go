package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health [path]",
		Short: "Check that the configured AI provider is reachable",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := g.app(targetArg(args))
			if err != nil {
				return err
			}
			p, err := app.Provider()
			if err != nil {
				return fmt.Errorf("completion provider: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), app.Config.AI.CallTimeout())
			defer cancel()
			if err := p.Health(ctx); err != nil {
				return fmt.Errorf("%s is not reachable: %w", p.Name(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is reachable (model %s)\n", p.Name(), app.Config.AI.Model)
			return nil
		},
	}
}
