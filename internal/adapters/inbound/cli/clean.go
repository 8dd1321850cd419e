package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codejanitor/janitor/internal/adapters/outbound/tui"
	"github.com/codejanitor/janitor/internal/domain"
)

func newCleanCmd(g *globalOptions) *cobra.Command {
	var (
		showDiff   bool
		dryRun     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "clean [path]",
		Short: "Refactor a file or directory with the AI provider",
		Long: "Snapshot each file, ask the AI provider for a refactoring, validate it and repair it up to " +
			"validator.max_validation_retries times. Files whose refactoring never validates are rolled back. " +
			"Exits 1 when any file was rolled back or failed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := targetArg(args)
			app, err := g.app(target)
			if err != nil {
				return err
			}
			cleaner, err := app.Cleaner()
			if err != nil {
				return fmt.Errorf("completion provider: %w", err)
			}

			reports, err := cleaner.Clean(cmd.Context(), target, domain.CleanOptions{DryRun: dryRun, ShowDiff: showDiff})
			if err != nil {
				return fmt.Errorf("clean failed: %w", err)
			}

			if app.RecordEnabled() && !dryRun {
				for _, r := range reports {
					if r.Analysis == nil {
						continue
					}
					if _, err := app.History.Record(app.Root, r.Analysis, r.State == domain.CleanStateApplied); err != nil {
						app.Logger.Warn("recording clean run failed", "file", r.Target, "error", err)
					}
				}
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderCleanReports(reports))
			}

			failed := 0
			for _, r := range reports {
				if !r.Succeeded() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d file(s) were not refactored", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "Show a unified diff of every applied change")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the refactoring and show its diff without writing anything")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
