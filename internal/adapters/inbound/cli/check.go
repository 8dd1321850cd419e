package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codejanitor/janitor/internal/adapters/outbound/report"
	"github.com/codejanitor/janitor/internal/adapters/outbound/tui"
	"github.com/codejanitor/janitor/internal/domain"
)

func newCheckCmd(g *globalOptions) *cobra.Command {
	var (
		format    string
		output    string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Analyze a file or directory without changing it",
		Long:  "Run the detectors, external analyzers and linter over a Python file or directory. Exits 1 when any issue is found.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case report.FormatText, report.FormatJSON, report.FormatHTML:
			default:
				return fmt.Errorf("unknown format %q (valid: text, json, html)", format)
			}

			target := targetArg(args)
			app, err := g.app(target)
			if err != nil {
				return err
			}

			result, err := app.Analyzer.Analyze(cmd.Context(), target)
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}

			if app.RecordEnabled() && !noHistory {
				if _, err := app.History.Record(app.Root, result, false); err != nil {
					app.Logger.Warn("recording analysis failed", "error", err)
				}
			}

			if err := writeResult(cmd, result, format, output); err != nil {
				return err
			}
			if result.HasIssues {
				return errFindings
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "Output format: text, json or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the analysis history")

	return cmd
}

func writeResult(cmd *cobra.Command, result *domain.AnalysisResult, format, output string) error {
	if format == report.FormatText {
		text := tui.RenderAnalysis(result)
		if output == "" {
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		}
		if err := os.WriteFile(output, []byte(text), 0644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
		return nil
	}

	doc := report.NewDocument(result, version)
	if output != "" {
		if err := report.WriteFile(output, format, doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
		return nil
	}
	data, err := report.Render(format, doc)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
