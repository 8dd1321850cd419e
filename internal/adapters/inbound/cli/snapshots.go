package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codejanitor/janitor/internal/adapters/outbound/tui"
	"github.com/codejanitor/janitor/internal/domain"
)

func newSnapshotsCmd(g *globalOptions) *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:     "snapshots",
		Aliases: []string{"backups"},
		Short:   "Manage the snapshots taken before files are modified",
	}
	cmd.PersistentFlags().StringVar(&projectPath, "path", ".", "Project whose snapshot directory is used")

	cmd.AddCommand(newSnapshotsListCmd(g, &projectPath))
	cmd.AddCommand(newSnapshotsRollbackCmd(g, &projectPath))
	cmd.AddCommand(newSnapshotsCleanupCmd(g, &projectPath))
	return cmd
}

func newSnapshotsListCmd(g *globalOptions, projectPath *string) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list [target]",
		Short: "List snapshots, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := g.app(*projectPath)
			if err != nil {
				return err
			}
			var target string
			if len(args) > 0 {
				target = args[0]
			}
			snaps := app.Snapshots.List(target)

			if jsonOutput {
				if snaps == nil {
					snaps = []domain.Snapshot{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snaps)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderSnapshots(snaps))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newSnapshotsRollbackCmd(g *globalOptions, projectPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rollback <target>",
		Short: "Restore a file or directory from its latest snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := g.app(*projectPath)
			if err != nil {
				return err
			}
			snap, err := app.Snapshots.Rollback(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", args[0], snap.SnapshotPath)
			return nil
		},
	}
}

func newSnapshotsCleanupCmd(g *globalOptions, projectPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete every snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := g.app(*projectPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d snapshot(s)\n", app.Snapshots.Cleanup())
			return nil
		},
	}
}
