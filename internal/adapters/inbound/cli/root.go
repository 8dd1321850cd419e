package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codejanitor/janitor/internal/bootstrap"
	"github.com/codejanitor/janitor/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// errFindings makes the process exit 1 after a report was printed. It is not
// printed itself.
var errFindings = errors.New("issues found")

type globalOptions struct {
	verbose    bool
	configFile string
	logger     *slog.Logger
	provider   domain.CompletionProvider
}

func (g *globalOptions) app(target string) (*bootstrap.App, error) {
	return bootstrap.New(bootstrap.Options{
		Target:     target,
		ConfigFile: g.configFile,
		Logger:     g.logger,
		Provider:   g.provider,
	})
}

func newRootCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "janitor",
		Short: "Find and fix code smells and security issues in Python code",
		Long: "janitor analyzes Python sources for deep nesting, long functions, dead code and security issues, " +
			"then asks an AI provider to refactor them. A refactoring is written only after it passes validation; " +
			"otherwise the file is rolled back to its snapshot.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if g.verbose {
				level = slog.LevelDebug
			}
			g.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&g.configFile, "config", "", "Path to a janitor.yaml to use instead of searching the project")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newCheckCmd(g))
	cmd.AddCommand(newCleanCmd(g))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newSnapshotsCmd(g))
	cmd.AddCommand(newHistoryCmd(g))
	cmd.AddCommand(newHealthCmd(g))
	cmd.AddCommand(newWebCmd(g))
	cmd.AddCommand(newMCPCmd(g))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd(&globalOptions{})
}

// NewRootCmdWithProvider returns a root command whose commands use p instead
// of the configured completion provider.
func NewRootCmdWithProvider(p domain.CompletionProvider) *cobra.Command {
	return newRootCmd(&globalOptions{provider: p})
}

// IsFindings reports whether err only signals that issues were reported.
func IsFindings(err error) bool {
	return errors.Is(err, errFindings)
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(&globalOptions{})
	err := cmd.ExecuteContext(ctx)
	if err != nil && !IsFindings(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

func targetArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
