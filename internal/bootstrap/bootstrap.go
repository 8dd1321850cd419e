// Package bootstrap assembles the services for one project from its
// configuration. Inbound adapters build an App per invocation or request.
package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/codejanitor/janitor/internal/adapters/outbound/config"
	"github.com/codejanitor/janitor/internal/adapters/outbound/gitinfo"
	"github.com/codejanitor/janitor/internal/adapters/outbound/history"
	"github.com/codejanitor/janitor/internal/adapters/outbound/parser"
	"github.com/codejanitor/janitor/internal/adapters/outbound/provider"
	"github.com/codejanitor/janitor/internal/adapters/outbound/scanner"
	"github.com/codejanitor/janitor/internal/adapters/outbound/snapshot"
	"github.com/codejanitor/janitor/internal/adapters/outbound/tools"
	"github.com/codejanitor/janitor/internal/adapters/outbound/tui"
	"github.com/codejanitor/janitor/internal/application"
	"github.com/codejanitor/janitor/internal/domain"
)

type Options struct {
	// Target is the file or directory the command operates on. The project
	// root is Target itself for directories and its parent for files.
	Target string
	// ConfigFile, when set, is loaded instead of searching the project.
	ConfigFile string
	Logger     *slog.Logger
	// Provider replaces the configured completion provider. Tests use it.
	Provider domain.CompletionProvider
}

// App holds the services for one project.
type App struct {
	Root         string
	Config       domain.Config
	ConfigSource string
	Logger       *slog.Logger

	Analyzer  *application.AnalyzeService
	Validator *application.ValidateService
	Snapshots *application.SnapshotService
	History   *application.HistoryService
	Store     *snapshot.Store
	Differ    *tui.Differ

	providerOnce sync.Once
	provider     domain.CompletionProvider
	providerErr  error
}

// New loads the configuration for opts.Target and builds every service that
// does not need a completion provider.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	target := opts.Target
	if target == "" {
		target = "."
	}
	root, err := projectRoot(target)
	if err != nil {
		return nil, err
	}

	loader := config.New()
	var (
		cfg    domain.Config
		source string
	)
	if opts.ConfigFile != "" {
		cfg, err = loader.LoadFile(opts.ConfigFile)
		source = opts.ConfigFile
	} else {
		cfg, source, err = loader.LoadWithSource(root)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger.Debug("configuration loaded", "source", sourceName(source), "provider", cfg.AI.Provider, "model", cfg.AI.Model)

	scan := cfg.Scan
	scan.Exclude = append(append([]string(nil), scan.Exclude...), "**/"+filepath.Base(cfg.Snapshot.Dir)+"/**")

	analyzer := application.NewAnalyzeService(
		cfg.Analyzer,
		parser.New(),
		scanner.New(scan),
		tools.NewLinter(cfg.Linter, logger),
		tools.NewAnalysisTools(cfg.Analyzer, logger),
		logger,
	)

	snapDir := cfg.Snapshot.Dir
	if !filepath.IsAbs(snapDir) {
		snapDir = filepath.Join(root, snapDir)
	}
	store := snapshot.New(snapDir, cfg.Snapshot.MaxBackups, logger)

	app := &App{
		Root:         root,
		Config:       cfg,
		ConfigSource: source,
		Logger:       logger,
		Analyzer:     analyzer,
		Validator:    application.NewValidateService(analyzer, cfg.Validator, logger),
		Snapshots:    application.NewSnapshotService(store, logger),
		History:      application.NewHistoryService(history.New(cfg.History.Path, cfg.History.MaxRecords), gitinfo.New(), logger),
		Store:        store,
		Differ:       tui.NewDiffer(),
	}
	if opts.Provider != nil {
		app.providerOnce.Do(func() { app.provider = opts.Provider })
	}
	return app, nil
}

// Provider builds the configured completion provider on first use, so that
// commands which never call it do not need an API key.
func (a *App) Provider() (domain.CompletionProvider, error) {
	a.providerOnce.Do(func() {
		a.provider, a.providerErr = provider.New(a.Config.AI, a.Logger)
	})
	return a.provider, a.providerErr
}

// Refactorer returns a RefactorService bound to the provider. A provider that
// cannot be built is reported here rather than on every call.
func (a *App) Refactorer() (*application.RefactorService, error) {
	p, err := a.Provider()
	if err != nil {
		return nil, err
	}
	return application.NewRefactorService(p, a.Config, a.Logger), nil
}

// Cleaner returns the full self-repair pipeline.
func (a *App) Cleaner() (*application.CleanService, error) {
	refactorer, err := a.Refactorer()
	if err != nil {
		return nil, err
	}
	return application.NewCleanService(a.Analyzer, refactorer, a.Validator, a.Store, a.Differ, a.Config, a.Logger), nil
}

// RecordEnabled reports whether check and clean runs are written to history.
func (a *App) RecordEnabled() bool { return a.Config.History.Enabled }

func projectRoot(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("target %s: %w", target, err)
	}
	if info.IsDir() {
		return abs, nil
	}
	return filepath.Dir(abs), nil
}

func sourceName(source string) string {
	if source == "" {
		return "defaults"
	}
	return source
}
