package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ecotrack/internal/config"
	"ecotrack/internal/repository"
	"ecotrack/internal/repository/sqlite"
	"ecotrack/internal/service"
)

var (
	version = "dev"
	commit  = "none"
)

// SetVersion sets the version information displayed by --version,
// injected by the main package via ldflags.
func SetVersion(v, c string) {
	version = v
	commit = c
}

// app carries the global flag state shared by every command.
type app struct {
	configPath string
	dbPath     string
	noColor    bool
}

// Execute runs the ecotrack CLI.
func Execute(ctx context.Context) error {
	a := &app{}
	var verbose bool

	root := &cobra.Command{
		Use:           "ecotrack",
		Short:         "ecotrack tracks the migration status of a build-tool ecosystem",
		Long:          "ecotrack records repositories, the artifacts they publish, and the dependency graph\nbetween them, and reports the transitive plugin dependencies blocking a migration.",
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file path")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (overrides config)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable ANSI colors in output")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(a.ingestCmd())
	root.AddCommand(a.reportCmd())
	root.AddCommand(a.statusCmd())
	root.AddCommand(a.noteCmd())
	root.AddCommand(a.reposCmd())
	root.AddCommand(a.consolidateCmd())

	return root.ExecuteContext(ctx)
}

// openStore resolves configuration and opens the store. The caller owns
// the handle for the duration of one command and must close it.
func (a *app) openStore(ctx context.Context) (repository.Store, error) {
	cfg, path, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}

	logger := loggerFromContext(ctx)
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}
	logger.Debug("opening database", "path", cfg.Database.Path)

	return sqlite.Open(cfg.Database.Path)
}

// openTracker opens the store and wraps it in a Tracker service.
func (a *app) openTracker(ctx context.Context) (*service.Tracker, repository.Store, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return service.New(store, loggerFromContext(ctx)), store, nil
}
