package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gigbuilder/internal/catalog"
	"github.com/desertthunder/gigbuilder/internal/repositories"
	"github.com/desertthunder/gigbuilder/internal/setlist"
	"github.com/desertthunder/gigbuilder/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	loader     *catalog.Loader
	db         *sql.DB
	store      *repositories.SetStore
	prefs      *repositories.PreferenceRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	// DB is used instead of opening the configured database.
	DB *sql.DB
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.Catalog.HTTPTimeout()}
	}

	r := &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if opts.DB != nil {
		r.useDB(opts.DB)
	}
	r.loader = r.newLoader()
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, catalogCommand, setCommand, stageCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config and applies --verbose.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return ctx, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return ctx, err
	}
	r.config = config
	r.loader = r.newLoader()
	r.logger.Debug("loaded config", "path", path, "sources", len(config.Catalog.Sources))
	return ctx, nil
}

// SetLogger replaces the logger, e.g. with a file logger while the stage view owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.loader = r.newLoader()
}

func (r *Runner) newLoader() *catalog.Loader {
	return catalog.NewLoader(catalog.LoaderOpts{
		HTTPClient:        r.httpClient,
		RequestsPerSecond: r.config.Catalog.RequestsPerSecond,
		Logger:            shared.WithLogger(r.logger, "component", "catalog"),
	})
}

// loadCatalog reads every configured source.
func (r *Runner) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	return r.loader.Load(ctx, r.config.Catalog.Sources)
}

// openStore opens the configured database on first use.
func (r *Runner) openStore() error {
	if r.db != nil {
		return nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorageFailure, err)
	}
	r.useDB(db)
	return nil
}

func (r *Runner) useDB(db *sql.DB) {
	r.db = db
	r.store = repositories.NewSetStore(repositories.NewSavedSetRepository(db))
	r.prefs = repositories.NewPreferenceRepository(db)
}

// newSession loads the catalog and opens saved set storage.
func (r *Runner) newSession(ctx context.Context) (*setlist.Session, error) {
	cat, err := r.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.openStore(); err != nil {
		return nil, err
	}

	policy := setlist.PolicyFromConfig(r.config.Builder)
	return setlist.NewSession(cat, setlist.SessionOpts{
		Policy: &policy,
		Store:  r.store,
		Logger: shared.WithLogger(r.logger, "component", "session"),
	}), nil
}

// Close releases the database handle.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
