package app

import (
	"github.com/alexisbeaulieu97/cgwt/internal/bus"
	"github.com/alexisbeaulieu97/cgwt/internal/config"
	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	"github.com/alexisbeaulieu97/cgwt/internal/gitx"
	"github.com/alexisbeaulieu97/cgwt/internal/logging"
	"github.com/alexisbeaulieu97/cgwt/internal/mux"
	"github.com/alexisbeaulieu97/cgwt/internal/orchestrator"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
	"github.com/alexisbeaulieu97/cgwt/internal/prober"
	"github.com/alexisbeaulieu97/cgwt/internal/repository"
	"github.com/alexisbeaulieu97/cgwt/internal/workspace"
)

// App is the long-lived dependency container shared by every cgwt CLI
// command, mirroring the teacher's own app.App: a flat struct of
// concrete/interface fields built once by New, wired by explicit
// constructor calls rather than reflection or a map. Each command builds a
// path-bound Controller from App's ambient adapters via NewController.
type App struct {
	Config *config.Config
	Logger *logging.Logger
	Git    ports.GitOperations
	Mux    ports.MultiplexerDriver
}

// Option is a functional option for configuring the App, following the
// teacher's app.Option shape.
type Option func(*appOptions)

type appOptions struct {
	configPrv  *config.Config
	configPath string
	logger     *logging.Logger
	git        ports.GitOperations
	mux        ports.MultiplexerDriver
}

// WithConfigProvider sets a pre-loaded Config, bypassing config.Load.
func WithConfigProvider(c *config.Config) Option {
	return func(o *appOptions) { o.configPrv = c }
}

// WithConfigPath sets the config file path, mirroring the teacher's --config flag.
func WithConfigPath(path string) Option {
	return func(o *appOptions) { o.configPath = path }
}

// WithLogger sets a custom Logger instance.
func WithLogger(l *logging.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGitOperations sets a custom GitOperations implementation, for tests.
func WithGitOperations(g ports.GitOperations) Option {
	return func(o *appOptions) { o.git = g }
}

// WithMultiplexerDriver sets a custom MultiplexerDriver implementation, for tests.
func WithMultiplexerDriver(m ports.MultiplexerDriver) Option {
	return func(o *appOptions) { o.mux = m }
}

// New builds the App container: it loads configuration (unless
// WithConfigProvider overrides it), creates a logger, and wires the
// git/multiplexer adapters used by every command.
func New(debug bool, opts ...Option) (*App, error) {
	options := &appOptions{}
	for _, opt := range opts {
		opt(options)
	}

	cfg := options.configPrv
	if cfg == nil {
		loaded, err := config.Load(options.configPath)
		if err != nil {
			return nil, err
		}

		if err := loaded.Validate(); err != nil {
			return nil, err
		}

		cfg = loaded
	}

	logger := options.logger
	if logger == nil {
		logger = logging.New(debug)
	}

	git := options.git
	if git == nil {
		git = gitx.NewWithRetry(gitx.RetryConfig(cfg.GetGitRetryConfig()))
	}

	muxDriver := options.mux
	if muxDriver == nil {
		driver := mux.New(cfg.MuxBinary)
		driver.DefaultTimeout = cfg.GetMuxTimeout()
		driver.AssistantMatch = cfg.AssistantMatchSubstring
		muxDriver = driver
	}

	return &App{Config: cfg, Logger: logger, Git: git, Mux: muxDriver}, nil
}

// NewController builds a Controller bound to one repository path: it builds
// the prober and wires C2 (repository.Service), C3 (workspace.Manager), C5
// (orchestrator.Orchestrator) and C6 (bus.Bus) from the App's ambient git and
// multiplexer adapters.
func (a *App) NewController(repoPath string, menu Menu) *Controller {
	prb := prober.New(a.Git)
	repo := repository.New(a.Git)

	orch := a.NewOrchestrator(repoPath)

	wsm := workspace.New(a.Git, orch, a.Logger)
	orch.SetWorkspaceManager(wsm)

	return New(prb, repo, wsm, orch, a.Config, a.Logger, menu)
}

// NewOrchestrator builds an Orchestrator and its backing MessageBus for one
// repository path, bound to the supervisor instance id for that project.
func (a *App) NewOrchestrator(repoPath string) *orchestrator.Orchestrator {
	project := domain.Slug(basename(repoPath))
	instanceID := domain.SupervisorSessionName(project)

	b := bus.New(repoPath, instanceID, a.Logger)

	return orchestrator.New(a.Mux, nil, b, a.Logger)
}

func basename(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}

	return path
}
