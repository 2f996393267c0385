package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/app"
	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/cache"
	"github.com/cleared-dev/tally/internal/client"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/eventlog"
	"github.com/cleared-dev/tally/internal/output"
)

// PasswordEnv holds the server password; it is never read from flags or config.
const PasswordEnv = "TALLY_PASSWORD"

type globalFlags struct {
	configPath string
	offline    bool
	noColor    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Double-entry bookkeeping from the terminal",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", config.FileName, "config file")
	pf.BoolVar(&g.offline, "offline", false, "serve reads from the local cache only")
	pf.BoolVar(&g.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountsCommand(g),
		newRegisterCommand(g),
		newReportCommand(g),
		newValidateCommand(g),
		newImportCommand(g),
		newDownloadCommand(g),
		newTxnCommand(g),
		newEventsCommand(g),
		newCacheCommand(g),
	)

	return rootCmd
}

// env is what every command needs once flags and config are resolved.
type env struct {
	cfg     *config.Config
	out     *output.Printer
	logger  *slog.Logger
	offline bool
}

func loadEnv(cmd *cobra.Command, g *globalFlags) (*env, error) {
	cfg, err := config.Load(g.configPath)
	if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		cfg = config.Default()
	} else if err != nil {
		return nil, err
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:     cfg,
		out:     output.New(cmd.OutOrStdout(), cfg.Output.Color && !g.noColor),
		logger:  output.NewLogger(cmd.ErrOrStderr(), level),
		offline: g.offline,
	}, nil
}

// session is a connected controller plus whatever must be closed after.
type session struct {
	*app.Controller
	cache *cache.Store
}

func (s *session) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

// connect builds the backend stack: the HTTP client, wrapped by the cache
// recorder when caching is on, or the cache alone when offline.
func (e *env) connect(ctx context.Context) (*session, error) {
	store := app.NewStore(e.logger)
	if e.cfg.Log.Events != "" {
		store.Subscribe(eventlog.Recorder(e.cfg.Log.Events, e.logger))
	}

	s := &session{}
	if e.cfg.Cache.Enabled || e.offline {
		cs, err := cache.Open(e.cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		s.cache = cs
	}

	if e.offline {
		s.Controller = app.NewController(cache.NewOffline(s.cache), store, e.logger)
		return s, nil
	}

	c, err := client.New(e.cfg.Server.URL, e.cfg.Server.Timeout, client.WithLogger(e.logger))
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if e.cfg.Server.Username != "" {
		if _, err := c.Login(ctx, e.cfg.Server.Username, os.Getenv(PasswordEnv)); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("signing in as %s: %w", e.cfg.Server.Username, err)
		}
	}

	var backend app.Backend = c
	if s.cache != nil {
		backend = cache.NewRecorder(c, s.cache, e.logger)
	}
	s.Controller = app.NewController(backend, store, e.logger)
	return s, nil
}

// withSession loads the environment, connects, and runs fn.
func withSession(cmd *cobra.Command, g *globalFlags, fn func(ctx context.Context, e *env, s *session) error) error {
	e, err := loadEnv(cmd, g)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := e.connect(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, e, s)
}
