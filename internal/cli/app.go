package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"inventory-sync/internal/adapters/localdb"
	"inventory-sync/internal/adapters/notify"
	"inventory-sync/internal/adapters/pricestore"
	"inventory-sync/internal/adapters/soap"
	"inventory-sync/internal/adapters/woo"
	"inventory-sync/internal/app/usecases"
	"inventory-sync/internal/config"
	infrahttp "inventory-sync/internal/infra/http"
	"inventory-sync/internal/infra/mysql"
	"inventory-sync/internal/infra/postgres"
	"inventory-sync/internal/infra/sqlite"
	"inventory-sync/internal/logging"

	"github.com/spf13/cobra"
)

// app owns the resources a command needs. Databases are opened lazily and
// released by close.
type app struct {
	cfg        *config.Config
	logger     *logging.Logger
	httpClient *http.Client
	out        *OutputFormatter
	closers    []func() error
}

func newApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(cmd.ErrOrStderr(), logging.Options{
		Verbose: opts.Verbose,
		JSON:    opts.Format == "json",
	})
	slog.SetDefault(logger.Slog())
	return &app{
		cfg:        cfg,
		logger:     logger,
		httpClient: infrahttp.NewClient(cfg.Sync.RequestTimeout),
		out:        &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()},
	}, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.LogWarning("close resource", "error", err.Error())
		}
	}
	a.closers = nil
}

func (a *app) storefront(client string) (config.StorefrontConfig, *woo.Client, error) {
	sf, err := a.cfg.Storefront(client)
	if err != nil {
		return config.StorefrontConfig{}, nil, err
	}
	return sf, a.wooClient(sf), nil
}

func (a *app) wooClient(sf config.StorefrontConfig) *woo.Client {
	return woo.NewClient(sf, a.cfg.Sync, a.httpClient, a.logger.With("client", sf.Client))
}

func (a *app) fetchOptions() woo.FetchOptions {
	return woo.FetchOptions{
		PageSize:  a.cfg.Sync.PageSize,
		PageDelay: a.cfg.Sync.PageDelay,
		MaxPages:  a.cfg.Sync.MaxPages,
	}
}

// inventory opens the local database only when a storefront reads from it.
func (a *app) inventory(ctx context.Context, storefronts ...config.StorefrontConfig) (*usecases.Inventory, error) {
	var source usecases.LocalSource
	for _, sf := range storefronts {
		if !sf.UsesDatabase() {
			continue
		}
		db, err := a.openDatabase(ctx)
		if err != nil {
			return nil, err
		}
		source = localdb.NewSource(db, a.cfg.Database, a.logger)
		break
	}
	upstream := soap.NewClient(a.httpClient, a.logger)
	return usecases.NewInventory(a.cfg.Soap, source, upstream, a.logger), nil
}

func (a *app) openDatabase(ctx context.Context) (*sql.DB, error) {
	if err := a.cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	switch strings.ToLower(a.cfg.Database.Driver) {
	case "mysql":
		db, err := mysql.New(ctx, a.cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return db, nil
	case "postgres", "postgresql", "pgx":
		pool, err := postgres.NewPool(ctx, a.cfg.Database.DSN, a.cfg.Sync.Concurrency+1, false)
		if err != nil {
			return nil, err
		}
		db := postgres.NewDB(pool)
		a.closers = append(a.closers, func() error { pool.Close(); return nil }, db.Close)
		return db, nil
	}
	return nil, fmt.Errorf("unsupported database driver: %s", a.cfg.Database.Driver)
}

type schemaStore interface {
	usecases.PriceStore
	EnsureSchema(ctx context.Context) error
}

func (a *app) priceStore(ctx context.Context) (usecases.PriceStore, error) {
	var store schemaStore
	switch strings.ToLower(a.cfg.PriceStore.Driver) {
	case "sqlite", "sqlite3":
		db, err := sqlite.Open(a.cfg.PriceStore.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		store = pricestore.NewSQLite(db)
	case "postgres", "postgresql", "pgx":
		if a.cfg.PriceStore.DSN == "" {
			return nil, fmt.Errorf("price store dsn is required")
		}
		pool, err := postgres.NewPool(ctx, a.cfg.PriceStore.DSN, a.cfg.Sync.Concurrency+1, false)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		store = pricestore.NewPostgres(pool)
	default:
		return nil, fmt.Errorf("unsupported price store driver: %s", a.cfg.PriceStore.Driver)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (a *app) notifier() *notify.Notifier {
	n, closer := notify.FromConfig(a.cfg, a.httpClient, a.logger)
	a.closers = append(a.closers, closer)
	return n
}

// run loads the app, executes fn and reports its error through the
// formatter.
func run(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(opts, cmd)
	if err != nil {
		out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return out.Failure(err)
	}
	defer a.close()

	if err := fn(cmd.Context(), a); err != nil {
		a.logger.LogError("command failed", err, "command", cmd.Name())
		return a.out.Failure(err)
	}
	return nil
}

func requireClient(client string) error {
	if strings.TrimSpace(client) == "" {
		return fmt.Errorf("--client is required")
	}
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	return ExecuteArgs(ctx, os.Args[1:])
}

func ExecuteArgs(ctx context.Context, args []string) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
