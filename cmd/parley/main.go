// Parley - chat session broker for OpenAI and Anthropic models.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/parleyhq/parley/internal/api"
	"github.com/parleyhq/parley/internal/catalog"
	"github.com/parleyhq/parley/internal/domain/settings"
	"github.com/parleyhq/parley/internal/infra/config"
	"github.com/parleyhq/parley/internal/infra/eventbus"
	"github.com/parleyhq/parley/internal/infra/llm"
	"github.com/parleyhq/parley/internal/infra/sqlite"
	"github.com/parleyhq/parley/internal/server"
	"github.com/parleyhq/parley/internal/version"
	"github.com/parleyhq/parley/pkg/keyseal"
)

func main() {
	// A missing .env is fine; explicit env vars always win anyway.
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("parley", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}
	if *showHelp {
		printHelp(out)
		return 0
	}

	switch fs.Arg(0) {
	case "", "serve":
		return serve(out)
	case "migrate":
		return migrate(out)
	case "version":
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	default:
		fmt.Fprintf(out, "unknown command %q\n\n", fs.Arg(0)) //nolint:errcheck
		printHelp(out)
		return 2
	}
}

func openDatabase(path string) (*sql.DB, error) {
	db, err := sqlite.NewDB(path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.MigrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func newAdapter(cfg config.Config) *llm.Adapter {
	if cfg.OpenAIBaseURL == "" && cfg.AnthropicBaseURL == "" {
		return llm.NewAdapter()
	}
	anthropicBase := cfg.AnthropicBaseURL
	if anthropicBase == "" {
		anthropicBase = llm.AnthropicDefaultBaseURL
	}
	return llm.NewAdapterWithBaseURLs(cfg.OpenAIBaseURL, anthropicBase)
}

func serve(out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "config: %v\n", err) //nolint:errcheck
		return 1
	}
	db, err := openDatabase(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(out, "database: %v\n", err) //nolint:errcheck
		return 1
	}
	sealer, err := keyseal.New(cfg.KeystoreSecret)
	if err != nil {
		fmt.Fprintf(out, "keystore: %v\n", err) //nolint:errcheck
		return 1
	}

	adapter := newAdapter(cfg)
	router := api.NewRouter(db, adapter, sealer)

	serverCfg := server.DefaultConfig()
	serverCfg.Host = cfg.Host
	serverCfg.Port = cfg.Port
	srv := server.NewServer(db, router, serverCfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Background model catalog refresher, wired through the event bus.
	if cfg.ModelRefreshInterval > 0 {
		bus := eventbus.New()
		keyStore := settings.NewKeyStore(db, sealer)
		settingsService := settings.NewService(db)
		refresher := catalog.NewRefresher(keyStore, bus, cfg.ModelRefreshInterval, out)
		go refresher.Run(ctx)
		go catalog.RecordRefreshes(ctx, bus, settingsService, settings.KeyModelsRefreshedAt, out)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(out, "server: %v\n", err) //nolint:errcheck
			return 1
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(out, "shutdown: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

func migrate(out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "config: %v\n", err) //nolint:errcheck
		return 1
	}
	db, err := sqlite.NewDB(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(out, "database: %v\n", err) //nolint:errcheck
		return 1
	}
	defer db.Close()

	if err := sqlite.MigrateUp(db); err != nil {
		fmt.Fprintln(out, color.RedString("migration failed: %v", err)) //nolint:errcheck
		return 1
	}
	v, err := sqlite.MigrationVersion(db)
	if err != nil {
		fmt.Fprintf(out, "migration version: %v\n", err) //nolint:errcheck
		return 1
	}
	fmt.Fprintln(out, color.GreenString("migrations applied, schema version %d", v)) //nolint:errcheck
	return 0
}

func printHelp(out io.Writer) {
	helpText := `Parley - chat session broker for OpenAI and Anthropic models

Usage:
  parley [command] [options]

Commands:
  serve        Start the HTTP server (default)
  migrate      Apply database migrations and exit
  version      Show version information

Options:
  --version    Show version information
  --help       Show this help message

Environment:
  PARLEY_HOST, PARLEY_PORT, PARLEY_DB_PATH, PARLEY_CONFIG,
  PARLEY_KEYSTORE_SECRET, OPENAI_API_KEY, ANTHROPIC_API_KEY`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
