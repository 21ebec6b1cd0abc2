// Command rpmscan syncs RPM repository metadata into a local database,
// either one repository at a time or across every content set named in a
// repolist document.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/acksell/rpmscan/domain"
	"github.com/acksell/rpmscan/httpfetch"
	"github.com/acksell/rpmscan/repolist"
	"github.com/acksell/rpmscan/reposync"
	"github.com/acksell/rpmscan/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "rpmscan:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: rpmscan <sync-repo|sync-repolist> [flags]")
	}

	switch args[0] {
	case "sync-repo":
		return runSyncRepo(args[1:])
	case "sync-repolist":
		return runSyncRepolist(args[1:])
	default:
		return fmt.Errorf("unknown subcommand %q (want sync-repo or sync-repolist)", args[0])
	}
}

func newLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("rpmscan: build logger: %w", err)
	}
	return logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runSyncRepo(args []string) error {
	fs := flag.NewFlagSet("sync-repo", flag.ExitOnError)
	configPath := fs.String("config", "", "path to rpmscan.yaml (optional)")
	repoURL := fs.String("url", "", "repository base URL to sync")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *repoURL == "" {
		return fmt.Errorf("sync-repo: -url is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signalContext()
	defer cancel()

	db, err := store.Open(store.Options{Dir: cfg.DBPath, Logger: logger})
	if err != nil {
		return fmt.Errorf("rpmscan: open database: %w", err)
	}
	defer db.Close()

	schema := domain.Register(db)
	client, err := httpfetch.New(httpfetch.Options{Logger: logger})
	if err != nil {
		return err
	}
	syncer := reposync.New(db, schema, client, logger)

	if err := syncer.SyncRepo(ctx, *repoURL); err != nil {
		return fmt.Errorf("rpmscan: sync %s: %w", *repoURL, err)
	}
	logger.Info("sync complete", zap.String("url", *repoURL))
	return nil
}

func runSyncRepolist(args []string) error {
	fs := flag.NewFlagSet("sync-repolist", flag.ExitOnError)
	configPath := fs.String("config", "", "path to rpmscan.yaml (optional)")
	repolistPath := fs.String("repolist", "", "path to a repolist JSON document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *repolistPath == "" {
		return fmt.Errorf("sync-repolist: -repolist is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signalContext()
	defer cancel()

	b, err := os.ReadFile(*repolistPath)
	if err != nil {
		return fmt.Errorf("rpmscan: read repolist %s: %w", *repolistPath, err)
	}
	rl, err := repolist.Parse(b)
	if err != nil {
		return fmt.Errorf("rpmscan: parse repolist %s: %w", *repolistPath, err)
	}

	db, err := store.Open(store.Options{Dir: cfg.DBPath, Logger: logger})
	if err != nil {
		return fmt.Errorf("rpmscan: open database: %w", err)
	}
	defer db.Close()

	schema := domain.Register(db)
	client, err := httpfetch.New(httpfetch.Options{Logger: logger})
	if err != nil {
		return err
	}
	syncer := reposync.New(db, schema, client, logger)

	return repolist.SyncAll(ctx, rl, cfg.Concurrency, logger, syncer.SyncRepo)
}
