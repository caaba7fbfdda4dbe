package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lajidonggua/ClipBox/internal/clipboard"
	"github.com/lajidonggua/ClipBox/internal/history"
	"github.com/lajidonggua/ClipBox/internal/server"
	"github.com/lajidonggua/ClipBox/internal/service"
	"github.com/lajidonggua/ClipBox/internal/storage"
	"github.com/lajidonggua/ClipBox/internal/storage/sqlite"
)

func newServeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the clipboard history daemon",
		Long: `Starts clipboard monitoring, restores the persisted history, and serves
the HTTP API plus the /ws notification socket until interrupted.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runServe(v) },
	}

	f := cmd.Flags()
	f.String("addr", defaultAddr, "HTTP listen address")
	f.String("db", "", "history database path (default: ~/.clipbox/history.db)")
	f.Duration("poll-interval", 500*time.Millisecond, "clipboard polling interval")
	f.Int("capacity", history.DefaultCapacity, "maximum number of history entries")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runServe(v *viper.Viper) error {
	setupLogging(v)

	dbPath := v.GetString("db")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		baseDir := filepath.Join(home, ".clipbox")
		if err := os.MkdirAll(baseDir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", baseDir, err)
		}
		dbPath = filepath.Join(baseDir, "history.db")
	}

	persisted, err := sqlite.New(storage.Config{DBPath: dbPath})
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}

	port, err := clipboard.New()
	if err != nil {
		return fmt.Errorf("open clipboard: %w", err)
	}
	defer port.Close()

	svc := service.New(port, v.GetInt("capacity"), v.GetDuration("poll-interval"))

	// Restore history from the previous run, then write every change back.
	if entries, err := persisted.Load(); err != nil {
		slog.Warn("failed to load persisted history", "db", dbPath, "err", err)
	} else if len(entries) > 0 {
		svc.ReplaceHistory(entries)
		slog.Info("restored history", "entries", len(entries))
	}
	svc.OnChange(func(history.Entry) {
		if err := persisted.Save(svc.History()); err != nil {
			slog.Warn("failed to persist history", "err", err)
		}
	})

	srv := server.New(svc, v.GetString("addr"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("shutting down", "signal", sig.String())

	cancel()
	svc.Wait()
	if err := srv.Stop(); err != nil {
		slog.Warn("http shutdown error", "err", err)
	}
	if err := persisted.Save(svc.History()); err != nil {
		slog.Warn("final history save failed", "err", err)
	}
	return nil
}
