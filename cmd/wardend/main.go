// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warden/lib/clock"
	"github.com/bureau-foundation/warden/lib/config"
	"github.com/bureau-foundation/warden/lib/httpserver"
	"github.com/bureau-foundation/warden/lib/signedmsg"
	"github.com/bureau-foundation/warden/lib/store"
	"github.com/bureau-foundation/warden/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath      string
		showVersion     bool
		generateKeypair bool
	)
	pflag.StringVar(&configPath, "config", "", "path to warden.yaml (overrides WARDEN_CONFIG)")
	pflag.BoolVar(&showVersion, "version", false, "print version information and exit")
	pflag.BoolVar(&generateKeypair, "generate-keypair", false, "print a new Ed25519 keypair and exit")
	pflag.Parse()

	if showVersion {
		fmt.Printf("wardend %s\n", version.Info())
		return nil
	}
	if generateKeypair {
		publicKey, privateKey, err := signedmsg.GenerateKeypair()
		if err != nil {
			return err
		}
		fmt.Printf("auth:\n  public_key: %s\n  private_key: %s\n", publicKey, privateKey)
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.Real()

	accounts, err := store.Open(store.Config{
		Path:     cfg.Database.Path,
		PoolSize: cfg.Database.PoolSize,
		Logger:   logger,
		Clock:    clk,
	})
	if err != nil {
		return err
	}
	defer accounts.Close()

	if cfg.Database.SeedAccounts != "" {
		if err := accounts.Seed(ctx, cfg.Database.SeedAccounts); err != nil {
			return err
		}
	}

	srv, err := newServer(cfg, logger, accounts, clk)
	if err != nil {
		return err
	}

	logger.Info("wardend starting",
		"version", version.Info(),
		"listen", cfg.Server.Listen,
		"public_key_fp", fingerprint([]byte(cfg.Auth.PublicKey)),
		"bcrypt_cost", cfg.Auth.BcryptCost,
	)

	public := httpserver.New(httpserver.Config{
		Address:         cfg.Server.Listen,
		Handler:         srv.routes(),
		ShutdownTimeout: cfg.ShutdownTimeout(),
		Logger:          logger,
	})

	// Either server failing takes the process down; the derived
	// cancel drains the other one first.
	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveDone := make(chan error, 2)
	servers := 1
	go func() { serveDone <- public.Serve(serveCtx) }()

	if cfg.Server.ManagementListen != "" {
		management := httpserver.New(httpserver.Config{
			Address:         cfg.Server.ManagementListen,
			Handler:         srv.managementRoutes(),
			ShutdownTimeout: cfg.ShutdownTimeout(),
			Logger:          logger.With("listener", "management"),
		})
		servers++
		go func() { serveDone <- management.Serve(serveCtx) }()
	}

	var firstErr error
	for i := 0; i < servers; i++ {
		if err := <-serveDone; err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	return firstErr
}

// loadConfig resolves the configuration source: --config flag, then
// WARDEN_CONFIG, then built-in development defaults.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	if os.Getenv("WARDEN_CONFIG") != "" {
		return config.Load()
	}
	fmt.Fprintln(os.Stderr, "warning: no config file given, using built-in development defaults")
	return config.Default(), nil
}
