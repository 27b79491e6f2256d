// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command manage runs one-off administrative tasks against the
// go-recipe-keeper database and server.
//
// Usage:
//
//	manage migrate
//	manage wait-for-db
//	manage create-superuser -email admin@example.com -password secret [-name Admin]
//	manage healthcheck [-a localhost:8080] [-timeout 5s]
//
// Every command except healthcheck reads the server configuration from the
// environment and the optional JSON file named by CONFIG.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/MKhiriev/go-recipe-keeper/internal/adapter"
	"github.com/MKhiriev/go-recipe-keeper/internal/config"
	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/service"
	"github.com/MKhiriev/go-recipe-keeper/internal/store"
	"github.com/MKhiriev/go-recipe-keeper/models"
)

type command func(ctx context.Context, args []string, log *logger.Logger) error

var commands = map[string]command{
	"migrate":          migrate,
	"wait-for-db":      waitForDB,
	"create-superuser": createSuperuser,
	"healthcheck":      healthcheck,
}

var errUsage = errors.New("usage: manage <command> [flags]")

func main() {
	log := logger.NewLogger("recipe-keeper-manage")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd(ctx, os.Args[2:], log); err != nil {
		stop()
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("command failed")
	}
}

func usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(os.Stderr, errUsage)
	for _, name := range names {
		fmt.Fprintln(os.Stderr, "  "+name)
	}
}

func loadConfig() (*config.StructuredConfig, error) {
	cfg, err := config.GetStructuredConfig(nil)
	if err != nil {
		return nil, fmt.Errorf("error getting configs: %w", err)
	}
	return cfg, nil
}

// migrate applies pending migrations and exits.
func migrate(ctx context.Context, _ []string, log *logger.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info().Str("dialect", string(db.Dialect())).Msg("migrations applied")
	return nil
}

// waitForDB blocks until the database answers or the wait timeout passes.
func waitForDB(ctx context.Context, _ []string, log *logger.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info().Msg("database available")
	return nil
}

func createSuperuser(ctx context.Context, args []string, log *logger.Logger) error {
	fs := flag.NewFlagSet("create-superuser", flag.ContinueOnError)
	var req models.RegisterRequest
	fs.StringVar(&req.Email, "email", "", "Superuser email")
	fs.StringVar(&req.Password, "password", os.Getenv("SUPERUSER_PASSWORD"), "Superuser password (env SUPERUSER_PASSWORD)")
	fs.StringVar(&req.Name, "name", "", "Display name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer storages.Close()

	services, err := service.NewServices(storages, cfg.App, nil, log)
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}

	user, err := services.UserService.CreateSuperuser(ctx, req)
	if err != nil {
		return err
	}

	log.Info().Str("email", user.Email).Msg("superuser created")
	return nil
}

// healthcheck exits non-zero unless the server reports a healthy database.
func healthcheck(ctx context.Context, args []string, log *logger.Logger) error {
	fs := flag.NewFlagSet("healthcheck", flag.ContinueOnError)
	address := fs.String("a", config.DefaultHTTPAddress, "Server address host:port or URL")
	timeout := fs.Duration("timeout", 5*time.Second, "Request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := adapter.NewHTTPServerAdapter(*address, *timeout, log)
	if err != nil {
		return err
	}

	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("server unhealthy: %w", err)
	}

	log.Info().Str("version", health.Version).Str("status", health.Status).Msg("server healthy")
	return nil
}
