// Package main builds the SQLite database from the source tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/gurbaninow/database/internal/config"
	"github.com/gurbaninow/database/internal/di"
	"github.com/gurbaninow/database/internal/di/providers"
	"github.com/gurbaninow/database/internal/errors"
	"github.com/gurbaninow/database/internal/importer"
	"github.com/gurbaninow/database/internal/logger"
)

func main() {
	injector := di.NewContainer()

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}
	log := do.MustInvoke[*logger.Logger](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, injector, cfg, log)
	stop()

	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		log.Error("Shutdown error", "error", shutdownErr)
	}
	if err != nil {
		log.WithError(err).Fatal(errors.ExitCode(err), "Build failed")
	}
}

func run(ctx context.Context, injector do.Injector, cfg *config.Config, log *logger.Logger) error {
	if err := providers.RemoveDatabase(injector); err != nil {
		return err
	}

	imp, err := do.Invoke[*importer.Importer](injector)
	if err != nil {
		return err
	}

	result, err := imp.Import(ctx)
	if err != nil {
		return err
	}

	log.Info("Database built",
		"path", cfg.Database.Path,
		"revision", result.Revision,
		"shabads", result.Imported["shabads"],
		"lines", result.Imported["lines"],
		"banis", result.Imported["banis"],
		"duration", result.Duration,
	)
	return nil
}
