// Package main writes the source tree back out of the SQLite database.
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
	"github.com/gurbaninow/database/internal/exporter"
	"github.com/gurbaninow/database/internal/logger"
	"github.com/gurbaninow/database/internal/tree"
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
		log.WithError(err).Fatal(errors.ExitCode(err), "Export failed")
	}
}

func run(ctx context.Context, injector do.Injector, cfg *config.Config, log *logger.Logger) error {
	if err := providers.RequireDatabase(injector); err != nil {
		return err
	}

	dir, err := do.Invoke[*tree.Dir](injector)
	if err != nil {
		return err
	}
	exp, err := do.Invoke[*exporter.Exporter](injector)
	if err != nil {
		return err
	}

	opts := exporter.Options{
		OutputPath:  cfg.Export.OutputPath,
		Codec:       dir.Codec(),
		VisibleOnly: cfg.Export.VisibleOnly,
		Concurrency: cfg.Import.Concurrency,
	}
	// The sources fallback file often lives in the data directory itself.
	if entry, ok := exporter.PreserveEntry(cfg.Export.OutputPath, cfg.Data.SourcesFallbackPath); ok {
		log.Debug("Preserving sources fallback", "entry", entry)
		opts.Preserve = append(opts.Preserve, entry)
	}

	result, err := exp.Export(ctx, opts)
	if err != nil {
		return err
	}

	log.Info("Tree written",
		"path", result.Path,
		"format", dir.Codec().Format(),
		"shabads", result.Exported["shabads"],
		"lines", result.Exported["lines"],
		"pages", result.Exported["pages"],
		"duration", result.Duration,
	)
	return nil
}
