// Package main reports vishraams whose word no longer matches the line text.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/samber/do/v2"

	"github.com/gurbaninow/database/internal/config"
	"github.com/gurbaninow/database/internal/di"
	"github.com/gurbaninow/database/internal/di/providers"
	"github.com/gurbaninow/database/internal/errors"
	"github.com/gurbaninow/database/internal/logger"
	"github.com/gurbaninow/database/internal/vishraam"
)

func main() {
	injector := di.NewContainer()

	if _, err := do.Invoke[*config.Config](injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}
	log := do.MustInvoke[*logger.Logger](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	mismatches, err := run(ctx, injector)
	stop()

	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		log.Error("Shutdown error", "error", shutdownErr)
	}
	if err != nil {
		log.WithError(err).Fatal(errors.ExitCode(err), "Error checking vishraams")
	}

	if len(mismatches) == 0 {
		log.Info("No mismatched vishraams found")
		return
	}

	printMismatches(mismatches)
	log.Fatal(1, "Mismatched vishraams found", "count", len(mismatches))
}

func run(ctx context.Context, injector do.Injector) ([]vishraam.Mismatch, error) {
	if err := providers.RequireDatabase(injector); err != nil {
		return nil, err
	}

	checker, err := do.Invoke[*vishraam.Checker](injector)
	if err != nil {
		return nil, err
	}
	return checker.Check(ctx)
}

func printMismatches(mismatches []vishraam.Mismatch) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPOSITION\tLINE ID\tINDEX\tEXPECTED\tACTUAL")
	for _, m := range mismatches {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", m.Composition, m.LineID, m.Index, m.Expected, m.Actual)
	}
	w.Flush()
}
