// Package main prints ids that are free to assign to new banis, shabads or lines.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/gurbaninow/database/internal/config"
	"github.com/gurbaninow/database/internal/di"
	"github.com/gurbaninow/database/internal/di/providers"
	"github.com/gurbaninow/database/internal/errors"
	"github.com/gurbaninow/database/internal/id"
	"github.com/gurbaninow/database/internal/logger"
	"github.com/gurbaninow/database/internal/store"
)

var (
	idType = flag.String("type", "", "Type of id to generate: bani, shabad or line")
	count  = flag.Int("count", 1, "Number of ids")
)

func main() {
	injector := di.NewContainer()

	if _, err := do.Invoke[*config.Config](injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}
	log := do.MustInvoke[*logger.Logger](injector)

	ids, err := run(context.Background(), injector)

	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		log.Error("Shutdown error", "error", shutdownErr)
	}
	if err != nil {
		log.WithError(err).Fatal(errors.ExitCode(err), "Failed to generate ids", "type", *idType)
	}

	for _, v := range ids {
		fmt.Println(v)
	}
}

func run(ctx context.Context, injector do.Injector) ([]string, error) {
	if _, ok := id.Lengths[store.IDKind(*idType)]; !ok {
		return nil, errors.Validationf("-type must be one of bani, shabad or line, got %q", *idType)
	}
	if err := providers.RequireDatabase(injector); err != nil {
		return nil, err
	}

	generator, err := do.Invoke[*id.Generator](injector)
	if err != nil {
		return nil, err
	}
	return generator.Free(ctx, store.IDKind(*idType), *count)
}
