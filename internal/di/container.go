// Package di provides dependency injection configuration for the database builder.
package di

import (
	"github.com/samber/do/v2"

	"github.com/gurbaninow/database/internal/di/providers"
)

// NewContainer creates and configures the DI container with all providers.
// Services are built lazily, so each command only opens what it invokes.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Source tree
	do.Provide(injector, providers.ProvideTreeDir)
	do.Provide(injector, providers.ProvideSourcesFallback)
	do.Provide(injector, providers.ProvideRevision)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Builder services
	do.Provide(injector, providers.ProvideImporter)
	do.Provide(injector, providers.ProvideExporter)
	do.Provide(injector, providers.ProvideChecker)
	do.Provide(injector, providers.ProvideIDGenerator)

	return injector
}
