package providers

import (
	"github.com/samber/do/v2"

	"github.com/gurbaninow/database/internal/config"
	"github.com/gurbaninow/database/internal/exporter"
	"github.com/gurbaninow/database/internal/id"
	"github.com/gurbaninow/database/internal/importer"
	"github.com/gurbaninow/database/internal/logger"
	"github.com/gurbaninow/database/internal/revision"
	"github.com/gurbaninow/database/internal/tree"
	"github.com/gurbaninow/database/internal/vishraam"
)

// ProvideRevision provides the revision resolver for the source tree.
func ProvideRevision(i do.Injector) (*revision.Resolver, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return revision.New(cfg.Data.Path), nil
}

// ProvideImporter provides the tree importer.
func ProvideImporter(i do.Injector) (*importer.Importer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	dir, err := do.Invoke[*tree.Dir](i)
	if err != nil {
		return nil, err
	}
	fallback, err := do.Invoke[SourcesFallback](i)
	if err != nil {
		return nil, err
	}
	rev := do.MustInvoke[*revision.Resolver](i)

	return importer.New(storeHandle.Store, dir, rev, log, importer.Options{
		BatchSize:       cfg.Import.BatchSize,
		Concurrency:     cfg.Import.Concurrency,
		DuplicatePolicy: cfg.Import.DuplicatePolicy,
		SourcesFallback: fallback,
	}), nil
}

// ProvideExporter provides the tree exporter.
func ProvideExporter(i do.Injector) (*exporter.Exporter, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	return exporter.New(storeHandle.Store, log), nil
}

// ProvideChecker provides the vishraam checker.
func ProvideChecker(i do.Injector) (*vishraam.Checker, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	fallback, err := do.Invoke[SourcesFallback](i)
	if err != nil {
		return nil, err
	}

	return vishraam.New(storeHandle.Store, fallback, log), nil
}

// ProvideIDGenerator provides the free id generator.
func ProvideIDGenerator(i do.Injector) (*id.Generator, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	return id.NewGenerator(storeHandle.Store), nil
}
