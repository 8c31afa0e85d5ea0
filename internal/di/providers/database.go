package providers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/gurbaninow/database/internal/config"
	"github.com/gurbaninow/database/internal/errors"
	"github.com/gurbaninow/database/internal/logger"
	"github.com/gurbaninow/database/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite store at the configured path, creating
// its directory if needed.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlite.Open(cfg.Database.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database opened", "path", cfg.Database.Path)

	return &StoreHandle{Store: db}, nil
}

// RequireDatabase fails unless the configured database file already exists.
// Commands that only read call it before invoking the store, which would
// otherwise create an empty file.
func RequireDatabase(i do.Injector) error {
	cfg := do.MustInvoke[*config.Config](i)

	info, err := os.Stat(cfg.Database.Path)
	if os.IsNotExist(err) {
		return errors.NotFoundf("database %s does not exist, run build-database first", cfg.Database.Path)
	}
	if err != nil {
		return fmt.Errorf("stat database: %w", err)
	}
	if info.IsDir() {
		return errors.Validationf("database path %s is a directory", cfg.Database.Path)
	}
	return nil
}

// RemoveDatabase deletes the configured database file and its WAL side files
// so the next build starts from an empty store.
func RemoveDatabase(i do.Injector) error {
	cfg := do.MustInvoke[*config.Config](i)

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(cfg.Database.Path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove database: %w", err)
		}
	}
	return nil
}
