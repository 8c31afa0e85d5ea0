// Package providers contains dependency injection providers for the database builder.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/gurbaninow/database/internal/config"
	"github.com/gurbaninow/database/internal/logger"
	"github.com/gurbaninow/database/internal/tree"
)

// ProvideConfig provides the build configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Debug("Configuration loaded",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.Path,
		"database_path", cfg.Database.Path,
	)

	return log, nil
}

// SourcesFallback maps composition names to their preferred sources in
// order. A nil value means no policy is configured.
type SourcesFallback map[string][]string

// ProvideSourcesFallback reads the preferred-source policy file when one is configured.
func ProvideSourcesFallback(i do.Injector) (SourcesFallback, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Data.SourcesFallbackPath == "" {
		return nil, nil
	}

	policy, err := tree.ReadSourcesFallback(cfg.Data.SourcesFallbackPath)
	if err != nil {
		return nil, err
	}

	log.Info("Sources fallback loaded",
		"path", cfg.Data.SourcesFallbackPath,
		"compositions", len(policy),
	)

	return SourcesFallback(policy), nil
}

// ProvideTreeDir provides the source tree directory with the configured codec.
func ProvideTreeDir(i do.Injector) (*tree.Dir, error) {
	cfg := do.MustInvoke[*config.Config](i)

	codec, err := tree.CodecFor(cfg.Data.Format)
	if err != nil {
		return nil, err
	}
	return tree.NewDir(cfg.Data.Path, codec), nil
}
