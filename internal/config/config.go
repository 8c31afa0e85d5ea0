// Package config provides build configuration with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Duplicate id policies accepted by Import.DuplicatePolicy.
const (
	DuplicateKeepFirst = "keep-first"
	DuplicateFail      = "fail"
)

// Config holds the build configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Data     DataConfig
	Database DatabaseConfig
	Import   ImportConfig
	Export   ExportConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig describes the source tree directory.
type DataConfig struct {
	Path string
	// SourcesFallbackPath points at the preferred-source policy file. Empty disables the policy.
	SourcesFallbackPath string
	// Format is the codec used when writing trees: json or yaml.
	Format string
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string
}

// ImportConfig tunes the tree to database import.
type ImportConfig struct {
	BatchSize       int
	Concurrency     int
	DuplicatePolicy string
}

// ExportConfig tunes the database to tree export.
type ExportConfig struct {
	OutputPath  string
	VisibleOnly bool
}

// LoadConfig loads configuration from the process command line.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(flag.CommandLine, os.Args[1:])
}

// LoadConfigFrom loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
//
// Callers may register extra flags on fs before calling.
func LoadConfigFrom(fs *flag.FlagSet, args []string) (*Config, error) {
	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data", "", "Path to the source tree (default: ./data)")
	fallbackPath := fs.String("sources-fallback", "", "Path to the preferred sources file")
	treeFormat := fs.String("format", "", "Tree format to write: json or yaml (default: json)")
	dbPath := fs.String("db", "", "Path to the SQLite database (default: ./build/database.sqlite)")
	batchSize := fs.String("batch-size", "", "Rows per insert batch (default: 100)")
	concurrency := fs.String("concurrency", "", "Compositions processed in parallel (default: 4)")
	duplicatePolicy := fs.String("duplicates", "", "Duplicate id policy: keep-first or fail")
	outputPath := fs.String("out", "", "Export output directory (default: the data path)")
	visibleOnly := fs.String("visible-only", "", "Export only visible lines (default: false)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			Path:                getConfigValue(*dataPath, "DATA_PATH", "data"),
			SourcesFallbackPath: getConfigValue(*fallbackPath, "SOURCES_FALLBACK_PATH", ""),
			Format:              strings.ToLower(getConfigValue(*treeFormat, "TREE_FORMAT", "json")),
		},
		Database: DatabaseConfig{
			Path: getConfigValue(*dbPath, "DATABASE_PATH", filepath.Join("build", "database.sqlite")),
		},
		Import: ImportConfig{
			BatchSize:       getIntConfigValue(*batchSize, "BATCH_SIZE", 100),
			Concurrency:     getIntConfigValue(*concurrency, "IMPORT_CONCURRENCY", 4),
			DuplicatePolicy: getConfigValue(*duplicatePolicy, "DUPLICATE_POLICY", DuplicateKeepFirst),
		},
		Export: ExportConfig{
			OutputPath:  getConfigValue(*outputPath, "OUTPUT_PATH", ""),
			VisibleOnly: getBoolConfigValue(*visibleOnly, "VISIBLE_ONLY", false),
		},
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.Path == "" {
		return errors.New("data path cannot be empty")
	}
	if c.Database.Path == "" {
		return errors.New("database path cannot be empty")
	}

	if c.Data.Format != "json" && c.Data.Format != "yaml" {
		return fmt.Errorf("invalid tree format: %s (must be json or yaml)", c.Data.Format)
	}

	if c.Import.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive, got %d", c.Import.BatchSize)
	}
	if c.Import.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Import.Concurrency)
	}

	switch c.Import.DuplicatePolicy {
	case DuplicateKeepFirst, DuplicateFail:
	default:
		return fmt.Errorf("invalid duplicate policy: %s (must be %s or %s)",
			c.Import.DuplicatePolicy, DuplicateKeepFirst, DuplicateFail)
	}

	return nil
}

// expandPaths expands ~ and makes every configured path absolute.
// The export path defaults to the data path.
func (c *Config) expandPaths() error {
	var err error
	if c.Data.Path, err = expandPath(c.Data.Path, ""); err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if c.Data.SourcesFallbackPath, err = expandPath(c.Data.SourcesFallbackPath, ""); err != nil {
		return fmt.Errorf("sources fallback: %w", err)
	}
	if c.Database.Path, err = expandPath(c.Database.Path, ""); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if c.Export.OutputPath, err = expandPath(c.Export.OutputPath, c.Data.Path); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned unchanged.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Environment variables take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
