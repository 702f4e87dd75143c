// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for DossierVault.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, content_dir, etc.
//   - Environment variables: DOSSIERVAULT_MONGO_URI, DOSSIERVAULT_CONTENT_DIR, etc.
//   - Command-line flags: --mongo_uri, --content_dir, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "dossier_vault", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Document content storage
	{Name: "content_dir", Default: "./uploads/documents", Desc: "Directory where document bytes are stored"},

	// Dossier lifecycle policy
	{Name: "recovery_window", Default: "720h", Desc: "Soft-delete recovery window (e.g., 720h for 30 days)"},
	{Name: "purge_interval", Default: "1h", Desc: "How often the expired-dossier purge sweep runs"},
	{Name: "sweep_timeout", Default: "2m", Desc: "Deadline for one purge sweep pass"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, DOSSIERVAULT_* for app), and
// command-line flags, merging with precedence flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DOSSIERVAULT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		ContentDir: appValues.String("content_dir"),

		RecoveryWindow: appValues.Duration("recovery_window", 30*24*time.Hour),
		PurgeInterval:  appValues.Duration("purge_interval", time.Hour),
		SweepTimeout:   appValues.Duration("sweep_timeout", 2*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked here to catch configuration errors
// before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.ContentDir == "" {
		return fmt.Errorf("content_dir must be set")
	}
	if appCfg.RecoveryWindow <= 0 {
		return fmt.Errorf("recovery_window must be positive, got %s", appCfg.RecoveryWindow)
	}
	if appCfg.PurgeInterval <= 0 {
		return fmt.Errorf("purge_interval must be positive, got %s", appCfg.PurgeInterval)
	}
	if appCfg.SweepTimeout <= 0 {
		return fmt.Errorf("sweep_timeout must be positive, got %s", appCfg.SweepTimeout)
	}

	return nil
}
