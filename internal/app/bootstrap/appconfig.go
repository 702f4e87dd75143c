// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings like HTTP ports, TLS, and logging; AppConfig is
// everything specific to the archive itself.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Document content storage
	ContentDir string // Directory where document bytes are stored

	// Dossier lifecycle policy
	RecoveryWindow time.Duration // How long a soft-deleted dossier stays restorable
	PurgeInterval  time.Duration // How often the purge sweep runs
	SweepTimeout   time.Duration // Deadline for one purge sweep pass
}
