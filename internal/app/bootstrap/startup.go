// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/boubskouk/dossiervault/internal/app/content"
	"github.com/boubskouk/dossiervault/internal/app/lifecycle"
	"github.com/boubskouk/dossiervault/internal/app/store/audit"
	dossierstore "github.com/boubskouk/dossiervault/internal/app/store/dossiers"
	sharestore "github.com/boubskouk/dossiervault/internal/app/store/shares"
	"github.com/boubskouk/dossiervault/internal/app/system/auditlog"
	"github.com/boubskouk/dossiervault/internal/app/system/timeouts"
	"github.com/boubskouk/dossiervault/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shared singletons built during Startup and consumed by BuildHandler and
// Shutdown. WAFFLE runs Startup before BuildHandler and Shutdown last, so
// no synchronization is needed.
var (
	contentGateway content.Gateway
	vaultManager   *lifecycle.Manager
	purgeWorker    *workers.PurgeSweep
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built. It
// builds the content gateway and lifecycle manager and starts the
// background purge sweep.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{Sweep: appCfg.SweepTimeout})

	gw, err := content.NewLocal(appCfg.ContentDir)
	if err != nil {
		return fmt.Errorf("content storage: %w", err)
	}
	contentGateway = gw

	db := deps.VaultMongoDatabase
	auditLogger := auditlog.New(audit.New(db), logger)
	vaultManager = lifecycle.New(dossierstore.New(db), sharestore.New(db), contentGateway, auditLogger, logger)

	purgeWorker = workers.NewPurgeSweep(vaultManager, logger, appCfg.PurgeInterval)
	purgeWorker.Start()

	return nil
}
