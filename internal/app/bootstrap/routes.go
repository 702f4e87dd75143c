// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	auditfeature "github.com/boubskouk/dossiervault/internal/app/features/auditlog"
	dossierfeature "github.com/boubskouk/dossiervault/internal/app/features/dossiers"
	errorsfeature "github.com/boubskouk/dossiervault/internal/app/features/errors"
	healthfeature "github.com/boubskouk/dossiervault/internal/app/features/health"
	reportsfeature "github.com/boubskouk/dossiervault/internal/app/features/reports"
	"github.com/boubskouk/dossiervault/internal/app/stats"
	"github.com/boubskouk/dossiervault/internal/app/store/audit"
	"github.com/boubskouk/dossiervault/internal/app/store/departments"
	dossierstore "github.com/boubskouk/dossiervault/internal/app/store/dossiers"
	"github.com/boubskouk/dossiervault/internal/app/store/roles"
	sharestore "github.com/boubskouk/dossiervault/internal/app/store/shares"
	userstore "github.com/boubskouk/dossiervault/internal/app/store/users"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so the lifecycle manager and content
// gateway singletons are ready. It mounts the feature routers: health,
// dossier lifecycle, reports, and the audit trail.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if vaultManager == nil || contentGateway == nil {
		return nil, fmt.Errorf("startup has not run")
	}

	db := deps.VaultMongoDatabase
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.VaultMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Dossier lifecycle
	dossierHandler := dossierfeature.NewHandler(vaultManager, dossierstore.New(db), contentGateway, appCfg.RecoveryWindow, errLog, logger)
	r.Mount("/dossiers", dossierfeature.Routes(dossierHandler))

	// Statistics and listings
	engine := stats.New(
		dossierstore.New(db),
		audit.New(db),
		sharestore.New(db),
		userstore.New(db),
		roles.New(db),
		departments.New(db),
		logger,
	)
	reportsHandler := reportsfeature.NewHandler(engine, errLog, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler))

	// Audit trail
	auditHandler := auditfeature.NewHandler(audit.New(db), errLog, logger)
	r.Mount("/audit", auditfeature.Routes(auditHandler))

	return r, nil
}
