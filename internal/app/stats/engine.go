// internal/app/stats/engine.go

// Package stats is the read side of the archive: it reconstructs usage
// dashboards from the current dossier collection, the append-only audit
// log, and the share history. Nothing here mutates state, and no
// pre-aggregated store exists; every figure is derived at query time.
package stats

import (
	"fmt"
	"time"

	"github.com/boubskouk/dossiervault/internal/app/store/audit"
	"github.com/boubskouk/dossiervault/internal/app/store/departments"
	dossierstore "github.com/boubskouk/dossiervault/internal/app/store/dossiers"
	"github.com/boubskouk/dossiervault/internal/app/store/roles"
	sharestore "github.com/boubskouk/dossiervault/internal/app/store/shares"
	"github.com/boubskouk/dossiervault/internal/app/store/users"
	"github.com/boubskouk/dossiervault/internal/app/system/periods"
	"go.uber.org/zap"
)

// TopSize is the cutoff for most-shared/most-downloaded rankings.
const TopSize = 10

// AggregationError wraps any failure during read-side composition. An
// aggregation either fully succeeds or fails with one of these; partial
// dashboards are never returned.
type AggregationError struct {
	Op  string
	Err error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation %s: %v", e.Op, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// Engine answers read-only reporting queries.
type Engine struct {
	dossiers    *dossierstore.Store
	audit       *audit.Store
	shares      *sharestore.Store
	users       *users.Store
	roles       *roles.Store
	departments *departments.Store
	log         *zap.Logger

	now func() time.Time
}

// New creates an aggregation Engine.
func New(
	dossiers *dossierstore.Store,
	auditStore *audit.Store,
	shares *sharestore.Store,
	userDir *users.Store,
	roleDir *roles.Store,
	departmentDir *departments.Store,
	log *zap.Logger,
) *Engine {
	return &Engine{
		dossiers:    dossiers,
		audit:       auditStore,
		shares:      shares,
		users:       userDir,
		roles:       roleDir,
		departments: departmentDir,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the engine's time source for tests.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// PeriodQuery identifies the reporting period of a query. Custom bounds
// are only consulted when Period is "custom".
type PeriodQuery struct {
	Period      string
	CustomStart *time.Time
	CustomEnd   *time.Time
}

func (e *Engine) resolve(p PeriodQuery) periods.Range {
	return periods.Resolve(p.Period, p.CustomStart, p.CustomEnd, e.now())
}

func (e *Engine) fail(op string, err error) error {
	e.log.Warn("aggregation failed", zap.String("op", op), zap.Error(err))
	return &AggregationError{Op: op, Err: err}
}
