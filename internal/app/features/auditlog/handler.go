// internal/app/features/auditlog/handler.go

// Package auditlog exposes the append-only audit trail for inspection.
package auditlog

import (
	uierrors "github.com/boubskouk/dossiervault/internal/app/features/errors"
	"github.com/boubskouk/dossiervault/internal/app/store/audit"
	"go.uber.org/zap"
)

// Handler holds the audit trail feature's dependencies.
type Handler struct {
	Audit  *audit.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs an audit trail handler bound to the audit store.
func NewHandler(store *audit.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Audit:  store,
		ErrLog: errLog,
		Log:    logger,
	}
}
