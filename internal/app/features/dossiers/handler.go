// internal/app/features/dossiers/handler.go

// Package dossiers exposes the dossier lifecycle over HTTP: create, view,
// lock/unlock, soft-delete/restore/permanent-delete, share, and document
// upload, download, removal, and access recording.
package dossiers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/boubskouk/dossiervault/internal/app/content"
	uierrors "github.com/boubskouk/dossiervault/internal/app/features/errors"
	"github.com/boubskouk/dossiervault/internal/app/lifecycle"
	dossierstore "github.com/boubskouk/dossiervault/internal/app/store/dossiers"
	"github.com/boubskouk/dossiervault/internal/app/system/limits"
	"go.uber.org/zap"
)

// Handler holds the dossier feature's dependencies.
type Handler struct {
	Manager  *lifecycle.Manager
	Dossiers *dossierstore.Store
	Content  content.Gateway

	// RecoveryWindow is the soft-delete recovery window applied when the
	// request does not name one.
	RecoveryWindow time.Duration

	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a dossier feature handler.
func NewHandler(manager *lifecycle.Manager, store *dossierstore.Store, gw content.Gateway, recoveryWindow time.Duration, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Manager:        manager,
		Dossiers:       store,
		Content:        gw,
		RecoveryWindow: recoveryWindow,
		ErrLog:         errLog,
		Log:            logger,
	}
}

// actorFrom extracts the acting user from the request. Authentication is
// handled upstream; the gateway forwards the resolved identity here.
func actorFrom(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Actor"))
}

// decodeJSON decodes a JSON request body, capping it at the configured
// size limit.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)
	return json.NewDecoder(r.Body).Decode(v)
}
