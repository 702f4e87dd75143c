// internal/app/features/reports/listings.go
package reports

import (
	"net/http"

	uierrors "github.com/boubskouk/dossiervault/internal/app/features/errors"
	"github.com/boubskouk/dossiervault/internal/app/system/timeouts"
)

// ServeListActive handles GET /reports/dossiers.
func (h *Handler) ServeListActive(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list active dossiers")
	defer cancel()

	out, err := h.Engine.ListActive(ctx, listParamsFrom(r))
	if err != nil {
		h.ErrLog.LogError(r, "list active dossiers", err)
		uierrors.WriteFromError(w, err)
		return
	}
	h.writeJSON(w, out)
}

// ServeListDeleted handles GET /reports/dossiers/deleted.
func (h *Handler) ServeListDeleted(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list deleted dossiers")
	defer cancel()

	out, err := h.Engine.ListDeleted(ctx, listParamsFrom(r))
	if err != nil {
		h.ErrLog.LogError(r, "list deleted dossiers", err)
		uierrors.WriteFromError(w, err)
		return
	}
	h.writeJSON(w, out)
}

// ServeListLocked handles GET /reports/dossiers/locked.
func (h *Handler) ServeListLocked(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list locked dossiers")
	defer cancel()

	out, err := h.Engine.ListLocked(ctx, listParamsFrom(r))
	if err != nil {
		h.ErrLog.LogError(r, "list locked dossiers", err)
		uierrors.WriteFromError(w, err)
		return
	}
	h.writeJSON(w, out)
}

// ServeListDocuments handles GET /reports/documents.
func (h *Handler) ServeListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "list documents")
	defer cancel()

	out, err := h.Engine.ListDocuments(ctx, listParamsFrom(r))
	if err != nil {
		h.ErrLog.LogError(r, "list documents", err)
		uierrors.WriteFromError(w, err)
		return
	}
	h.writeJSON(w, out)
}
