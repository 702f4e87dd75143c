// internal/app/features/reports/rankings.go
package reports

import (
	"net/http"

	uierrors "github.com/boubskouk/dossiervault/internal/app/features/errors"
	"github.com/boubskouk/dossiervault/internal/app/stats"
	"github.com/boubskouk/dossiervault/internal/app/system/timeouts"
)

// ServeMostShared handles GET /reports/most-shared.
func (h *Handler) ServeMostShared(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "most shared")
	defer cancel()

	out, err := h.Engine.MostShared(ctx, periodFrom(r))
	if err != nil {
		h.ErrLog.LogError(r, "most shared", err)
		uierrors.WriteFromError(w, err)
		return
	}
	if out == nil {
		out = []stats.SharedEntity{}
	}
	h.writeJSON(w, out)
}

// ServeMostDownloaded handles GET /reports/most-downloaded.
func (h *Handler) ServeMostDownloaded(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "most downloaded")
	defer cancel()

	out, err := h.Engine.MostDownloaded(ctx, periodFrom(r))
	if err != nil {
		h.ErrLog.LogError(r, "most downloaded", err)
		uierrors.WriteFromError(w, err)
		return
	}
	if out == nil {
		out = []stats.AccessedDocument{}
	}
	h.writeJSON(w, out)
}

// ServeMostConsulted handles GET /reports/most-consulted.
func (h *Handler) ServeMostConsulted(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "most consulted")
	defer cancel()

	out, err := h.Engine.MostConsulted(ctx, periodFrom(r))
	if err != nil {
		h.ErrLog.LogError(r, "most consulted", err)
		uierrors.WriteFromError(w, err)
		return
	}
	if out == nil {
		out = []stats.AccessedDocument{}
	}
	h.writeJSON(w, out)
}

// ServeDeletions handles GET /reports/deletions.
func (h *Handler) ServeDeletions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "deletion leaderboard")
	defer cancel()

	out, err := h.Engine.DeletionsByRole(ctx, levelFrom(r), periodFrom(r))
	if err != nil {
		h.ErrLog.LogError(r, "deletion leaderboard", err)
		uierrors.WriteFromError(w, err)
		return
	}
	h.writeJSON(w, out)
}

// ServeLocks handles GET /reports/locks.
func (h *Handler) ServeLocks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "lock leaderboard")
	defer cancel()

	out, err := h.Engine.LocksByRole(ctx, levelFrom(r), periodFrom(r))
	if err != nil {
		h.ErrLog.LogError(r, "lock leaderboard", err)
		uierrors.WriteFromError(w, err)
		return
	}
	h.writeJSON(w, out)
}
