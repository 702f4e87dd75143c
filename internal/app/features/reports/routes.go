// internal/app/features/reports/routes.go
package reports

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts all report routes under the path where this router is
// mounted (typically "/reports" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/global", h.ServeGlobal)
	r.Get("/activity", h.ServeActivity)
	r.Get("/timeline", h.ServeTimeline)

	r.Get("/most-shared", h.ServeMostShared)
	r.Get("/most-downloaded", h.ServeMostDownloaded)
	r.Get("/most-consulted", h.ServeMostConsulted)

	r.Get("/deletions", h.ServeDeletions)
	r.Get("/locks", h.ServeLocks)

	r.Get("/dossiers", h.ServeListActive)
	r.Get("/dossiers/deleted", h.ServeListDeleted)
	r.Get("/dossiers/locked", h.ServeListLocked)
	r.Get("/documents", h.ServeListDocuments)

	return r
}
