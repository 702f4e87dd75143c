// internal/app/features/dossiers/routes.go
package dossiers

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts all dossier lifecycle routes under the path where this
// router is mounted (typically "/dossiers" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.ServeCreate)
	r.Get("/{dossierID}", h.ServeView)

	r.Post("/{dossierID}/lock", h.ServeLock)
	r.Post("/{dossierID}/unlock", h.ServeUnlock)

	r.Delete("/{dossierID}", h.ServeSoftDelete)
	r.Post("/{dossierID}/restore", h.ServeRestore)
	r.Delete("/{dossierID}/permanent", h.ServePermanentDelete)

	r.Post("/{dossierID}/share", h.ServeShare)

	r.Post("/{dossierID}/documents", h.ServeUpload)
	r.Delete("/{dossierID}/documents/{documentID}", h.ServeRemoveDocument)
	r.Get("/{dossierID}/documents/{documentID}/download", h.ServeDownload)
	r.Post("/{dossierID}/documents/{documentID}/consult", h.ServeConsult)

	return r
}
