// internal/app/features/dossiers/share.go
package dossiers

import (
	"context"
	"net/http"

	uierrors "github.com/boubskouk/dossiervault/internal/app/features/errors"
	"github.com/boubskouk/dossiervault/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

type shareRequest struct {
	SharedWith string `json:"sharedWith"`
}

// ServeShare handles POST /dossiers/{dossierID}/share.
func (h *Handler) ServeShare(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	dossierID := chi.URLParam(r, "dossierID")
	if actor == "" {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "missing actor")
		return
	}

	var req shareRequest
	if err := decodeJSON(w, r, &req); err != nil || req.SharedWith == "" {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "missing share target")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Manager.Share(ctx, dossierID, actor, req.SharedWith); err != nil {
		h.ErrLog.LogError(r, "share dossier", err)
		uierrors.WriteFromError(w, err)
		return
	}
	writeSuccess(w, dossierID)
}
