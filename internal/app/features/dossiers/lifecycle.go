// internal/app/features/dossiers/lifecycle.go
package dossiers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	uierrors "github.com/boubskouk/dossiervault/internal/app/features/errors"
	"github.com/boubskouk/dossiervault/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

type actionResult struct {
	Success   bool   `json:"success"`
	DossierID string `json:"dossierId"`
}

func writeSuccess(w http.ResponseWriter, dossierID string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(actionResult{Success: true, DossierID: dossierID})
}

// ServeLock handles POST /dossiers/{dossierID}/lock.
func (h *Handler) ServeLock(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	dossierID := chi.URLParam(r, "dossierID")
	if actor == "" {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "missing actor")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Manager.Lock(ctx, dossierID, actor); err != nil {
		h.ErrLog.LogError(r, "lock dossier", err)
		uierrors.WriteFromError(w, err)
		return
	}
	writeSuccess(w, dossierID)
}

// ServeUnlock handles POST /dossiers/{dossierID}/unlock.
func (h *Handler) ServeUnlock(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	dossierID := chi.URLParam(r, "dossierID")
	if actor == "" {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "missing actor")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Manager.Unlock(ctx, dossierID, actor); err != nil {
		h.ErrLog.LogError(r, "unlock dossier", err)
		uierrors.WriteFromError(w, err)
		return
	}
	writeSuccess(w, dossierID)
}

type softDeleteRequest struct {
	Motif string `json:"motif"`

	// RecoveryDays overrides the configured recovery window when positive.
	RecoveryDays int `json:"recoveryDays,omitempty"`
}

// ServeSoftDelete handles DELETE /dossiers/{dossierID}.
func (h *Handler) ServeSoftDelete(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	dossierID := chi.URLParam(r, "dossierID")
	if actor == "" {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "missing actor")
		return
	}

	var req softDeleteRequest
	if r.Body != nil {
		// An empty body means no motif and the default window.
		_ = decodeJSON(w, r, &req)
	}

	window := h.RecoveryWindow
	if req.RecoveryDays > 0 {
		window = time.Duration(req.RecoveryDays) * 24 * time.Hour
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Manager.SoftDelete(ctx, dossierID, actor, req.Motif, window); err != nil {
		h.ErrLog.LogError(r, "soft-delete dossier", err)
		uierrors.WriteFromError(w, err)
		return
	}
	writeSuccess(w, dossierID)
}

// ServeRestore handles POST /dossiers/{dossierID}/restore.
func (h *Handler) ServeRestore(w http.ResponseWriter, r *http.Request) {
	dossierID := chi.URLParam(r, "dossierID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Manager.Restore(ctx, dossierID); err != nil {
		h.ErrLog.LogError(r, "restore dossier", err)
		uierrors.WriteFromError(w, err)
		return
	}
	writeSuccess(w, dossierID)
}

// ServePermanentDelete handles DELETE /dossiers/{dossierID}/permanent.
func (h *Handler) ServePermanentDelete(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	dossierID := chi.URLParam(r, "dossierID")
	if actor == "" {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "missing actor")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Manager.PermanentDelete(ctx, dossierID, actor); err != nil {
		h.ErrLog.LogError(r, "permanent-delete dossier", err)
		uierrors.WriteFromError(w, err)
		return
	}
	writeSuccess(w, dossierID)
}
