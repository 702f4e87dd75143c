// internal/app/features/dossiers/create.go
package dossiers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/boubskouk/dossiervault/internal/app/features/errors"
	"github.com/boubskouk/dossiervault/internal/app/lifecycle"
	"github.com/boubskouk/dossiervault/internal/app/system/timeouts"
	"github.com/boubskouk/dossiervault/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

type createRequest struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	DepartmentID string `json:"departmentId"`
	Service      string `json:"service"`
	CreatorName  string `json:"creatorName"`
}

// ServeCreate handles POST /dossiers.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor == "" {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "missing actor")
		return
	}

	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Manager.CreateDossier(ctx, lifecycle.CreateParams{
		Title:        req.Title,
		Category:     req.Category,
		DepartmentID: req.DepartmentID,
		Service:      req.Service,
		CreatedBy:    actor,
		CreatorName:  req.CreatorName,
	})
	if err != nil {
		h.ErrLog.LogError(r, "create dossier", err)
		uierrors.WriteFromError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(dossierView(d, time.Now().UTC()))
}

// ServeView handles GET /dossiers/{dossierID}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	dossierID := chi.URLParam(r, "dossierID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Dossiers.Get(ctx, dossierID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.Write(w, http.StatusNotFound, uierrors.CodeNotFound, "dossier not found")
			return
		}
		h.ErrLog.LogError(r, "view dossier", err)
		uierrors.WriteFromError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(dossierView(d, time.Now().UTC()))
}

type documentPayload struct {
	DocumentID    string    `json:"documentId"`
	FileName      string    `json:"fileName"`
	Title         string    `json:"title"`
	Size          int64     `json:"size"`
	ContentType   string    `json:"contentType,omitempty"`
	AddedAt       time.Time `json:"addedAt"`
	Consultations int       `json:"consultations"`
	Downloads     int       `json:"downloads"`
}

type dossierPayload struct {
	DossierID     string     `json:"dossierId"`
	Title         string     `json:"title"`
	Category      string     `json:"category,omitempty"`
	DepartmentID  string     `json:"departmentId"`
	Service       string     `json:"service,omitempty"`
	CreatedBy     string     `json:"createdBy"`
	CreatorName   string     `json:"creatorName,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	State         string     `json:"state"`
	DocumentCount int        `json:"documentCount"`
	TotalSize     int64      `json:"totalSize"`
	LockedBy      string     `json:"lockedBy,omitempty"`
	LockedAt      *time.Time `json:"lockedAt,omitempty"`
	DeletedBy     string     `json:"deletedBy,omitempty"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty"`
	Motif         string     `json:"motif,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`

	// DaysUntilExpiration is present only while the dossier is soft-deleted.
	DaysUntilExpiration *int `json:"daysUntilExpiration,omitempty"`

	SharedWith []string          `json:"sharedWith,omitempty"`
	Documents  []documentPayload `json:"documents"`
}

func dossierView(d models.Dossier, now time.Time) dossierPayload {
	p := dossierPayload{
		DossierID:     d.DossierID,
		Title:         d.Title,
		Category:      d.Category,
		DepartmentID:  d.DepartmentID,
		Service:       d.Service,
		CreatedBy:     d.CreatedBy,
		CreatorName:   d.CreatorName,
		CreatedAt:     d.CreatedAt,
		State:         d.State(),
		DocumentCount: d.DocumentCount,
		TotalSize:     d.TotalSize,
		LockedBy:      d.LockedBy,
		LockedAt:      d.LockedAt,
		DeletedBy:     d.DeletedBy,
		DeletedAt:     d.DeletedAt,
		Motif:         d.DeletionMotif,
		ExpiresAt:     d.ExpiresAt,
		SharedWith:    d.SharedWith,
		Documents:     make([]documentPayload, 0, len(d.Documents)),
	}
	if d.Deleted {
		days := d.DaysUntilExpiration(now)
		p.DaysUntilExpiration = &days
	}
	for i := range d.Documents {
		doc := &d.Documents[i]
		p.Documents = append(p.Documents, documentPayload{
			DocumentID:    doc.ID,
			FileName:      doc.FileName,
			Title:         doc.Title,
			Size:          doc.Size,
			ContentType:   doc.ContentType,
			AddedAt:       doc.AddedAt,
			Consultations: len(doc.Consultations),
			Downloads:     len(doc.Downloads),
		})
	}
	return p
}
