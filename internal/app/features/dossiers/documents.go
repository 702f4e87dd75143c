// internal/app/features/dossiers/documents.go
package dossiers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	uierrors "github.com/boubskouk/dossiervault/internal/app/features/errors"
	"github.com/boubskouk/dossiervault/internal/app/lifecycle"
	dossierstore "github.com/boubskouk/dossiervault/internal/app/store/dossiers"
	"github.com/boubskouk/dossiervault/internal/app/system/limits"
	"github.com/boubskouk/dossiervault/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeUpload handles POST /dossiers/{dossierID}/documents.
//
// The request is multipart form data with the file under "file" and an
// optional "title" field. Bytes are stored through the content gateway
// first; the document record references them afterwards.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	dossierID := chi.URLParam(r, "dossierID")
	if actor == "" {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "missing actor")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxUploadSize)
	if err := r.ParseMultipartForm(limits.MaxUploadMemory); err != nil {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "missing file")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}

	put, err := h.Content.Put(ctx, file, header.Filename, contentType)
	if err != nil {
		h.ErrLog.LogError(r, "store document content", err)
		uierrors.Write(w, http.StatusInternalServerError, uierrors.CodeInternal, "could not store file")
		return
	}

	doc, err := h.Manager.AddDocument(ctx, dossierID, lifecycle.DocumentParams{
		Title:       r.FormValue("title"),
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        put.Size,
		AddedBy:     actor,
	}, put.Reference)
	if err != nil {
		// The record never existed, so drop the orphaned bytes.
		if delErr := h.Content.Delete(ctx, put.Reference); delErr != nil {
			h.Log.Warn("orphaned content cleanup failed",
				zap.String("reference", put.Reference),
				zap.Error(delErr))
		}
		h.ErrLog.LogError(r, "add document", err)
		uierrors.WriteFromError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(documentPayload{
		DocumentID:  doc.ID,
		FileName:    doc.FileName,
		Title:       doc.Title,
		Size:        doc.Size,
		ContentType: doc.ContentType,
		AddedAt:     doc.AddedAt,
	})
}

// ServeRemoveDocument handles DELETE /dossiers/{dossierID}/documents/{documentID}.
//
// The document record is removed; its bytes stay until the dossier is
// permanently deleted.
func (h *Handler) ServeRemoveDocument(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	dossierID := chi.URLParam(r, "dossierID")
	documentID := chi.URLParam(r, "documentID")
	if actor == "" {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "missing actor")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Manager.RemoveDocument(ctx, dossierID, documentID, actor); err != nil {
		h.ErrLog.LogError(r, "remove document", err)
		uierrors.WriteFromError(w, err)
		return
	}
	writeSuccess(w, dossierID)
}

// ServeDownload handles GET /dossiers/{dossierID}/documents/{documentID}/download.
//
// Streams the stored bytes and appends a download entry to the document's
// access history.
func (h *Handler) ServeDownload(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	dossierID := chi.URLParam(r, "dossierID")
	documentID := chi.URLParam(r, "documentID")
	if actor == "" {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "missing actor")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Dossiers.Get(ctx, dossierID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.Write(w, http.StatusNotFound, uierrors.CodeNotFound, "dossier not found")
			return
		}
		h.ErrLog.LogError(r, "download document", err)
		uierrors.WriteFromError(w, err)
		return
	}
	if d.Deleted {
		uierrors.Write(w, http.StatusNotFound, uierrors.CodeNotFound, "dossier not found")
		return
	}
	doc := d.FindDocument(documentID)
	if doc == nil {
		uierrors.Write(w, http.StatusNotFound, uierrors.CodeNotFound, "document not found")
		return
	}

	rc, err := h.Content.Get(ctx, doc.ContentRef)
	if err != nil {
		h.ErrLog.LogError(r, "open document content", err)
		uierrors.Write(w, http.StatusInternalServerError, uierrors.CodeInternal, "could not open file")
		return
	}
	defer rc.Close()

	if err := h.Manager.RecordAccess(ctx, dossierID, documentID, actor, dossierstore.AccessDownload); err != nil {
		// The download still proceeds; the history entry is advisory here.
		h.Log.Warn("download access entry failed",
			zap.String("dossier_id", dossierID),
			zap.String("document_id", documentID),
			zap.Error(err))
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	w.Header().Set("Last-Modified", doc.AddedAt.UTC().Format(time.RFC1123))
	if _, err := io.Copy(w, rc); err != nil {
		h.Log.Warn("document stream interrupted",
			zap.String("document_id", documentID),
			zap.Error(err))
	}
}

// ServeConsult handles POST /dossiers/{dossierID}/documents/{documentID}/consult.
//
// Records that the actor viewed the document without downloading it.
func (h *Handler) ServeConsult(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	dossierID := chi.URLParam(r, "dossierID")
	documentID := chi.URLParam(r, "documentID")
	if actor == "" {
		uierrors.Write(w, http.StatusBadRequest, uierrors.CodeValidation, "missing actor")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Manager.RecordAccess(ctx, dossierID, documentID, actor, dossierstore.AccessConsultation); err != nil {
		h.ErrLog.LogError(r, "record consultation", err)
		uierrors.WriteFromError(w, err)
		return
	}
	writeSuccess(w, dossierID)
}
