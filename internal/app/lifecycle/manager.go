// internal/app/lifecycle/manager.go

// Package lifecycle owns the state machine of a dossier and its embedded
// documents: create, lock/unlock, soft-delete with a recovery window,
// restore, permanent delete, share, document add/remove, and access
// recording. All mutations flow through here; reporting never does.
package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/boubskouk/dossiervault/internal/app/content"
	"github.com/boubskouk/dossiervault/internal/app/store/audit"
	dossierstore "github.com/boubskouk/dossiervault/internal/app/store/dossiers"
	sharestore "github.com/boubskouk/dossiervault/internal/app/store/shares"
	"github.com/boubskouk/dossiervault/internal/app/system/auditlog"
	"github.com/boubskouk/dossiervault/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Manager enforces dossier state transitions and keeps the audit and share
// stores consistent with mutations. Preconditions are pushed down into the
// store's conditional updates, so concurrent callers race on the database
// record, not on in-process locks.
type Manager struct {
	dossiers *dossierstore.Store
	shares   *sharestore.Store
	content  content.Gateway
	audit    *auditlog.Logger
	log      *zap.Logger

	now func() time.Time
}

// New creates a lifecycle Manager.
func New(dossiers *dossierstore.Store, shares *sharestore.Store, gw content.Gateway, auditLog *auditlog.Logger, log *zap.Logger) *Manager {
	return &Manager{
		dossiers: dossiers,
		shares:   shares,
		content:  gw,
		audit:    auditLog,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the manager's time source. Tests use this to advance
// past recovery windows.
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// CreateParams carries the metadata for a new dossier.
type CreateParams struct {
	Title        string
	Category     string
	DepartmentID string
	Service      string
	CreatedBy    string
	CreatorName  string
}

// CreateDossier archives a new empty dossier.
func (m *Manager) CreateDossier(ctx context.Context, p CreateParams) (models.Dossier, error) {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.DepartmentID) == "" {
		return models.Dossier{}, ErrValidation
	}

	d := models.Dossier{
		DossierID:    uuid.New().String(),
		Title:        p.Title,
		TitleCI:      text.Fold(p.Title),
		Category:     p.Category,
		DepartmentID: p.DepartmentID,
		Service:      p.Service,
		CreatedBy:    p.CreatedBy,
		CreatorName:  p.CreatorName,
		CreatedAt:    m.now(),
	}

	d, err := m.dossiers.Insert(ctx, d)
	if err != nil {
		return models.Dossier{}, err
	}

	m.audit.Created(ctx, p.CreatedBy, d.DossierID, d.Title)
	return d, nil
}

// Lock locks the dossier for the actor. Locking a dossier the same actor
// already holds is idempotent; a lock held by anyone else fails with
// ErrAlreadyLocked.
func (m *Manager) Lock(ctx context.Context, dossierID, actor string) error {
	locked, matched, err := m.dossiers.TryLock(ctx, dossierID, actor, m.now())
	if err != nil {
		return err
	}
	if matched {
		m.audit.Locked(ctx, actor, dossierID, locked.Title)
		return nil
	}

	// The conditional update missed: absent, deleted, or held elsewhere.
	d, err := m.dossiers.Get(ctx, dossierID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	if d.Deleted {
		return ErrNotFound
	}
	return ErrAlreadyLocked
}

// Unlock clears the lock. Only the locking actor may release it.
func (m *Manager) Unlock(ctx context.Context, dossierID, actor string) error {
	d, err := m.dossiers.Get(ctx, dossierID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	if d.Deleted {
		return ErrNotFound
	}
	if !d.Locked {
		return nil
	}
	if d.LockedBy != actor {
		return ErrLocked
	}

	matched, err := m.dossiers.Unlock(ctx, dossierID)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// SoftDelete hides the dossier behind a recovery window. Deleting an
// already-deleted dossier is a no-op, not an error.
func (m *Manager) SoftDelete(ctx context.Context, dossierID, actor, motif string, recoveryWindow time.Duration) error {
	if recoveryWindow <= 0 {
		return ErrValidation
	}

	now := m.now()
	deleted, matched, err := m.dossiers.MarkDeleted(ctx, dossierID, actor, motif, now, now.Add(recoveryWindow))
	if err != nil {
		return err
	}
	if matched {
		m.audit.Deleted(ctx, actor, dossierID, deleted.Title, audit.DeletionSoft)
		return nil
	}

	d, err := m.dossiers.Get(ctx, dossierID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	if d.Deleted {
		return nil
	}
	return ErrNotFound
}

// Restore clears the deletion fields while the recovery window is open.
// Past the window the dossier is unrecoverable by policy even though the
// record persists until the purge sweep removes it.
func (m *Manager) Restore(ctx context.Context, dossierID string) error {
	matched, err := m.dossiers.ClearDeleted(ctx, dossierID, m.now())
	if err != nil {
		return err
	}
	if matched {
		return nil
	}

	d, err := m.dossiers.Get(ctx, dossierID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	if !d.Deleted {
		// Restoring a live dossier is a no-op.
		return nil
	}
	return ErrExpired
}

// PermanentDelete removes the dossier record and every embedded document's
// bytes. A content-deletion failure is logged and skipped: the record is
// removed regardless, since a storage leak beats an undeletable dossier.
// Not reversible.
func (m *Manager) PermanentDelete(ctx context.Context, dossierID, actor string) error {
	d, err := m.dossiers.Get(ctx, dossierID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	for i := range d.Documents {
		doc := &d.Documents[i]
		if doc.ContentRef == "" {
			continue
		}
		if err := m.content.Delete(ctx, doc.ContentRef); err != nil {
			m.log.Warn("failed to delete document content",
				zap.String("dossier_id", dossierID),
				zap.String("document_id", doc.ID),
				zap.String("content_ref", doc.ContentRef),
				zap.Error(err))
		}
	}

	if _, err := m.dossiers.Remove(ctx, dossierID); err != nil {
		return err
	}

	m.audit.Deleted(ctx, actor, dossierID, d.Title, audit.DeletionPermanent)
	return nil
}

// Share adds sharedWith to the dossier's share targets (idempotent) and
// appends a share record.
func (m *Manager) Share(ctx context.Context, dossierID, sharedBy, sharedWith string) error {
	if sharedBy == sharedWith {
		return ErrSelfShare
	}

	d, matched, err := m.dossiers.AddShareTarget(ctx, dossierID, sharedWith)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}

	if err := m.shares.Append(ctx, sharestore.Record{
		DossierID:  dossierID,
		SharedBy:   sharedBy,
		SharedWith: sharedWith,
		SharedAt:   m.now(),
	}); err != nil {
		return err
	}

	m.audit.Shared(ctx, sharedBy, dossierID, d.Title, sharedWith)
	return nil
}

// DocumentParams carries the metadata for a new embedded document.
type DocumentParams struct {
	Title       string
	FileName    string
	ContentType string
	Size        int64
	AddedBy     string
}

// AddDocument appends a document to the dossier. The contentRef must
// already point at stored bytes.
func (m *Manager) AddDocument(ctx context.Context, dossierID string, p DocumentParams, contentRef string) (models.Document, error) {
	if strings.TrimSpace(p.FileName) == "" || strings.TrimSpace(contentRef) == "" {
		return models.Document{}, ErrValidation
	}

	doc := models.Document{
		ID:          uuid.New().String(),
		FileName:    p.FileName,
		Title:       p.Title,
		Size:        p.Size,
		ContentType: p.ContentType,
		ContentRef:  contentRef,
		AddedAt:     m.now(),
	}
	if doc.Title == "" {
		doc.Title = p.FileName
	}

	d, matched, err := m.dossiers.PushDocument(ctx, dossierID, doc)
	if err != nil {
		return models.Document{}, err
	}
	if !matched {
		return models.Document{}, ErrNotFound
	}

	m.audit.DocumentAdded(ctx, p.AddedBy, dossierID, d.Title, doc.ID, doc.FileName)
	return doc, nil
}

// RemoveDocument removes one embedded document. On a locked dossier only
// the locking actor may remove documents.
func (m *Manager) RemoveDocument(ctx context.Context, dossierID, documentID, actor string) error {
	d, err := m.dossiers.Get(ctx, dossierID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	if d.Deleted {
		return ErrNotFound
	}
	if d.Locked && d.LockedBy != actor {
		return ErrLocked
	}

	doc := d.FindDocument(documentID)
	if doc == nil {
		return ErrNotFound
	}

	matched, err := m.dossiers.PullDocument(ctx, dossierID, documentID, doc.Size)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// RecordAccess appends one consultation or download entry to a document's
// history. Histories are append-only; prior entries are never touched.
func (m *Manager) RecordAccess(ctx context.Context, dossierID, documentID, actor, kind string) error {
	if kind != dossierstore.AccessConsultation && kind != dossierstore.AccessDownload {
		return ErrValidation
	}

	entry := models.AccessEntry{By: actor, At: m.now()}
	d, matched, err := m.dossiers.PushAccess(ctx, dossierID, documentID, kind, entry)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}

	doc := d.FindDocument(documentID)
	name := ""
	if doc != nil {
		name = doc.FileName
	}
	action := audit.ActionConsulted
	if kind == dossierstore.AccessDownload {
		action = audit.ActionDownloaded
	}
	m.audit.Accessed(ctx, action, actor, dossierID, d.Title, documentID, name)
	return nil
}

// PurgeExpired permanently deletes every soft-deleted dossier whose
// recovery window elapsed. Returns the number purged. Used by the
// background sweep; errors on individual dossiers are logged and the
// sweep continues.
func (m *Manager) PurgeExpired(ctx context.Context, actor string) (int, error) {
	expired, err := m.dossiers.FindExpired(ctx, m.now())
	if err != nil {
		return 0, err
	}

	purged := 0
	for i := range expired {
		if err := m.PermanentDelete(ctx, expired[i].DossierID, actor); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			m.log.Warn("purge sweep failed for dossier",
				zap.String("dossier_id", expired[i].DossierID),
				zap.Error(err))
			continue
		}
		purged++
	}
	return purged, nil
}
