// internal/app/system/auditlog/logger.go

// Package auditlog provides best-effort audit recording. Audit writes are
// advisory: a failed write is logged via zap and never surfaced to the
// caller of the mutation that produced it.
package auditlog

import (
	"context"

	"github.com/boubskouk/dossiervault/internal/app/store/audit"
	"go.uber.org/zap"
)

// Logger mirrors audit entries to MongoDB and structured logs.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
}

// New creates an audit Logger.
func New(store *audit.Store, zapLog *zap.Logger) *Logger {
	return &Logger{store: store, zapLog: zapLog}
}

// Record appends an audit entry. If the logger is nil this is a no-op,
// which lets tests pass a nil audit logger. Store failures are swallowed
// after logging; the mutation that triggered the entry stands.
func (l *Logger) Record(ctx context.Context, e audit.Entry) {
	if l == nil {
		return
	}

	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("action", e.Action),
		zap.String("actor", e.Actor),
	}
	for k, v := range e.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	l.zapLog.Info("audit entry", fields...)

	if err := l.store.Append(ctx, e); err != nil {
		l.zapLog.Error("failed to store audit entry",
			zap.Error(err),
			zap.String("action", e.Action),
		)
	}
}

// Created records a dossier creation.
func (l *Logger) Created(ctx context.Context, actor, dossierID, title string) {
	l.Record(ctx, audit.Entry{
		Action: audit.ActionCreated,
		Actor:  actor,
		Details: map[string]string{
			audit.DetailDossierID:    dossierID,
			audit.DetailDossierTitle: title,
		},
	})
}

// Deleted records a soft or permanent deletion with its classification.
func (l *Logger) Deleted(ctx context.Context, actor, dossierID, title, classification string) {
	l.Record(ctx, audit.Entry{
		Action: audit.ActionDeleted,
		Actor:  actor,
		Details: map[string]string{
			audit.DetailDossierID:    dossierID,
			audit.DetailDossierTitle: title,
			audit.DetailClass:        classification,
		},
	})
}

// Locked records a dossier lock.
func (l *Logger) Locked(ctx context.Context, actor, dossierID, title string) {
	l.Record(ctx, audit.Entry{
		Action: audit.ActionLocked,
		Actor:  actor,
		Details: map[string]string{
			audit.DetailDossierID:    dossierID,
			audit.DetailDossierTitle: title,
		},
	})
}

// Shared records a share of a dossier with another user.
func (l *Logger) Shared(ctx context.Context, actor, dossierID, title, sharedWith string) {
	l.Record(ctx, audit.Entry{
		Action: audit.ActionShared,
		Actor:  actor,
		Details: map[string]string{
			audit.DetailDossierID:    dossierID,
			audit.DetailDossierTitle: title,
			"shared_with":            sharedWith,
		},
	})
}

// DocumentAdded records a document added to a dossier.
func (l *Logger) DocumentAdded(ctx context.Context, actor, dossierID, title, documentID, documentName string) {
	l.Record(ctx, audit.Entry{
		Action: audit.ActionDocumentAdded,
		Actor:  actor,
		Details: map[string]string{
			audit.DetailDossierID:    dossierID,
			audit.DetailDossierTitle: title,
			audit.DetailDocumentID:   documentID,
			audit.DetailDocumentName: documentName,
		},
	})
}

// Accessed records a consultation or download of one document. One entry
// per physical event: downloads record only the document-level action.
func (l *Logger) Accessed(ctx context.Context, action, actor, dossierID, title, documentID, documentName string) {
	l.Record(ctx, audit.Entry{
		Action: action,
		Actor:  actor,
		Details: map[string]string{
			audit.DetailDossierID:    dossierID,
			audit.DetailDossierTitle: title,
			audit.DetailDocumentID:   documentID,
			audit.DetailDocumentName: documentName,
		},
	})
}
