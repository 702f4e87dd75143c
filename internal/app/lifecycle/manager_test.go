package lifecycle_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/boubskouk/dossiervault/internal/app/content"
	"github.com/boubskouk/dossiervault/internal/app/lifecycle"
	"github.com/boubskouk/dossiervault/internal/app/store/audit"
	"github.com/boubskouk/dossiervault/internal/app/store/dossiers"
	"github.com/boubskouk/dossiervault/internal/app/store/shares"
	"github.com/boubskouk/dossiervault/internal/app/system/auditlog"
	"github.com/boubskouk/dossiervault/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type managerEnv struct {
	manager *lifecycle.Manager
	store   *dossiers.Store
	shares  *shares.Store
	audit   *audit.Store
	gateway content.Gateway
}

func setupManager(t *testing.T) (*managerEnv, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)

	gw, err := content.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("content gateway: %v", err)
	}
	log := zap.NewNop()
	auditStore := audit.New(db)
	dossierStore := dossiers.New(db)
	shareStore := shares.New(db)

	m := lifecycle.New(dossierStore, shareStore, gw, auditlog.New(auditStore, log), log)
	return &managerEnv{
		manager: m,
		store:   dossierStore,
		shares:  shareStore,
		audit:   auditStore,
		gateway: gw,
	}, ctx
}

func createDossier(t *testing.T, env *managerEnv, ctx context.Context, title string) string {
	t.Helper()
	d, err := env.manager.CreateDossier(ctx, lifecycle.CreateParams{
		Title:        title,
		DepartmentID: "dept-ops",
		CreatedBy:    "alice",
	})
	if err != nil {
		t.Fatalf("CreateDossier: %v", err)
	}
	return d.DossierID
}

func TestCreateDossier_Validation(t *testing.T) {
	env, ctx := setupManager(t)

	_, err := env.manager.CreateDossier(ctx, lifecycle.CreateParams{DepartmentID: "dept"})
	if !errors.Is(err, lifecycle.ErrValidation) {
		t.Errorf("missing title: got %v, want ErrValidation", err)
	}
	_, err = env.manager.CreateDossier(ctx, lifecycle.CreateParams{Title: "  "})
	if !errors.Is(err, lifecycle.ErrValidation) {
		t.Errorf("blank title: got %v, want ErrValidation", err)
	}
}

func TestCreateDossier_WritesAuditEntry(t *testing.T) {
	env, ctx := setupManager(t)

	id := createDossier(t, env, ctx, "Budget")

	entries, err := env.audit.Query(ctx, audit.QueryFilter{Actions: []string{audit.ActionCreated}})
	if err != nil {
		t.Fatalf("audit query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 created entry, got %d", len(entries))
	}
	if entries[0].Details[audit.DetailDossierID] != id {
		t.Errorf("audit dossier id = %q, want %q", entries[0].Details[audit.DetailDossierID], id)
	}
}

func TestLockUnlock(t *testing.T) {
	env, ctx := setupManager(t)
	id := createDossier(t, env, ctx, "Contrats")

	if err := env.manager.Lock(ctx, id, "alice"); err != nil {
		t.Fatalf("lock: %v", err)
	}
	// Re-lock by the holder is idempotent.
	if err := env.manager.Lock(ctx, id, "alice"); err != nil {
		t.Fatalf("re-lock by holder: %v", err)
	}
	if err := env.manager.Lock(ctx, id, "bob"); !errors.Is(err, lifecycle.ErrAlreadyLocked) {
		t.Errorf("lock by other: got %v, want ErrAlreadyLocked", err)
	}
	if err := env.manager.Unlock(ctx, id, "bob"); !errors.Is(err, lifecycle.ErrLocked) {
		t.Errorf("unlock by other: got %v, want ErrLocked", err)
	}
	if err := env.manager.Unlock(ctx, id, "alice"); err != nil {
		t.Fatalf("unlock by holder: %v", err)
	}
	// Unlocking an unlocked dossier is a no-op.
	if err := env.manager.Unlock(ctx, id, "alice"); err != nil {
		t.Errorf("unlock when unlocked: %v", err)
	}

	if err := env.manager.Lock(ctx, "missing", "alice"); !errors.Is(err, lifecycle.ErrNotFound) {
		t.Errorf("lock missing: got %v, want ErrNotFound", err)
	}
}

func TestMutationAuditEntriesCarryTitle(t *testing.T) {
	env, ctx := setupManager(t)
	id := createDossier(t, env, ctx, "Dossier RH")

	if err := env.manager.Lock(ctx, id, "alice"); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := env.manager.Share(ctx, id, "alice", "bob"); err != nil {
		t.Fatalf("share: %v", err)
	}
	if _, err := env.manager.AddDocument(ctx, id, lifecycle.DocumentParams{
		FileName: "cv.pdf", Size: 12, AddedBy: "alice",
	}, "2025/01/ref-cv.pdf"); err != nil {
		t.Fatalf("add document: %v", err)
	}
	if err := env.manager.SoftDelete(ctx, id, "alice", "archivage", time.Hour); err != nil {
		t.Fatalf("soft-delete: %v", err)
	}

	for _, action := range []string{
		audit.ActionLocked,
		audit.ActionShared,
		audit.ActionDocumentAdded,
		audit.ActionDeleted,
	} {
		entries, err := env.audit.Query(ctx, audit.QueryFilter{Actions: []string{action}})
		if err != nil {
			t.Fatalf("audit query %s: %v", action, err)
		}
		if len(entries) != 1 {
			t.Fatalf("%s entries = %d, want 1", action, len(entries))
		}
		if got := entries[0].Details[audit.DetailDossierTitle]; got != "Dossier RH" {
			t.Errorf("%s audit title = %q, want %q", action, got, "Dossier RH")
		}
	}
}

func TestSoftDeleteRestore(t *testing.T) {
	env, ctx := setupManager(t)
	id := createDossier(t, env, ctx, "Factures")

	if err := env.manager.SoftDelete(ctx, id, "alice", "obsolete", 0); !errors.Is(err, lifecycle.ErrValidation) {
		t.Errorf("zero window: got %v, want ErrValidation", err)
	}

	window := 30 * 24 * time.Hour
	if err := env.manager.SoftDelete(ctx, id, "alice", "obsolete", window); err != nil {
		t.Fatalf("soft-delete: %v", err)
	}
	// Deleting again is a no-op.
	if err := env.manager.SoftDelete(ctx, id, "bob", "again", window); err != nil {
		t.Errorf("second soft-delete: %v", err)
	}

	d, err := env.store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !d.Deleted || d.DeletionMotif != "obsolete" || d.ExpiresAt == nil {
		t.Fatalf("deletion state: %+v", d)
	}

	// A soft-deleted dossier cannot be locked.
	if err := env.manager.Lock(ctx, id, "alice"); !errors.Is(err, lifecycle.ErrNotFound) {
		t.Errorf("lock deleted: got %v, want ErrNotFound", err)
	}

	if err := env.manager.Restore(ctx, id); err != nil {
		t.Fatalf("restore: %v", err)
	}
	d, err = env.store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.Deleted {
		t.Error("dossier still deleted after restore")
	}
	// Restoring a live dossier is a no-op.
	if err := env.manager.Restore(ctx, id); err != nil {
		t.Errorf("restore live: %v", err)
	}
}

func TestRestore_PastWindowFails(t *testing.T) {
	env, ctx := setupManager(t)
	id := createDossier(t, env, ctx, "Trop tard")

	if err := env.manager.SoftDelete(ctx, id, "alice", "cleanup", time.Hour); err != nil {
		t.Fatalf("soft-delete: %v", err)
	}

	// Advance past the recovery window.
	env.manager.SetClock(func() time.Time { return time.Now().UTC().Add(2 * time.Hour) })

	if err := env.manager.Restore(ctx, id); !errors.Is(err, lifecycle.ErrExpired) {
		t.Errorf("restore after window: got %v, want ErrExpired", err)
	}

	if err := env.manager.Restore(ctx, "missing"); !errors.Is(err, lifecycle.ErrNotFound) {
		t.Errorf("restore missing: got %v, want ErrNotFound", err)
	}
}

func TestShare(t *testing.T) {
	env, ctx := setupManager(t)
	id := createDossier(t, env, ctx, "Partagé")

	if err := env.manager.Share(ctx, id, "alice", "alice"); !errors.Is(err, lifecycle.ErrSelfShare) {
		t.Errorf("self share: got %v, want ErrSelfShare", err)
	}
	if err := env.manager.Share(ctx, "missing", "alice", "bob"); !errors.Is(err, lifecycle.ErrNotFound) {
		t.Errorf("share missing: got %v, want ErrNotFound", err)
	}

	if err := env.manager.Share(ctx, id, "alice", "bob"); err != nil {
		t.Fatalf("share: %v", err)
	}
	// A repeat share appends history but never duplicates the target.
	if err := env.manager.Share(ctx, id, "alice", "bob"); err != nil {
		t.Fatalf("repeat share: %v", err)
	}

	d, err := env.store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(d.SharedWith) != 1 || d.SharedWith[0] != "bob" {
		t.Errorf("SharedWith = %v, want [bob]", d.SharedWith)
	}

	records, err := env.shares.InRange(ctx, nil, nil)
	if err != nil {
		t.Fatalf("share history: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("share history entries = %d, want 2", len(records))
	}
}

func TestDocuments(t *testing.T) {
	env, ctx := setupManager(t)
	id := createDossier(t, env, ctx, "Docs")

	put, err := env.gateway.Put(ctx, strings.NewReader("contenu"), "note.txt", "text/plain")
	if err != nil {
		t.Fatalf("put content: %v", err)
	}

	doc, err := env.manager.AddDocument(ctx, id, lifecycle.DocumentParams{
		FileName: "note.txt",
		Size:     put.Size,
		AddedBy:  "alice",
	}, put.Reference)
	if err != nil {
		t.Fatalf("add document: %v", err)
	}
	if doc.Title != "note.txt" {
		t.Errorf("title defaulted to %q, want file name", doc.Title)
	}

	_, err = env.manager.AddDocument(ctx, id, lifecycle.DocumentParams{Size: 1}, "ref")
	if !errors.Is(err, lifecycle.ErrValidation) {
		t.Errorf("missing file name: got %v, want ErrValidation", err)
	}

	// Removal blocked by someone else's lock.
	if err := env.manager.Lock(ctx, id, "bob"); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := env.manager.RemoveDocument(ctx, id, doc.ID, "alice"); !errors.Is(err, lifecycle.ErrLocked) {
		t.Errorf("remove under other's lock: got %v, want ErrLocked", err)
	}
	if err := env.manager.RemoveDocument(ctx, id, doc.ID, "bob"); err != nil {
		t.Fatalf("remove by lock holder: %v", err)
	}
	if err := env.manager.RemoveDocument(ctx, id, doc.ID, "bob"); !errors.Is(err, lifecycle.ErrNotFound) {
		t.Errorf("remove removed document: got %v, want ErrNotFound", err)
	}

	// Removing the record does not delete the stored bytes.
	ok, err := env.gateway.Exists(ctx, put.Reference)
	if err != nil || !ok {
		t.Errorf("content gone after record removal: ok=%v err=%v", ok, err)
	}
}

func TestRecordAccess(t *testing.T) {
	env, ctx := setupManager(t)
	id := createDossier(t, env, ctx, "Consultations")

	doc, err := env.manager.AddDocument(ctx, id, lifecycle.DocumentParams{
		FileName: "a.pdf", Size: 1, AddedBy: "alice",
	}, "2025/01/ref-a.pdf")
	if err != nil {
		t.Fatalf("add document: %v", err)
	}

	if err := env.manager.RecordAccess(ctx, id, doc.ID, "bob", "peek"); !errors.Is(err, lifecycle.ErrValidation) {
		t.Errorf("bad kind: got %v, want ErrValidation", err)
	}
	if err := env.manager.RecordAccess(ctx, id, doc.ID, "bob", dossiers.AccessDownload); err != nil {
		t.Fatalf("record download: %v", err)
	}
	if err := env.manager.RecordAccess(ctx, id, "missing", "bob", dossiers.AccessDownload); !errors.Is(err, lifecycle.ErrNotFound) {
		t.Errorf("missing document: got %v, want ErrNotFound", err)
	}

	// One canonical audit action per event: the download shows up as a
	// document-level entry only.
	entries, err := env.audit.Query(ctx, audit.QueryFilter{Actions: []string{audit.ActionDownloaded}})
	if err != nil {
		t.Fatalf("audit query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("downloaded entries = %d, want 1", len(entries))
	}
	if entries[0].Details[audit.DetailDocumentID] != doc.ID {
		t.Errorf("audit document id = %q", entries[0].Details[audit.DetailDocumentID])
	}
}

func TestPermanentDelete(t *testing.T) {
	env, ctx := setupManager(t)
	id := createDossier(t, env, ctx, "Définitif")

	put, err := env.gateway.Put(ctx, strings.NewReader("bytes"), "f.bin", "application/octet-stream")
	if err != nil {
		t.Fatalf("put content: %v", err)
	}
	if _, err := env.manager.AddDocument(ctx, id, lifecycle.DocumentParams{
		FileName: "f.bin", Size: put.Size, AddedBy: "alice",
	}, put.Reference); err != nil {
		t.Fatalf("add document: %v", err)
	}

	if err := env.manager.PermanentDelete(ctx, id, "alice"); err != nil {
		t.Fatalf("permanent delete: %v", err)
	}

	if _, err := env.store.Get(ctx, id); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("record still present: %v", err)
	}
	ok, err := env.gateway.Exists(ctx, put.Reference)
	if err != nil || ok {
		t.Errorf("content still present: ok=%v err=%v", ok, err)
	}

	if err := env.manager.PermanentDelete(ctx, id, "alice"); !errors.Is(err, lifecycle.ErrNotFound) {
		t.Errorf("second permanent delete: got %v, want ErrNotFound", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	env, ctx := setupManager(t)

	keepID := createDossier(t, env, ctx, "Récent")
	purgeID := createDossier(t, env, ctx, "Ancien")

	if err := env.manager.SoftDelete(ctx, keepID, "alice", "", 48*time.Hour); err != nil {
		t.Fatalf("soft-delete keep: %v", err)
	}
	if err := env.manager.SoftDelete(ctx, purgeID, "alice", "", time.Hour); err != nil {
		t.Fatalf("soft-delete purge: %v", err)
	}

	env.manager.SetClock(func() time.Time { return time.Now().UTC().Add(3 * time.Hour) })

	count, err := env.manager.PurgeExpired(ctx, "system")
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if count != 1 {
		t.Errorf("purged = %d, want 1", count)
	}

	if _, err := env.store.Get(ctx, purgeID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expired dossier still present: %v", err)
	}
	if _, err := env.store.Get(ctx, keepID); err != nil {
		t.Errorf("unexpired dossier removed: %v", err)
	}
}
