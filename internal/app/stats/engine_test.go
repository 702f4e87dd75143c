package stats_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/boubskouk/dossiervault/internal/app/stats"
	"github.com/boubskouk/dossiervault/internal/app/store/audit"
	"github.com/boubskouk/dossiervault/internal/app/store/departments"
	dossierstore "github.com/boubskouk/dossiervault/internal/app/store/dossiers"
	"github.com/boubskouk/dossiervault/internal/app/store/roles"
	sharestore "github.com/boubskouk/dossiervault/internal/app/store/shares"
	"github.com/boubskouk/dossiervault/internal/app/store/users"
	"github.com/boubskouk/dossiervault/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type engineEnv struct {
	engine   *stats.Engine
	fixtures *testutil.Fixtures
	dossiers *dossierstore.Store
	shares   *sharestore.Store
	audit    *audit.Store
}

func setupEngine(t *testing.T) (*engineEnv, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)

	dossierStore := dossierstore.New(db)
	auditStore := audit.New(db)
	shareStore := sharestore.New(db)

	engine := stats.New(
		dossierStore,
		auditStore,
		shareStore,
		users.New(db),
		roles.New(db),
		departments.New(db),
		zap.NewNop(),
	)
	return &engineEnv{
		engine:   engine,
		fixtures: testutil.NewFixtures(t, db),
		dossiers: dossierStore,
		shares:   shareStore,
		audit:    auditStore,
	}, ctx
}

func allTime() stats.PeriodQuery { return stats.PeriodQuery{Period: "all"} }

func TestGlobal(t *testing.T) {
	env, ctx := setupEngine(t)
	f := env.fixtures

	f.CreateDepartment(ctx, "dept-fin", "Finances")

	current := f.CreateDossier(ctx, "Budget 2026", "dept-fin", "alice")
	f.AddDocument(ctx, current.DossierID, "q1.xlsx", 100)
	f.AddDocument(ctx, current.DossierID, "q2.xlsx", 200)

	// Legacy record shape: documents under "fichiers", byte total under
	// "taille", no department.
	_, err := f.DB().Collection("dossiers").InsertOne(ctx, bson.M{
		"dossier_id": "legacy-1",
		"title":      "Archives 2019",
		"deleted":    false,
		"created_at": time.Now().UTC(),
		"fichiers": bson.A{
			bson.M{"document_id": "doc-legacy", "file_name": "scan.pdf", "size": int64(50), "added_at": time.Now().UTC()},
		},
		"taille": int64(50),
	})
	if err != nil {
		t.Fatalf("insert legacy dossier: %v", err)
	}

	// Soft-deleted dossiers never count toward the dashboard.
	f.CreateDeletedDossier(ctx, "Supprimé", "bob", time.Now().UTC().Add(24*time.Hour))

	if _, _, err := env.dossiers.TryLock(ctx, current.DossierID, "alice", time.Now().UTC()); err != nil {
		t.Fatalf("lock fixture: %v", err)
	}
	if _, _, err := env.dossiers.AddShareTarget(ctx, current.DossierID, "bob"); err != nil {
		t.Fatalf("share fixture: %v", err)
	}

	got, err := env.engine.Global(ctx, allTime())
	if err != nil {
		t.Fatalf("Global: %v", err)
	}

	if got.TotalDossiers != 2 {
		t.Errorf("TotalDossiers = %d, want 2", got.TotalDossiers)
	}
	if got.TotalDocuments != 3 {
		t.Errorf("TotalDocuments = %d, want 3", got.TotalDocuments)
	}
	if got.TotalSize != 350 {
		t.Errorf("TotalSize = %d, want 350", got.TotalSize)
	}
	if got.LockedDossiers != 1 {
		t.Errorf("LockedDossiers = %d, want 1", got.LockedDossiers)
	}
	if got.SharedDossiers != 1 {
		t.Errorf("SharedDossiers = %d, want 1", got.SharedDossiers)
	}

	if len(got.ByDepartment) != 2 {
		t.Fatalf("ByDepartment rows = %d, want 2", len(got.ByDepartment))
	}
	byLabel := make(map[string]stats.DepartmentCount)
	for _, row := range got.ByDepartment {
		byLabel[row.Department] = row
	}
	fin, ok := byLabel["Finances"]
	if !ok {
		t.Fatalf("no Finances row in %v", got.ByDepartment)
	}
	if fin.Dossiers != 1 || fin.Documents != 2 || fin.TotalSize != 300 {
		t.Errorf("Finances row = %+v", fin)
	}
	none, ok := byLabel[stats.NoDepartmentLabel]
	if !ok {
		t.Fatalf("no fallback department row in %v", got.ByDepartment)
	}
	if none.Dossiers != 1 || none.Documents != 1 || none.TotalSize != 50 {
		t.Errorf("fallback row = %+v", none)
	}
}

func TestMostShared(t *testing.T) {
	env, ctx := setupEngine(t)
	f := env.fixtures

	f.CreateUser(ctx, "alice", "Alice Martin", 2)
	f.CreateUser(ctx, "bob", "Bob Durand", 1)

	d := f.CreateDossier(ctx, "Rapport annuel", "dept-fin", "alice")
	doc := f.AddDocument(ctx, d.DossierID, "annexe.pdf", 10)

	base := time.Now().UTC().Add(-time.Hour)
	appendShare := func(rec sharestore.Record) {
		t.Helper()
		if err := env.shares.Append(ctx, rec); err != nil {
			t.Fatalf("append share: %v", err)
		}
	}
	appendShare(sharestore.Record{DossierID: d.DossierID, SharedBy: "alice", SharedWith: "bob", SharedAt: base})
	appendShare(sharestore.Record{DossierID: d.DossierID, SharedBy: "alice", SharedWith: "carol", SharedAt: base.Add(time.Minute)})
	appendShare(sharestore.Record{DocumentID: doc.ID, SharedBy: "bob", SharedWith: "alice", SharedAt: base.Add(2 * time.Minute)})
	// Malformed: names neither a dossier nor a document.
	appendShare(sharestore.Record{SharedBy: "alice", SharedWith: "bob", SharedAt: base.Add(3 * time.Minute)})

	got, err := env.engine.MostShared(ctx, allTime())
	if err != nil {
		t.Fatalf("MostShared: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entities = %d, want 2", len(got))
	}

	top := got[0]
	if top.EntityID != d.DossierID || top.Kind != stats.KindDossier {
		t.Errorf("top entity = %+v", top)
	}
	if top.Count != 2 || top.Title != "Rapport annuel" {
		t.Errorf("top count/title = %d %q", top.Count, top.Title)
	}
	if len(top.Shares) != 2 {
		t.Fatalf("top shares = %d, want 2", len(top.Shares))
	}
	if top.Shares[0].ByName != "Alice Martin" || top.Shares[0].WithName != "Bob Durand" {
		t.Errorf("share names = %q / %q", top.Shares[0].ByName, top.Shares[0].WithName)
	}
	// Recipient not in the directory keeps the raw username only.
	if top.Shares[1].With != "carol" || top.Shares[1].WithName != "" {
		t.Errorf("unknown recipient = %q / %q", top.Shares[1].With, top.Shares[1].WithName)
	}

	second := got[1]
	if second.EntityID != doc.ID || second.Kind != stats.KindDocument {
		t.Errorf("second entity = %+v", second)
	}
	if second.Title != "annexe.pdf" {
		t.Errorf("document title = %q, want resolved from parent", second.Title)
	}
}

func TestMostShared_CapsRanking(t *testing.T) {
	env, ctx := setupEngine(t)

	for i := 0; i < stats.TopSize+2; i++ {
		err := env.shares.Append(ctx, sharestore.Record{
			DossierID:  fmt.Sprintf("d-%02d", i),
			SharedBy:   "alice",
			SharedWith: "bob",
		})
		if err != nil {
			t.Fatalf("append share: %v", err)
		}
	}

	got, err := env.engine.MostShared(ctx, allTime())
	if err != nil {
		t.Fatalf("MostShared: %v", err)
	}
	if len(got) != stats.TopSize {
		t.Errorf("entities = %d, want %d", len(got), stats.TopSize)
	}
}

func TestMostDownloaded(t *testing.T) {
	env, ctx := setupEngine(t)
	f := env.fixtures

	f.CreateUser(ctx, "bob", "Bob Durand", 1)

	base := time.Now().UTC().Add(-time.Hour)
	appendAudit := func(action, actor, docID string, at time.Time) {
		t.Helper()
		err := env.audit.Append(ctx, audit.Entry{
			Action:    action,
			Actor:     actor,
			Timestamp: at,
			Details: map[string]string{
				audit.DetailDocumentID:   docID,
				audit.DetailDocumentName: docID + ".pdf",
				audit.DetailDossierID:    "dossier-1",
				audit.DetailDossierTitle: "Pièces",
			},
		})
		if err != nil {
			t.Fatalf("append audit: %v", err)
		}
	}
	appendAudit(audit.ActionDownloaded, "alice", "doc-a", base)
	appendAudit(audit.ActionDownloaded, "bob", "doc-a", base.Add(time.Minute))
	appendAudit(audit.ActionDownloaded, "alice", "doc-b", base.Add(2*time.Minute))
	appendAudit(audit.ActionConsulted, "alice", "doc-c", base.Add(3*time.Minute))

	got, err := env.engine.MostDownloaded(ctx, allTime())
	if err != nil {
		t.Fatalf("MostDownloaded: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	top := got[0]
	if top.DocumentID != "doc-a" || top.Count != 2 {
		t.Errorf("top row = %+v", top)
	}
	if top.LastBy != "bob" || top.LastByName != "Bob Durand" {
		t.Errorf("last actor = %q / %q", top.LastBy, top.LastByName)
	}
	if top.DossierTitle != "Pièces" || top.DocumentName != "doc-a.pdf" {
		t.Errorf("detail snapshot = %+v", top)
	}

	consulted, err := env.engine.MostConsulted(ctx, allTime())
	if err != nil {
		t.Fatalf("MostConsulted: %v", err)
	}
	if len(consulted) != 1 || consulted[0].DocumentID != "doc-c" {
		t.Errorf("consulted = %+v", consulted)
	}
}

func TestActivityAndTimeline(t *testing.T) {
	env, ctx := setupEngine(t)

	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)
	entries := []audit.Entry{
		{Action: audit.ActionCreated, Actor: "alice", Timestamp: day1},
		{Action: audit.ActionCreated, Actor: "bob", Timestamp: day1.Add(time.Hour)},
		{Action: audit.ActionLocked, Actor: "alice", Timestamp: day1.Add(2 * time.Hour)},
		{Action: audit.ActionDownloaded, Actor: "bob", Timestamp: day2},
	}
	for _, e := range entries {
		if err := env.audit.Append(ctx, e); err != nil {
			t.Fatalf("append audit: %v", err)
		}
	}

	activity, err := env.engine.Activity(ctx, allTime())
	if err != nil {
		t.Fatalf("Activity: %v", err)
	}
	if activity.Created != 2 || activity.Locked != 1 || activity.Downloaded != 1 {
		t.Errorf("counters = %+v", activity)
	}
	if activity.Total != 4 {
		t.Errorf("Total = %d, want 4", activity.Total)
	}

	timeline, err := env.engine.Timeline(ctx, allTime())
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("timeline days = %d, want 2", len(timeline))
	}
	first := timeline[0]
	if first.Date != "2026-03-10" || first.Total != 3 {
		t.Errorf("first day = %+v", first)
	}
	if first.Actions[audit.ActionCreated] != 2 || first.Actions[audit.ActionLocked] != 1 {
		t.Errorf("first day actions = %v", first.Actions)
	}
	if timeline[1].Date != "2026-03-11" || timeline[1].Total != 1 {
		t.Errorf("second day = %+v", timeline[1])
	}
}

func TestDeletionsByRole(t *testing.T) {
	env, ctx := setupEngine(t)
	f := env.fixtures

	f.CreateRole(ctx, "gestionnaires", 2, "alice", "bob")
	f.CreateUser(ctx, "alice", "Alice Martin", 2)
	f.CreateUser(ctx, "bob", "Bob Durand", 2)

	expires := time.Now().UTC().Add(72 * time.Hour)
	f.CreateDeletedDossier(ctx, "Dossier A", "alice", expires)
	f.CreateDeletedDossier(ctx, "Dossier B", "alice", expires)
	f.CreateDeletedDossier(ctx, "Dossier C", "bob", expires)
	// Not a role member: excluded from the leaderboard.
	f.CreateDeletedDossier(ctx, "Dossier D", "carol", expires)

	got, err := env.engine.DeletionsByRole(ctx, 2, allTime())
	if err != nil {
		t.Fatalf("DeletionsByRole: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	if got[0].Actor != "alice" || got[0].Count != 2 {
		t.Errorf("top row = %+v", got[0])
	}
	if got[0].ActorName != "Alice Martin" || got[0].Email != "alice@test.example" {
		t.Errorf("enrichment = %q / %q", got[0].ActorName, got[0].Email)
	}
	if len(got[0].Deleted) != 2 {
		t.Fatalf("attributed dossiers = %d, want 2", len(got[0].Deleted))
	}
	if got[0].Deleted[0].DaysUntilExpiration <= 0 {
		t.Errorf("DaysUntilExpiration = %d, want positive", got[0].Deleted[0].DaysUntilExpiration)
	}
	if got[1].Actor != "bob" || got[1].Count != 1 {
		t.Errorf("second row = %+v", got[1])
	}
}

func TestDeletionsByRole_MissingLevel(t *testing.T) {
	env, ctx := setupEngine(t)

	got, err := env.engine.DeletionsByRole(ctx, 9, allTime())
	if err != nil {
		t.Fatalf("DeletionsByRole: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("rows = %d, want empty leaderboard", len(got))
	}
}

func TestLocksByRole(t *testing.T) {
	env, ctx := setupEngine(t)
	f := env.fixtures

	f.CreateRole(ctx, "gestionnaires", 2, "alice")

	d1 := f.CreateDossier(ctx, "Verrouillé", "dept-fin", "alice")
	d2 := f.CreateDossier(ctx, "Autre", "dept-fin", "mallory")
	now := time.Now().UTC()
	if _, _, err := env.dossiers.TryLock(ctx, d1.DossierID, "alice", now); err != nil {
		t.Fatalf("lock fixture: %v", err)
	}
	if _, _, err := env.dossiers.TryLock(ctx, d2.DossierID, "mallory", now); err != nil {
		t.Fatalf("lock fixture: %v", err)
	}

	got, err := env.engine.LocksByRole(ctx, 2, allTime())
	if err != nil {
		t.Fatalf("LocksByRole: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1", len(got))
	}
	if got[0].Actor != "alice" || got[0].Count != 1 {
		t.Errorf("row = %+v", got[0])
	}
	if len(got[0].Locked) != 1 || got[0].Locked[0].DossierID != d1.DossierID {
		t.Errorf("locked dossiers = %+v", got[0].Locked)
	}
}

func TestListActive(t *testing.T) {
	env, ctx := setupEngine(t)
	f := env.fixtures

	for i := 0; i < 5; i++ {
		f.CreateDossier(ctx, fmt.Sprintf("Dossier %d", i), "dept-fin", "alice")
	}
	f.CreateDeletedDossier(ctx, "Supprimé", "bob", time.Now().UTC().Add(time.Hour))

	page, err := env.engine.ListActive(ctx, stats.ListParams{
		PeriodQuery: allTime(),
		Page:        2,
		Limit:       2,
	})
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(page.Items) != 2 {
		t.Errorf("items = %d, want 2", len(page.Items))
	}
	meta := page.Meta
	if meta.Page != 2 || meta.Limit != 2 || meta.Total != 5 || meta.TotalPages != 3 {
		t.Errorf("meta = %+v", meta)
	}
}

func TestListActive_Search(t *testing.T) {
	env, ctx := setupEngine(t)
	f := env.fixtures

	f.CreateDossier(ctx, "Rapport financier", "dept-fin", "alice")
	f.CreateDossier(ctx, "Contrats fournisseurs", "dept-fin", "alice")

	page, err := env.engine.ListActive(ctx, stats.ListParams{
		PeriodQuery: allTime(),
		Search:      "RAPPORT",
	})
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "Rapport financier" {
		t.Errorf("search results = %+v", page.Items)
	}
}

func TestListDeleted(t *testing.T) {
	env, ctx := setupEngine(t)
	f := env.fixtures

	f.CreateDossier(ctx, "Actif", "dept-fin", "alice")
	f.CreateDeletedDossier(ctx, "Corbeille", "bob", time.Now().UTC().Add(48*time.Hour))

	page, err := env.engine.ListDeleted(ctx, stats.ListParams{PeriodQuery: allTime()})
	if err != nil {
		t.Fatalf("ListDeleted: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(page.Items))
	}
	row := page.Items[0]
	if row.Title != "Corbeille" || row.DeletedBy != "bob" {
		t.Errorf("row = %+v", row)
	}
	if row.DaysUntilExpiration == nil || *row.DaysUntilExpiration <= 0 {
		t.Errorf("DaysUntilExpiration = %v, want positive", row.DaysUntilExpiration)
	}
}

func TestListDocuments(t *testing.T) {
	env, ctx := setupEngine(t)
	f := env.fixtures

	d := f.CreateDossier(ctx, "Courant", "dept-fin", "alice")
	f.AddDocument(ctx, d.DossierID, "recent.pdf", 100)

	// Legacy-shape parent: its documents still appear in the listing.
	_, err := f.DB().Collection("dossiers").InsertOne(ctx, bson.M{
		"dossier_id": "legacy-1",
		"title":      "Ancien",
		"deleted":    false,
		"created_at": time.Now().UTC().Add(-48 * time.Hour),
		"fichiers": bson.A{
			bson.M{
				"document_id": "doc-old",
				"file_name":   "vieux.pdf",
				"title":       "vieux.pdf",
				"size":        int64(40),
				"added_at":    time.Now().UTC().Add(-24 * time.Hour),
			},
		},
	})
	if err != nil {
		t.Fatalf("insert legacy dossier: %v", err)
	}

	page, err := env.engine.ListDocuments(ctx, stats.ListParams{PeriodQuery: allTime()})
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if page.Meta.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("page = %+v", page.Meta)
	}
	// Newest first.
	if page.Items[0].FileName != "recent.pdf" {
		t.Errorf("first item = %+v", page.Items[0])
	}
	old := page.Items[1]
	if old.DocumentID != "doc-old" || old.DossierID != "legacy-1" || old.DossierTitle != "Ancien" {
		t.Errorf("legacy item = %+v", old)
	}
}

func TestAggregation_ExpiredDeadline(t *testing.T) {
	env, ctx := setupEngine(t)
	f := env.fixtures

	d := f.CreateDossier(ctx, "Budget", "dept-fin", "alice")
	f.AddDocument(ctx, d.DossierID, "q1.xlsx", 100)

	expired, cancel := context.WithDeadline(ctx, time.Now().Add(-time.Second))
	defer cancel()

	got, err := env.engine.Global(expired, allTime())
	if err == nil {
		t.Fatal("expected an error with an expired deadline")
	}
	var aggErr *stats.AggregationError
	if !errors.As(err, &aggErr) {
		t.Fatalf("error = %v (%T), want *stats.AggregationError", err, err)
	}
	if !reflect.DeepEqual(got, stats.GlobalStats{}) {
		t.Errorf("expected zero-value stats on failure, got %+v", got)
	}

	rows, err := env.engine.MostShared(expired, allTime())
	if !errors.As(err, &aggErr) {
		t.Fatalf("MostShared error = %v, want *stats.AggregationError", err)
	}
	if rows != nil {
		t.Errorf("expected nil rankings on failure, got %+v", rows)
	}
}
