package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/boubskouk/dossiervault/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateDossier inserts an active dossier with the given title and
// department, created by the given user. Returns the inserted dossier.
func (f *Fixtures) CreateDossier(ctx context.Context, title, departmentID, createdBy string) models.Dossier {
	f.t.Helper()

	d := models.Dossier{
		ID:           primitive.NewObjectID(),
		DossierID:    uuid.New().String(),
		Title:        title,
		TitleCI:      text.Fold(title),
		DepartmentID: departmentID,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("dossiers").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("insert dossier fixture: %v", err)
	}
	return d
}

// CreateDeletedDossier inserts a soft-deleted dossier whose recovery
// window ends at expiresAt.
func (f *Fixtures) CreateDeletedDossier(ctx context.Context, title, deletedBy string, expiresAt time.Time) models.Dossier {
	f.t.Helper()

	now := time.Now().UTC()
	deletedAt := now.Add(-time.Hour)
	d := models.Dossier{
		ID:           primitive.NewObjectID(),
		DossierID:    uuid.New().String(),
		Title:        title,
		TitleCI:      text.Fold(title),
		DepartmentID: "dept-test",
		CreatedBy:    deletedBy,
		CreatedAt:    now.Add(-48 * time.Hour),
		Deleted:      true,
		DeletedBy:    deletedBy,
		DeletedAt:    &deletedAt,
		ExpiresAt:    &expiresAt,
	}
	if _, err := f.db.Collection("dossiers").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("insert deleted dossier fixture: %v", err)
	}
	return d
}

// AddDocument embeds a document on an existing dossier and bumps its
// cached totals.
func (f *Fixtures) AddDocument(ctx context.Context, dossierID, fileName string, size int64) models.Document {
	f.t.Helper()

	doc := models.Document{
		ID:       uuid.New().String(),
		FileName: fileName,
		Title:    fileName,
		Size:     size,
		AddedAt:  time.Now().UTC(),
	}
	_, err := f.db.Collection("dossiers").UpdateOne(ctx,
		map[string]interface{}{"dossier_id": dossierID},
		map[string]interface{}{
			"$push": map[string]interface{}{"documents": doc},
			"$inc":  map[string]interface{}{"document_count": 1, "total_size": size},
		})
	if err != nil {
		f.t.Fatalf("embed document fixture: %v", err)
	}
	return doc
}

// CreateUser inserts a directory user.
func (f *Fixtures) CreateUser(ctx context.Context, username, displayName string, level int) models.User {
	f.t.Helper()

	u := models.User{
		ID:          primitive.NewObjectID(),
		Username:    username,
		DisplayName: displayName,
		Email:       username + "@test.example",
		Level:       level,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("insert user fixture: %v", err)
	}
	return u
}

// CreateRole inserts a role at the given privilege level with the given
// members.
func (f *Fixtures) CreateRole(ctx context.Context, name string, level int, members ...string) models.Role {
	f.t.Helper()

	role := models.Role{
		ID:      primitive.NewObjectID(),
		Name:    name,
		Level:   level,
		Members: members,
	}
	if _, err := f.db.Collection("roles").InsertOne(ctx, role); err != nil {
		f.t.Fatalf("insert role fixture: %v", err)
	}
	return role
}

// CreateDepartment inserts a department reference entry.
func (f *Fixtures) CreateDepartment(ctx context.Context, id, displayName string) models.Department {
	f.t.Helper()

	dept := models.Department{ID: id, DisplayName: displayName}
	if _, err := f.db.Collection("departments").InsertOne(ctx, dept); err != nil {
		f.t.Fatalf("insert department fixture: %v", err)
	}
	return dept
}
