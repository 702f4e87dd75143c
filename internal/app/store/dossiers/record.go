// internal/app/store/dossiers/record.go
package dossiers

import (
	"time"

	"github.com/boubskouk/dossiervault/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// record is the wire shape of a dossier, covering both field-naming schemes
// found in the collection. Dossiers written by the original backend carry
// their documents under "fichiers" and their byte total under "taille";
// everything written since uses "documents" and "total_size". The store
// decodes into record and canonicalizes so the rest of the code sees one
// shape only. Writes always produce the current shape.
type record struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	DossierID string             `bson:"dossier_id"`

	Title    string `bson:"title"`
	TitleCI  string `bson:"title_ci"`
	Category string `bson:"category,omitempty"`

	DepartmentID string `bson:"department_id"`
	Service      string `bson:"service,omitempty"`

	CreatedBy   string    `bson:"created_by"`
	CreatorName string    `bson:"creator_name,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`

	DocumentCount int    `bson:"document_count"`
	TotalSize     *int64 `bson:"total_size,omitempty"`
	LegacySize    *int64 `bson:"taille,omitempty"`

	Locked   bool       `bson:"locked"`
	LockedBy string     `bson:"locked_by,omitempty"`
	LockedAt *time.Time `bson:"locked_at,omitempty"`

	Deleted       bool       `bson:"deleted"`
	DeletedBy     string     `bson:"deleted_by,omitempty"`
	DeletedAt     *time.Time `bson:"deleted_at,omitempty"`
	DeletionMotif string     `bson:"deletion_motif,omitempty"`
	ExpiresAt     *time.Time `bson:"expires_at,omitempty"`

	SharedWith      []string          `bson:"shared_with,omitempty"`
	Documents       []models.Document `bson:"documents,omitempty"`
	LegacyDocuments []models.Document `bson:"fichiers,omitempty"`
}

// canonical coalesces the two shapes into the canonical entity. The current
// field wins whenever it is present; the legacy field only fills a gap.
func (r *record) canonical() models.Dossier {
	docs := r.Documents
	if len(docs) == 0 && len(r.LegacyDocuments) > 0 {
		docs = r.LegacyDocuments
	}

	var size int64
	switch {
	case r.TotalSize != nil:
		size = *r.TotalSize
	case r.LegacySize != nil:
		size = *r.LegacySize
	}

	count := r.DocumentCount
	if count == 0 && len(docs) > 0 {
		count = len(docs)
	}

	return models.Dossier{
		ID:            r.ID,
		DossierID:     r.DossierID,
		Title:         r.Title,
		TitleCI:       r.TitleCI,
		Category:      r.Category,
		DepartmentID:  r.DepartmentID,
		Service:       r.Service,
		CreatedBy:     r.CreatedBy,
		CreatorName:   r.CreatorName,
		CreatedAt:     r.CreatedAt,
		DocumentCount: count,
		TotalSize:     size,
		Locked:        r.Locked,
		LockedBy:      r.LockedBy,
		LockedAt:      r.LockedAt,
		Deleted:       r.Deleted,
		DeletedBy:     r.DeletedBy,
		DeletedAt:     r.DeletedAt,
		DeletionMotif: r.DeletionMotif,
		ExpiresAt:     r.ExpiresAt,
		SharedWith:    r.SharedWith,
		Documents:     docs,
	}
}
