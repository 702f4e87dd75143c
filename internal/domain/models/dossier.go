package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dossier lifecycle states. A dossier moves ACTIVE ⇄ LOCKED, either of which
// can be soft-deleted; a soft-deleted dossier is restored before its recovery
// window expires or purged after it.
const (
	StateActive      = "active"
	StateLocked      = "locked"
	StateSoftDeleted = "soft_deleted"
)

// Dossier is the archival unit: a titled group of embedded documents owned by
// a department. The Mongo _id is the storage key; DossierID is the stable
// external identifier handed to clients.
type Dossier struct {
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

	// Cached totals, derivable from Documents. Kept for cheap listings;
	// recompute via RecomputeTotals whenever consistency matters.
	DocumentCount int   `bson:"document_count"`
	TotalSize     int64 `bson:"total_size"`

	Locked   bool       `bson:"locked"`
	LockedBy string     `bson:"locked_by,omitempty"`
	LockedAt *time.Time `bson:"locked_at,omitempty"`

	Deleted       bool       `bson:"deleted"`
	DeletedBy     string     `bson:"deleted_by,omitempty"`
	DeletedAt     *time.Time `bson:"deleted_at,omitempty"`
	DeletionMotif string     `bson:"deletion_motif,omitempty"`
	ExpiresAt     *time.Time `bson:"expires_at,omitempty"`

	SharedWith []string   `bson:"shared_with,omitempty"`
	Documents  []Document `bson:"documents,omitempty"`
}

// Document is one file's metadata inside a dossier. Its ID is unique within
// the owning dossier only; cross-dossier lookups always go through the parent.
type Document struct {
	ID          string    `bson:"document_id"`
	FileName    string    `bson:"file_name"`
	Title       string    `bson:"title"`
	Size        int64     `bson:"size"`
	ContentType string    `bson:"content_type,omitempty"`
	ContentRef  string    `bson:"content_ref"`
	AddedAt     time.Time `bson:"added_at"`

	Locked   bool       `bson:"locked,omitempty"`
	LockedBy string     `bson:"locked_by,omitempty"`
	LockedAt *time.Time `bson:"locked_at,omitempty"`

	// Append-only access histories; entries are never removed or reordered.
	Consultations []AccessEntry `bson:"consultations,omitempty"`
	Downloads     []AccessEntry `bson:"downloads,omitempty"`

	SharedWith []string `bson:"shared_with,omitempty"`
}

// AccessEntry records one consultation or download of a document.
type AccessEntry struct {
	By string    `bson:"by"`
	At time.Time `bson:"at"`
}

// State reports the lifecycle state of the dossier.
func (d *Dossier) State() string {
	switch {
	case d.Deleted:
		return StateSoftDeleted
	case d.Locked:
		return StateLocked
	default:
		return StateActive
	}
}

// FindDocument returns the embedded document with the given id, or nil.
func (d *Dossier) FindDocument(documentID string) *Document {
	for i := range d.Documents {
		if d.Documents[i].ID == documentID {
			return &d.Documents[i]
		}
	}
	return nil
}

// RecomputeTotals recounts the embedded documents and their byte sizes,
// overwriting the cached DocumentCount/TotalSize fields.
func (d *Dossier) RecomputeTotals() {
	d.DocumentCount = len(d.Documents)
	var size int64
	for i := range d.Documents {
		size += d.Documents[i].Size
	}
	d.TotalSize = size
}

// RestorableAt reports whether restore is still permitted at the given time.
// A dossier that is not deleted is not restorable; one whose recovery window
// has elapsed is unrecoverable by policy even before the purge sweep runs.
func (d *Dossier) RestorableAt(now time.Time) bool {
	return d.Deleted && d.ExpiresAt != nil && now.Before(*d.ExpiresAt)
}

// DaysUntilExpiration returns the whole days remaining in the recovery
// window, clamped to zero once the window has elapsed.
func (d *Dossier) DaysUntilExpiration(now time.Time) int {
	if !d.Deleted || d.ExpiresAt == nil {
		return 0
	}
	remaining := d.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Hours() / 24)
}
