// internal/app/store/dossiers/store.go
package dossiers

import (
	"context"
	"errors"
	"time"

	"github.com/boubskouk/dossiervault/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the dossiers collection. Lifecycle preconditions (not
// locked by someone else, not yet deleted, recovery window still open) are
// expressed as conditional single-document updates so concurrent callers
// cannot both succeed; the collection's atomic update is the concurrency
// boundary, not application-level locking.
type Store struct {
	c *mongo.Collection
}

// New creates a dossier Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("dossiers")}
}

// EnsureIndexes creates the indexes listing and reporting queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "dossier_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "deleted", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "deleted", Value: 1}, {Key: "deleted_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "locked", Value: 1}, {Key: "locked_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "department_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "title_ci", Value: 1}},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Insert stores a new dossier.
func (s *Store) Insert(ctx context.Context, d models.Dossier) (models.Dossier, error) {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	_, err := s.c.InsertOne(ctx, d)
	if err != nil {
		return models.Dossier{}, err
	}
	return d, nil
}

// Get returns the dossier with the given external id, coalescing legacy
// field shapes. Returns mongo.ErrNoDocuments when absent.
func (s *Store) Get(ctx context.Context, dossierID string) (models.Dossier, error) {
	var rec record
	if err := s.c.FindOne(ctx, bson.M{"dossier_id": dossierID}).Decode(&rec); err != nil {
		return models.Dossier{}, err
	}
	return rec.canonical(), nil
}

// Find returns dossiers matching the filter, coalescing legacy shapes.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Dossier, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Dossier
	for cur.Next(ctx) {
		var rec record
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		out = append(out, rec.canonical())
	}
	return out, cur.Err()
}

// Count returns the number of dossiers matching the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Aggregate runs a pipeline against the dossiers collection.
func (s *Store) Aggregate(ctx context.Context, pipeline []bson.M) (*mongo.Cursor, error) {
	return s.c.Aggregate(ctx, pipeline)
}

// findAndUpdate applies a conditional update and returns the updated
// dossier in one round trip. A filter miss reports matched=false with no
// error; callers diagnose the cause separately.
func (s *Store) findAndUpdate(ctx context.Context, filter, update bson.M, opts ...*options.FindOneAndUpdateOptions) (models.Dossier, bool, error) {
	opts = append(opts, options.FindOneAndUpdate().SetReturnDocument(options.After))
	var rec record
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts...).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Dossier{}, false, nil
	}
	if err != nil {
		return models.Dossier{}, false, err
	}
	return rec.canonical(), true, nil
}

// TryLock sets the lock fields if the dossier is not deleted and is either
// unlocked or already locked by the same actor (idempotent re-lock).
// Returns the updated dossier and whether the update matched.
func (s *Store) TryLock(ctx context.Context, dossierID, actor string, now time.Time) (models.Dossier, bool, error) {
	filter := bson.M{
		"dossier_id": dossierID,
		"deleted":    false,
		"$or": []bson.M{
			{"locked": false},
			{"locked_by": actor},
		},
	}
	return s.findAndUpdate(ctx, filter, bson.M{"$set": bson.M{
		"locked":    true,
		"locked_by": actor,
		"locked_at": now,
	}})
}

// Unlock clears the lock fields. Reports whether the update matched a
// non-deleted dossier.
func (s *Store) Unlock(ctx context.Context, dossierID string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"dossier_id": dossierID, "deleted": false},
		bson.M{
			"$set":   bson.M{"locked": false},
			"$unset": bson.M{"locked_by": "", "locked_at": ""},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// MarkDeleted soft-deletes the dossier if it is not already deleted.
// Returns the updated dossier and whether the update matched.
func (s *Store) MarkDeleted(ctx context.Context, dossierID, actor, motif string, now, expiresAt time.Time) (models.Dossier, bool, error) {
	return s.findAndUpdate(ctx,
		bson.M{"dossier_id": dossierID, "deleted": false},
		bson.M{"$set": bson.M{
			"deleted":        true,
			"deleted_by":     actor,
			"deleted_at":     now,
			"deletion_motif": motif,
			"expires_at":     expiresAt,
		}})
}

// ClearDeleted restores a soft-deleted dossier whose recovery window is
// still open at the given time. Reports whether the update matched.
func (s *Store) ClearDeleted(ctx context.Context, dossierID string, now time.Time) (bool, error) {
	filter := bson.M{
		"dossier_id": dossierID,
		"deleted":    true,
		"expires_at": bson.M{"$gt": now},
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$set":   bson.M{"deleted": false},
		"$unset": bson.M{"deleted_by": "", "deleted_at": "", "deletion_motif": "", "expires_at": ""},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Remove deletes the dossier record entirely. Returns the number of
// documents removed (0 or 1).
func (s *Store) Remove(ctx context.Context, dossierID string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"dossier_id": dossierID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AddShareTarget appends a share target without duplicating entries.
// Returns the updated dossier and whether the update matched a non-deleted
// dossier.
func (s *Store) AddShareTarget(ctx context.Context, dossierID, target string) (models.Dossier, bool, error) {
	return s.findAndUpdate(ctx,
		bson.M{"dossier_id": dossierID, "deleted": false},
		bson.M{"$addToSet": bson.M{"shared_with": target}})
}

// PushDocument appends an embedded document and bumps the cached totals.
// Only matches a dossier whose state permits document mutation. Returns
// the updated dossier and whether the update matched.
func (s *Store) PushDocument(ctx context.Context, dossierID string, doc models.Document) (models.Dossier, bool, error) {
	return s.findAndUpdate(ctx,
		bson.M{"dossier_id": dossierID, "deleted": false},
		bson.M{
			"$push": bson.M{"documents": doc},
			"$inc":  bson.M{"document_count": 1, "total_size": doc.Size},
		})
}

// PullDocument removes the embedded document with the given id and adjusts
// the cached totals by the size it occupied.
func (s *Store) PullDocument(ctx context.Context, dossierID, documentID string, size int64) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"dossier_id": dossierID, "deleted": false},
		bson.M{
			"$pull": bson.M{"documents": bson.M{"document_id": documentID}},
			"$inc":  bson.M{"document_count": -1, "total_size": -size},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Access history kinds accepted by PushAccess.
const (
	AccessConsultation = "consultation"
	AccessDownload     = "download"
)

// PushAccess appends an entry to the consultation or download history of
// one embedded document. Histories only ever grow. Returns the updated
// dossier and whether the update matched.
func (s *Store) PushAccess(ctx context.Context, dossierID, documentID, kind string, entry models.AccessEntry) (models.Dossier, bool, error) {
	field := "documents.$[d].consultations"
	if kind == AccessDownload {
		field = "documents.$[d].downloads"
	}
	opts := options.FindOneAndUpdate().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"d.document_id": documentID}},
	})
	return s.findAndUpdate(ctx,
		bson.M{"dossier_id": dossierID, "deleted": false, "documents.document_id": documentID},
		bson.M{"$push": bson.M{field: entry}},
		opts)
}

// FindExpired returns soft-deleted dossiers whose recovery window elapsed
// at or before the given time. Used by the purge sweep.
func (s *Store) FindExpired(ctx context.Context, now time.Time) ([]models.Dossier, error) {
	return s.Find(ctx, bson.M{
		"deleted":    true,
		"expires_at": bson.M{"$lte": now},
	})
}
