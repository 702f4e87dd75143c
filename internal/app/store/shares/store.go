// internal/app/store/shares/store.go
package shares

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Record is one immutable share fact: who shared which dossier or document
// with whom. Exactly one of DossierID/DocumentID identifies the entity; a
// record naming neither is malformed and discarded by reporting.
type Record struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	DossierID  string             `bson:"dossier_id,omitempty"`
	DocumentID string             `bson:"document_id,omitempty"`
	SharedBy   string             `bson:"shared_by"`
	SharedWith string             `bson:"shared_with"`
	SharedAt   time.Time          `bson:"shared_at"`
}

// Store manages the append-only share history.
type Store struct {
	c *mongo.Collection
}

// New creates a share history Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("share_history")}
}

// EnsureIndexes creates indexes for period-filtered reads.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "shared_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "dossier_id", Value: 1}, {Key: "shared_at", Value: -1}},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Append records a share event.
func (s *Store) Append(ctx context.Context, rec Record) error {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if rec.SharedAt.IsZero() {
		rec.SharedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

// InRange returns share records whose shared_at falls within the optional
// bounds, oldest first so grouping iterates in a stable order.
func (s *Store) InRange(ctx context.Context, start, end *time.Time) ([]Record, error) {
	query := bson.M{}
	if start != nil || end != nil {
		rng := bson.M{}
		if start != nil {
			rng["$gte"] = *start
		}
		if end != nil {
			rng["$lte"] = *end
		}
		query["shared_at"] = rng
	}

	opts := options.Find().SetSort(bson.D{{Key: "shared_at", Value: 1}})
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
