// internal/app/store/departments/store.go
package departments

import (
	"context"

	"github.com/boubskouk/dossiervault/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store reads the department directory.
type Store struct {
	c *mongo.Collection
}

// New creates a department directory Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("departments")}
}

// FindByID returns the department with the given id.
// Returns mongo.ErrNoDocuments when absent.
func (s *Store) FindByID(ctx context.Context, id string) (models.Department, error) {
	var d models.Department
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		return models.Department{}, err
	}
	return d, nil
}

// All returns every department keyed by id, for join-style enrichment.
func (s *Store) All(ctx context.Context) (map[string]models.Department, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]models.Department)
	for cur.Next(ctx) {
		var d models.Department
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out[d.ID] = d
	}
	return out, cur.Err()
}
