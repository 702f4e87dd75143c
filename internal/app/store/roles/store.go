// internal/app/store/roles/store.go
package roles

import (
	"context"

	"github.com/boubskouk/dossiervault/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store reads the role directory (read-only here).
type Store struct {
	c *mongo.Collection
}

// New creates a role directory Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("roles")}
}

// FindByLevel returns the role at the given privilege level.
// Returns mongo.ErrNoDocuments when absent.
func (s *Store) FindByLevel(ctx context.Context, level int) (models.Role, error) {
	var r models.Role
	err := s.c.FindOne(ctx, bson.M{"level": level}).Decode(&r)
	if err != nil {
		return models.Role{}, err
	}
	return r, nil
}
