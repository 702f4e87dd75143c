// internal/app/store/users/store.go
package users

import (
	"context"

	"github.com/boubskouk/dossiervault/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store reads the user directory. The archive never writes users; accounts
// are managed by the auth layer.
type Store struct {
	c *mongo.Collection
}

// New creates a user directory Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// FindByUsername returns the user with the given username.
// Returns mongo.ErrNoDocuments when absent.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// FindMany returns the users for the given usernames keyed by username.
// Unknown usernames are simply absent from the map.
func (s *Store) FindMany(ctx context.Context, usernames []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(usernames))
	if len(usernames) == 0 {
		return out, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"username": bson.M{"$in": usernames}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.Username] = u
	}
	return out, cur.Err()
}
