// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a directory entry consumed read-only by this service. Accounts are
// provisioned and authenticated by the auth layer; the archive only resolves
// display names, emails, and privilege levels for enrichment.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username    string             `bson:"username" json:"username"`
	DisplayName string             `bson:"display_name" json:"display_name"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Level       int                `bson:"level" json:"level"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
