// internal/domain/models/role.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Role is a privilege level shared by a set of users. Lower level means
// higher privilege (level 1 outranks level 2). Roles scope the actor sets
// of the deletion and lock leaderboards; this service never writes them.
type Role struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Level   int                `bson:"level" json:"level"`
	Members []string           `bson:"members,omitempty" json:"members,omitempty"`
}
