package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Admin marks an email as a librarian. Role is membership in this
// collection, not a claim inside the session token.
type Admin struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email string             `bson:"email" json:"email"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
}
