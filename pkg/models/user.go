package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a catalog account, looked up by email.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email string             `bson:"email" json:"email"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
}
