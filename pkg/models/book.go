package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a catalog record in the book collection. PublicationDate is kept as
// a plain YYYY-MM-DD string so year facets and prefix filters work directly
// off its text.
type Book struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Author          string             `bson:"author" json:"author"`
	Genre           string             `bson:"genre" json:"genre"`
	PublicationDate string             `bson:"publicationDate" json:"publicationDate"`
	Reviews         []string           `bson:"reviews,omitempty" json:"reviews,omitempty"`
}
