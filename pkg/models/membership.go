package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListName is one of the fixed reading list names a book can be filed under.
type ListName string

const (
	ListWishlist  ListName = "wishlist"
	ListReading   ListName = "reading"
	ListCompleted ListName = "completed"
)

// ListNames is the closed set of valid list names.
var ListNames = []ListName{ListWishlist, ListReading, ListCompleted}

// Valid reports whether the name is in the closed set.
func (n ListName) Valid() bool {
	for _, name := range ListNames {
		if n == name {
			return true
		}
	}
	return false
}

// ListMembership records that a user has filed a book under exactly one named
// list. BookID is a weak string reference to a Book's identifier; it is
// resolved only at read time and never validated on write. At most one
// membership document exists per (uid, bookId) pair; moving a book between
// lists mutates the list field in place.
type ListMembership struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID    string             `bson:"uid" json:"uid"`
	BookID string             `bson:"bookId" json:"bookId"`
	List   ListName           `bson:"list" json:"list"`
}
