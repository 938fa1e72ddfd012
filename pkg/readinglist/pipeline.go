package readinglist

import (
	"github.com/technetbooks/technet/pkg/models"
	"github.com/technetbooks/technet/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// enrichmentPipeline joins a user's memberships in the named list against
// the book collection and projects the book display fields.
//
// The membership's bookId is a plain string, so it is coerced to an object
// ID for the join; $convert with onError/onNull null keeps a dangling or
// malformed reference from aborting the pipeline — the row simply comes back
// without a book. Membership bookkeeping fields are dropped from the output.
func enrichmentPipeline(list models.ListName, uid string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "list", Value: list},
			{Key: "uid", Value: uid},
		}}},
		// Most recently created membership first; _id is time-prefixed.
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: store.CollectionBooks},
			{Key: "let", Value: bson.D{{Key: "bookId", Value: bson.D{{Key: "$convert", Value: bson.D{
				{Key: "input", Value: "$bookId"},
				{Key: "to", Value: "objectId"},
				{Key: "onError", Value: nil},
				{Key: "onNull", Value: nil},
			}}}}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$eq", Value: bson.A{"$_id", "$$bookId"}},
				}}}}},
				bson.D{{Key: "$limit", Value: 1}},
			}},
			{Key: "as", Value: "book"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$book"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "book._id", Value: 1},
			{Key: "book.title", Value: 1},
			{Key: "book.author", Value: 1},
			{Key: "book.genre", Value: 1},
			{Key: "book.publicationDate", Value: 1},
		}}},
	}
}
