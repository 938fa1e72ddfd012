package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpdateResult reports the outcome of an update or upsert.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedID    interface{}
}

// Collection is the narrow surface this service needs from the document
// store: single-document CRUD, filtered find with a sort, field-set and
// array-append updates, distinct-value listing, and pipeline aggregation.
// Services depend on this interface rather than on the driver so they can be
// exercised against an in-memory collection in tests.
type Collection interface {
	InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error)
	FindOne(ctx context.Context, filter interface{}, out interface{}) error
	Find(ctx context.Context, filter interface{}, sort interface{}, out interface{}) error
	UpdateOne(ctx context.Context, filter, update interface{}) (UpdateResult, error)
	UpsertOne(ctx context.Context, filter, update interface{}) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
	Distinct(ctx context.Context, field string, filter interface{}) ([]interface{}, error)
	Aggregate(ctx context.Context, pipeline interface{}, out interface{}) error
}

type mongoCollection struct {
	col *mongo.Collection
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error) {
	res, err := c.col.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, normalize(ctx, err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (c *mongoCollection) FindOne(ctx context.Context, filter interface{}, out interface{}) error {
	err := c.col.FindOne(ctx, filter).Decode(out)
	return normalize(ctx, err)
}

func (c *mongoCollection) Find(ctx context.Context, filter interface{}, sort interface{}, out interface{}) error {
	opts := options.Find()
	if sort != nil {
		opts = opts.SetSort(sort)
	}
	cursor, err := c.col.Find(ctx, filter, opts)
	if err != nil {
		return normalize(ctx, err)
	}
	return normalize(ctx, cursor.All(ctx, out))
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter, update interface{}) (UpdateResult, error) {
	res, err := c.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return UpdateResult{}, normalize(ctx, err)
	}
	return UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (c *mongoCollection) UpsertOne(ctx context.Context, filter, update interface{}) (UpdateResult, error) {
	res, err := c.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return UpdateResult{}, normalize(ctx, err)
	}
	return UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	res, err := c.col.DeleteOne(ctx, filter)
	if err != nil {
		return 0, normalize(ctx, err)
	}
	return res.DeletedCount, nil
}

func (c *mongoCollection) Distinct(ctx context.Context, field string, filter interface{}) ([]interface{}, error) {
	values, err := c.col.Distinct(ctx, field, filter)
	if err != nil {
		return nil, normalize(ctx, err)
	}
	return values, nil
}

func (c *mongoCollection) Aggregate(ctx context.Context, pipeline interface{}, out interface{}) error {
	cursor, err := c.col.Aggregate(ctx, pipeline)
	if err != nil {
		return normalize(ctx, err)
	}
	return normalize(ctx, cursor.All(ctx, out))
}
