// Package storetest provides an in-memory store.Collection for service
// tests. It evaluates the exact-match filters and $set/$push/$setOnInsert
// updates the services actually issue; aggregation pipelines are recorded and
// answered with canned results since their evaluation belongs to the real
// store.
package storetest

import (
	"context"
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"github.com/technetbooks/technet/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Collection struct {
	mu sync.Mutex

	docs []bson.M

	// Calls records the operation names in order, for asserting that a code
	// path did or did not touch the store.
	Calls []string

	// Pipelines records every aggregation pipeline passed to Aggregate.
	Pipelines []interface{}

	// AggregateResults is decoded into the out argument of Aggregate calls.
	AggregateResults interface{}

	// Err, when set, is returned by every operation.
	Err error
}

var _ store.Collection = (*Collection)(nil)

func New() *Collection {
	return &Collection{}
}

// Seed inserts documents without recording calls.
func (c *Collection) Seed(docs ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, doc := range docs {
		m, err := toDoc(doc)
		if err != nil {
			return err
		}
		if _, ok := m["_id"]; !ok {
			m["_id"] = primitive.NewObjectID()
		}
		c.docs = append(c.docs, m)
	}
	return nil
}

// Docs returns a snapshot of the stored documents.
func (c *Collection) Docs() []bson.M {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]bson.M, len(c.docs))
	copy(out, c.docs)
	return out
}

func (c *Collection) InsertOne(_ context.Context, doc interface{}) (primitive.ObjectID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, "InsertOne")
	if c.Err != nil {
		return primitive.NilObjectID, c.Err
	}

	m, err := toDoc(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := m["_id"].(primitive.ObjectID)
	if !ok {
		id = primitive.NewObjectID()
		m["_id"] = id
	}
	c.docs = append(c.docs, m)
	return id, nil
}

func (c *Collection) FindOne(_ context.Context, filter interface{}, out interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, "FindOne")
	if c.Err != nil {
		return c.Err
	}

	f, err := toDoc(filter)
	if err != nil {
		return err
	}
	for _, doc := range c.docs {
		if matches(doc, f) {
			return decodeDoc(doc, out)
		}
	}
	return store.ErrNoDocuments
}

func (c *Collection) Find(_ context.Context, filter interface{}, sort interface{}, out interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, "Find")
	if c.Err != nil {
		return c.Err
	}

	f, err := toDoc(filter)
	if err != nil {
		return err
	}
	matched := []bson.M{}
	for _, doc := range c.docs {
		if matches(doc, f) {
			matched = append(matched, doc)
		}
	}
	if isIDDescending(sort) {
		sortByIDDescending(matched)
	}
	return decodeDocs(matched, out)
}

func (c *Collection) UpdateOne(_ context.Context, filter, update interface{}) (store.UpdateResult, error) {
	return c.update(filter, update, false)
}

func (c *Collection) UpsertOne(_ context.Context, filter, update interface{}) (store.UpdateResult, error) {
	return c.update(filter, update, true)
}

func (c *Collection) update(filter, update interface{}, upsert bool) (store.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if upsert {
		c.Calls = append(c.Calls, "UpsertOne")
	} else {
		c.Calls = append(c.Calls, "UpdateOne")
	}
	if c.Err != nil {
		return store.UpdateResult{}, c.Err
	}

	f, err := toDoc(filter)
	if err != nil {
		return store.UpdateResult{}, err
	}
	u, err := toDoc(update)
	if err != nil {
		return store.UpdateResult{}, err
	}

	for _, doc := range c.docs {
		if !matches(doc, f) {
			continue
		}
		modified := applyUpdate(doc, u, false)
		res := store.UpdateResult{MatchedCount: 1}
		if modified {
			res.ModifiedCount = 1
		}
		return res, nil
	}

	if !upsert {
		return store.UpdateResult{}, nil
	}

	// Upsert: the new document starts from the filter's equality fields.
	doc := bson.M{}
	for k, v := range f {
		doc[k] = v
	}
	applyUpdate(doc, u, true)
	id := primitive.NewObjectID()
	doc["_id"] = id
	c.docs = append(c.docs, doc)
	return store.UpdateResult{UpsertedID: id}, nil
}

func (c *Collection) DeleteOne(_ context.Context, filter interface{}) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, "DeleteOne")
	if c.Err != nil {
		return 0, c.Err
	}

	f, err := toDoc(filter)
	if err != nil {
		return 0, err
	}
	for i, doc := range c.docs {
		if matches(doc, f) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (c *Collection) Distinct(_ context.Context, field string, filter interface{}) ([]interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, "Distinct")
	if c.Err != nil {
		return nil, c.Err
	}

	f, err := toDoc(filter)
	if err != nil {
		return nil, err
	}
	seen := map[interface{}]bool{}
	values := []interface{}{}
	for _, doc := range c.docs {
		if !matches(doc, f) {
			continue
		}
		v, ok := doc[field]
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values, nil
}

func (c *Collection) Aggregate(_ context.Context, pipeline interface{}, out interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, "Aggregate")
	c.Pipelines = append(c.Pipelines, pipeline)
	if c.Err != nil {
		return c.Err
	}

	if c.AggregateResults == nil {
		return decodeDocs(nil, out)
	}
	data, err := bson.Marshal(bson.M{"v": c.AggregateResults})
	if err != nil {
		return errors.WithStack(err)
	}
	wrapper := bson.M{}
	if err := bson.Unmarshal(data, &wrapper); err != nil {
		return errors.WithStack(err)
	}
	raw, _ := wrapper["v"].(bson.A)
	docs := make([]bson.M, 0, len(raw))
	for _, item := range raw {
		m, err := toDoc(item)
		if err != nil {
			return err
		}
		docs = append(docs, m)
	}
	return decodeDocs(docs, out)
}

func toDoc(v interface{}) (bson.M, error) {
	if v == nil {
		return bson.M{}, nil
	}
	if m, ok := v.(bson.M); ok {
		return m, nil
	}
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	m := bson.M{}
	if err := bson.Unmarshal(data, &m); err != nil {
		return nil, errors.WithStack(err)
	}
	return m, nil
}

func decodeDoc(doc bson.M, out interface{}) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(bson.Unmarshal(data, out))
}

func decodeDocs(docs []bson.M, out interface{}) error {
	slice := reflect.ValueOf(out).Elem()
	elemType := slice.Type().Elem()
	result := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, doc := range docs {
		var target reflect.Value
		if elemType.Kind() == reflect.Ptr {
			target = reflect.New(elemType.Elem())
		} else {
			target = reflect.New(elemType)
		}
		if err := decodeDoc(doc, target.Interface()); err != nil {
			return err
		}
		if elemType.Kind() == reflect.Ptr {
			result = reflect.Append(result, target)
		} else {
			result = reflect.Append(result, target.Elem())
		}
	}
	slice.Set(result)
	return nil
}

// matches reports whether every top-level field of the filter equals the
// corresponding document field. Operator filters aren't evaluated; the
// services under test only issue exact-match filters.
func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !equalValue(got, want) {
			return false
		}
	}
	return true
}

func equalValue(a, b interface{}) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	// Normalize numeric and string kinds through a bson round trip.
	na, errA := roundTrip(bson.M{"v": a})
	nb, errB := roundTrip(bson.M{"v": b})
	if errA != nil || errB != nil {
		return false
	}
	return reflect.DeepEqual(na["v"], nb["v"])
}

func roundTrip(m bson.M) (bson.M, error) {
	data, err := bson.Marshal(m)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	out := bson.M{}
	if err := bson.Unmarshal(data, &out); err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}

func applyUpdate(doc, update bson.M, inserting bool) bool {
	modified := false
	if set, ok := update["$set"].(bson.M); ok {
		for k, v := range set {
			if !equalValue(doc[k], v) {
				doc[k] = v
				modified = true
			}
		}
	}
	if push, ok := update["$push"].(bson.M); ok {
		for k, v := range push {
			existing, _ := doc[k].(bson.A)
			doc[k] = append(existing, v)
			modified = true
		}
	}
	if inserting {
		if setOnInsert, ok := update["$setOnInsert"].(bson.M); ok {
			for k, v := range setOnInsert {
				doc[k] = v
			}
		}
	}
	return modified
}

func isIDDescending(sort interface{}) bool {
	if sort == nil {
		return false
	}
	m, err := toDoc(sort)
	if err != nil {
		return false
	}
	v, ok := m["_id"]
	if !ok {
		return false
	}
	n, err := roundTrip(bson.M{"v": v})
	if err != nil {
		return false
	}
	i, ok := n["v"].(int32)
	return ok && i == -1
}

func sortByIDDescending(docs []bson.M) {
	for i := 1; i < len(docs); i++ {
		for j := i; j > 0; j-- {
			a, _ := docs[j-1]["_id"].(primitive.ObjectID)
			b, _ := docs[j]["_id"].(primitive.ObjectID)
			if a.Hex() >= b.Hex() {
				break
			}
			docs[j-1], docs[j] = docs[j], docs[j-1]
		}
	}
}
