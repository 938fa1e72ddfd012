package readinglist

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/technetbooks/technet/pkg/errcodes"
	"github.com/technetbooks/technet/pkg/models"
	"github.com/technetbooks/technet/pkg/store/storetest"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupService(t *testing.T) (*Service, *storetest.Collection) {
	t.Helper()
	col := storetest.New()
	return NewService(col), col
}

func assertErrCode(t *testing.T, err error, code string) {
	t.Helper()
	e := &errcodes.Error{}
	require.True(t, errors.As(err, &e), "expected an errcodes error, got %v", err)
	assert.Equal(t, code, e.Code)
}

func TestService_Reconcile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	opts := ReconcileOptions{UID: "user@example.com", BookID: "65f000000000000000000001", List: models.ListWishlist}

	t.Run("first add inserts a membership", func(t *testing.T) {
		svc, col := setupService(t)

		membership, err := svc.Reconcile(ctx, opts)
		require.NoError(t, err)
		assert.Equal(t, opts.UID, membership.UID)
		assert.Equal(t, opts.BookID, membership.BookID)
		assert.Equal(t, models.ListWishlist, membership.List)
		assert.False(t, membership.ID.IsZero())

		require.Len(t, col.Docs(), 1)
	})

	t.Run("repeated adds are idempotent", func(t *testing.T) {
		svc, col := setupService(t)

		for i := 0; i < 3; i++ {
			_, err := svc.Reconcile(ctx, opts)
			require.NoError(t, err)
		}

		docs := col.Docs()
		require.Len(t, docs, 1)
		assert.Equal(t, models.ListWishlist, docs[0]["list"])
	})

	t.Run("a later add to another list moves the membership", func(t *testing.T) {
		svc, col := setupService(t)

		first, err := svc.Reconcile(ctx, opts)
		require.NoError(t, err)

		moved := opts
		moved.List = models.ListCompleted
		second, err := svc.Reconcile(ctx, moved)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, models.ListCompleted, second.List)

		docs := col.Docs()
		require.Len(t, docs, 1)
		assert.Equal(t, models.ListCompleted, docs[0]["list"])
	})

	t.Run("distinct books keep distinct memberships", func(t *testing.T) {
		svc, col := setupService(t)

		_, err := svc.Reconcile(ctx, opts)
		require.NoError(t, err)

		other := opts
		other.BookID = "65f000000000000000000002"
		_, err = svc.Reconcile(ctx, other)
		require.NoError(t, err)

		assert.Len(t, col.Docs(), 2)
	})

	t.Run("invalid list name never reaches the store", func(t *testing.T) {
		svc, col := setupService(t)

		bad := opts
		bad.List = "favorites"
		_, err := svc.Reconcile(ctx, bad)
		assertErrCode(t, err, "invalid_argument")
		assert.Empty(t, col.Calls)
	})

	t.Run("concurrent reconciles leave exactly one membership", func(t *testing.T) {
		svc, col := setupService(t)

		lists := []models.ListName{models.ListWishlist, models.ListReading, models.ListCompleted}
		var wg sync.WaitGroup
		for i := 0; i < 30; i++ {
			wg.Add(1)
			go func(list models.ListName) {
				defer wg.Done()
				o := opts
				o.List = list
				_, err := svc.Reconcile(ctx, o)
				assert.NoError(t, err)
			}(lists[i%len(lists)])
		}
		wg.Wait()

		docs := col.Docs()
		require.Len(t, docs, 1)
		assert.Contains(t, []interface{}{models.ListWishlist, models.ListReading, models.ListCompleted}, docs[0]["list"])
	})
}

func TestService_ListFor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("invalid list name never reaches the store", func(t *testing.T) {
		svc, col := setupService(t)

		_, err := svc.ListFor(ctx, "favorites", "user@example.com")
		assertErrCode(t, err, "invalid_argument")
		assert.Empty(t, col.Calls)
	})

	t.Run("returns enriched rows, orphans included", func(t *testing.T) {
		svc, col := setupService(t)
		col.AggregateResults = []bson.M{
			{"book": bson.M{
				"title":           "The Hobbit",
				"author":          "J.R.R. Tolkien",
				"genre":           "Fantasy",
				"publicationDate": "1937-09-21",
			}},
			{},
		}

		rows, err := svc.ListFor(ctx, models.ListReading, "user@example.com")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.NotNil(t, rows[0].Book)
		assert.Equal(t, "The Hobbit", rows[0].Book.Title)
		assert.Nil(t, rows[1].Book)
	})

	t.Run("pipeline filters, sorts, joins, and projects", func(t *testing.T) {
		svc, col := setupService(t)

		_, err := svc.ListFor(ctx, models.ListWishlist, "user@example.com")
		require.NoError(t, err)

		require.Len(t, col.Pipelines, 1)
		pipeline, ok := col.Pipelines[0].(mongo.Pipeline)
		require.True(t, ok)
		require.Len(t, pipeline, 5)

		match := pipeline[0][0]
		require.Equal(t, "$match", match.Key)
		assert.Equal(t, bson.D{
			{Key: "list", Value: models.ListWishlist},
			{Key: "uid", Value: "user@example.com"},
		}, match.Value)

		sort := pipeline[1][0]
		require.Equal(t, "$sort", sort.Key)
		assert.Equal(t, bson.D{{Key: "_id", Value: -1}}, sort.Value)

		lookup := pipeline[2][0]
		require.Equal(t, "$lookup", lookup.Key)
		lookupDoc := lookup.Value.(bson.D)
		assert.Equal(t, bson.E{Key: "from", Value: "book"}, lookupDoc[0])
		assert.Equal(t, bson.E{Key: "as", Value: "book"}, lookupDoc[3])

		unwind := pipeline[3][0]
		require.Equal(t, "$unwind", unwind.Key)
		assert.Contains(t, unwind.Value.(bson.D), bson.E{Key: "preserveNullAndEmptyArrays", Value: true})

		project := pipeline[4][0]
		require.Equal(t, "$project", project.Key)
		assert.Contains(t, project.Value.(bson.D), bson.E{Key: "_id", Value: 0})
	})
}
