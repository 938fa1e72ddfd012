package books

import (
	"context"

	"github.com/pkg/errors"
	"github.com/technetbooks/technet/pkg/errcodes"
	"github.com/technetbooks/technet/pkg/models"
	"github.com/technetbooks/technet/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Service struct {
	books store.Collection
}

func NewService(books store.Collection) *Service {
	return &Service{books}
}

func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	id, err := svc.books.InsertOne(ctx, book)
	if err != nil {
		return errors.WithStack(err)
	}
	book.ID = id
	return nil
}

func (svc *Service) RetrieveBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	book := &models.Book{}
	err := svc.books.FindOne(ctx, bson.M{"_id": id}, book)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}
	return book, nil
}

type SearchBooksOptions struct {
	SearchTerm string
	Filters    map[string]string
}

// SearchBooks returns the books matching the predicate built from the
// options, most recently inserted first.
func (svc *Service) SearchBooks(ctx context.Context, opts SearchBooksOptions) ([]*models.Book, error) {
	predicate := BuildPredicate(opts.SearchTerm, opts.Filters)

	books := []*models.Book{}
	err := svc.books.Find(ctx, predicate, recencySort, &books)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return books, nil
}

type UpdateBookOptions struct {
	Set bson.M
}

// UpdateBook applies a field-set update and returns the updated book.
func (svc *Service) UpdateBook(ctx context.Context, id primitive.ObjectID, opts UpdateBookOptions) (*models.Book, error) {
	if len(opts.Set) > 0 {
		res, err := svc.books.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": opts.Set})
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if res.MatchedCount == 0 {
			return nil, errcodes.NotFound("Book")
		}
	}
	return svc.RetrieveBook(ctx, id)
}

func (svc *Service) DeleteBook(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := svc.books.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.WithStack(err)
	}
	if deleted == 0 {
		return errcodes.NotFound("Book")
	}
	return nil
}

// AddReview appends a review to the book's reviews sequence.
func (svc *Service) AddReview(ctx context.Context, id primitive.ObjectID, review string) error {
	res, err := svc.books.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"reviews": review}})
	if err != nil {
		return errors.WithStack(err)
	}
	if res.MatchedCount == 0 {
		return errcodes.NotFound("Book")
	}
	return nil
}

func (svc *Service) ListReviews(ctx context.Context, id primitive.ObjectID) ([]string, error) {
	book, err := svc.RetrieveBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.Reviews == nil {
		return []string{}, nil
	}
	return book.Reviews, nil
}

// yearsPipeline groups books on the first four characters of their
// publicationDate and sorts the group keys ascending.
var yearsPipeline = mongo.Pipeline{
	{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: bson.D{{Key: "$substrCP", Value: bson.A{"$publicationDate", 0, 4}}}},
	}}},
	{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
}

// DistinctYears returns the distinct publication years in the catalog,
// sorted ascending.
func (svc *Service) DistinctYears(ctx context.Context) ([]string, error) {
	rows := []struct {
		Year string `bson:"_id"`
	}{}
	err := svc.books.Aggregate(ctx, yearsPipeline, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	years := make([]string, 0, len(rows))
	for _, row := range rows {
		years = append(years, row.Year)
	}
	return years, nil
}
