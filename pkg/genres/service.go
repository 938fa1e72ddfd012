package genres

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/technetbooks/technet/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
)

type Service struct {
	books store.Collection
}

func NewService(books store.Collection) *Service {
	return &Service{books}
}

// ListGenres returns the distinct genre strings across the catalog, sorted
// ascending.
func (svc *Service) ListGenres(ctx context.Context) ([]string, error) {
	values, err := svc.books.Distinct(ctx, "genre", bson.M{})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	genres := make([]string, 0, len(values))
	for _, value := range values {
		if genre, ok := value.(string); ok {
			genres = append(genres, genre)
		}
	}
	sort.Strings(genres)
	return genres, nil
}
