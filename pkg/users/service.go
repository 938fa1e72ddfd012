package users

import (
	"context"

	"github.com/pkg/errors"
	"github.com/technetbooks/technet/pkg/errcodes"
	"github.com/technetbooks/technet/pkg/models"
	"github.com/technetbooks/technet/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
)

type Service struct {
	users store.Collection
}

func NewService(users store.Collection) *Service {
	return &Service{users}
}

func (svc *Service) CreateUser(ctx context.Context, user *models.User) error {
	id, err := svc.users.InsertOne(ctx, user)
	if err != nil {
		return errors.WithStack(err)
	}
	user.ID = id
	return nil
}

func (svc *Service) RetrieveUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := svc.users.FindOne(ctx, bson.M{"email": email}, user)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}
