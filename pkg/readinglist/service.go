package readinglist

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/technetbooks/technet/pkg/errcodes"
	"github.com/technetbooks/technet/pkg/models"
	"github.com/technetbooks/technet/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
)

type Service struct {
	memberships store.Collection
}

func NewService(memberships store.Collection) *Service {
	return &Service{memberships}
}

type ReconcileOptions struct {
	UID    string
	BookID string
	List   models.ListName
}

// Reconcile files a book under the given list for a user, guaranteeing that
// at most one membership exists per (uid, bookId) pair. A first add inserts
// the membership; a later add to a different list mutates its list field in
// place. The write is a single upsert keyed on the pair, so two concurrent
// reconciles can't both insert. Returns the resulting membership.
func (svc *Service) Reconcile(ctx context.Context, opts ReconcileOptions) (*models.ListMembership, error) {
	if !opts.List.Valid() {
		return nil, errcodes.InvalidArgument(fmt.Sprintf("%q is not a valid list name", opts.List))
	}

	key := bson.M{"uid": opts.UID, "bookId": opts.BookID}
	_, err := svc.memberships.UpsertOne(ctx, key, bson.M{"$set": bson.M{"list": opts.List}})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	membership := &models.ListMembership{}
	err = svc.memberships.FindOne(ctx, key, membership)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return membership, nil
}

// Row is one entry of an enriched list: the referenced book's display
// fields, or no book at all when the membership's bookId doesn't resolve.
type Row struct {
	Book *models.Book `bson:"book,omitempty" json:"book,omitempty"`
}

// ListFor returns the enriched entries of the named list for a user, most
// recently added first. Memberships whose bookId resolves to no book are
// included with an absent book.
func (svc *Service) ListFor(ctx context.Context, list models.ListName, uid string) ([]Row, error) {
	if !list.Valid() {
		return nil, errcodes.InvalidArgument(fmt.Sprintf("%q is not a valid list name", list))
	}

	rows := []Row{}
	err := svc.memberships.Aggregate(ctx, enrichmentPipeline(list, uid), &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}
