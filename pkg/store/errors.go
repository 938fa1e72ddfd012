package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/technetbooks/technet/pkg/errcodes"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNoDocuments is returned by FindOne when nothing matches the filter.
// Services map it to a resource-specific not-found error.
var ErrNoDocuments = errors.New("store: no documents in result")

// normalize folds driver errors into the service error taxonomy: missing
// documents become ErrNoDocuments, network and timeout failures become
// StoreUnavailable, and anything else becomes StoreError. The driver error is
// logged here since the taxonomy errors don't carry a cause.
func normalize(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNoDocuments
	case mongo.IsNetworkError(err) || mongo.IsTimeout(err):
		logger.FromContext(ctx).Err(err).Error("store unreachable")
		return errcodes.StoreUnavailable()
	default:
		logger.FromContext(ctx).Err(err).Error("store operation failed")
		return errcodes.StoreError()
	}
}
