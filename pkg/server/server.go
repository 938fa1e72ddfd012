package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/technetbooks/technet/pkg/binder"
	"github.com/technetbooks/technet/pkg/books"
	"github.com/technetbooks/technet/pkg/config"
	"github.com/technetbooks/technet/pkg/errcodes"
	"github.com/technetbooks/technet/pkg/genres"
	"github.com/technetbooks/technet/pkg/readinglist"
	"github.com/technetbooks/technet/pkg/store"
	"github.com/technetbooks/technet/pkg/users"
)

func New(cfg *config.Config, db *store.Store) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	books.RegisterRoutes(e, db.Collection(store.CollectionBooks))
	genres.RegisterRoutes(e, db.Collection(store.CollectionBooks))
	readinglist.RegisterRoutes(e, db.Collection(store.CollectionMemberships))
	users.RegisterRoutes(e, db.Collection(store.CollectionUsers))

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
