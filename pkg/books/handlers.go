package books

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/technetbooks/technet/pkg/errcodes"
	"github.com/technetbooks/technet/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type handler struct {
	bookService *Service
}

// searchTermParam is the only reserved query parameter on the search
// endpoint; every other parameter is treated as a field filter and passed to
// the predicate builder as-is.
const searchTermParam = "searchTerm"

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	opts := SearchBooksOptions{
		SearchTerm: c.QueryParam(searchTermParam),
		Filters:    map[string]string{},
	}
	for field, values := range c.QueryParams() {
		if field == searchTermParam || len(values) == 0 || values[0] == "" {
			continue
		}
		opts.Filters[field] = values[0]
	}

	books, err := h.bookService.SearchBooks(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Status bool           `json:"status"`
		Data   []*models.Book `json:"data"`
	}{true, books}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		Title:           params.Title,
		Author:          params.Author,
		Genre:           params.Genre,
		PublicationDate: params.PublicationDate,
		Reviews:         params.Reviews,
	}
	if err := h.bookService.CreateBook(ctx, book); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Only the provided fields are written.
	set := bson.M{}
	if params.Title != nil {
		set["title"] = *params.Title
	}
	if params.Author != nil {
		set["author"] = *params.Author
	}
	if params.Genre != nil {
		set["genre"] = *params.Genre
	}
	if params.PublicationDate != nil {
		set["publicationDate"] = *params.PublicationDate
	}

	book, err := h.bookService.UpdateBook(ctx, id, UpdateBookOptions{Set: set})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	if err := h.bookService.DeleteBook(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) addReview(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := AddReviewPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.bookService.AddReview(ctx, id, params.Review); err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Message string `json:"message"`
	}{"Review added successfully"}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) listReviews(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	reviews, err := h.bookService.ListReviews(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Reviews []string `json:"reviews"`
	}{reviews}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) publicationYears(c echo.Context) error {
	ctx := c.Request().Context()

	years, err := h.bookService.DistinctYears(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, years))
}
