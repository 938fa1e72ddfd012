package books

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/technetbooks/technet/pkg/binder"
	"github.com/technetbooks/technet/pkg/errcodes"
	"github.com/technetbooks/technet/pkg/models"
	"github.com/technetbooks/technet/pkg/store/storetest"
	"go.mongodb.org/mongo-driver/bson"
)

func setupServer(t *testing.T) (*echo.Echo, *storetest.Collection) {
	t.Helper()

	col := storetest.New()
	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutes(e, col)
	return e, col
}

func executeRequest(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}{}
	decodeBody(t, rec, &body)
	return body.Error.Code
}

func TestHandler_ListBooks(t *testing.T) {
	t.Parallel()
	e, col := setupServer(t)

	require.NoError(t, col.Seed(
		&models.Book{ID: objectID(t, "65f000000000000000000001"), Title: "Older"},
		&models.Book{ID: objectID(t, "65f000000000000000000002"), Title: "Newer"},
	))

	rec := executeRequest(t, e, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := struct {
		Status bool          `json:"status"`
		Data   []models.Book `json:"data"`
	}{}
	decodeBody(t, rec, &body)
	assert.True(t, body.Status)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Newer", body.Data[0].Title)
	assert.Equal(t, "Older", body.Data[1].Title)

	// Empty query values are not treated as filters.
	rec = executeRequest(t, e, http.MethodGet, "/books?searchTerm=&genre=", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	assert.Len(t, body.Data, 2)
}

func TestHandler_CreateBook(t *testing.T) {
	t.Parallel()

	t.Run("valid payload", func(t *testing.T) {
		e, col := setupServer(t)

		rec := executeRequest(t, e, http.MethodPost, "/book",
			`{"title":"The Hobbit","author":"J.R.R. Tolkien","genre":"Fantasy","publicationDate":"1937-09-21"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		book := models.Book{}
		decodeBody(t, rec, &book)
		assert.False(t, book.ID.IsZero())
		assert.Equal(t, "The Hobbit", book.Title)

		require.Len(t, col.Docs(), 1)
	})

	t.Run("missing required field", func(t *testing.T) {
		e, col := setupServer(t)

		rec := executeRequest(t, e, http.MethodPost, "/book",
			`{"author":"J.R.R. Tolkien","genre":"Fantasy","publicationDate":"1937-09-21"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "validation_error", errorCode(t, rec))
		assert.Empty(t, col.Docs())
	})

	t.Run("malformed publication date", func(t *testing.T) {
		e, _ := setupServer(t)

		rec := executeRequest(t, e, http.MethodPost, "/book",
			`{"title":"X","author":"Y","genre":"Z","publicationDate":"19370921"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "validation_error", errorCode(t, rec))
	})

	t.Run("unknown field", func(t *testing.T) {
		e, _ := setupServer(t)

		rec := executeRequest(t, e, http.MethodPost, "/book",
			`{"title":"X","author":"Y","genre":"Z","publicationDate":"1937-09-21","isbn":"123"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "unknown_parameter", errorCode(t, rec))
	})

	t.Run("empty body", func(t *testing.T) {
		e, _ := setupServer(t)

		rec := executeRequest(t, e, http.MethodPost, "/book", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "empty_request_body", errorCode(t, rec))
	})
}

func TestHandler_RetrieveBook(t *testing.T) {
	t.Parallel()
	e, col := setupServer(t)

	id := objectID(t, "65f000000000000000000001")
	require.NoError(t, col.Seed(&models.Book{ID: id, Title: "Dune"}))

	rec := executeRequest(t, e, http.MethodGet, "/book/"+id.Hex(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	book := models.Book{}
	decodeBody(t, rec, &book)
	assert.Equal(t, "Dune", book.Title)

	rec = executeRequest(t, e, http.MethodGet, "/book/not-a-hex-id", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))

	rec = executeRequest(t, e, http.MethodGet, "/book/65f0000000000000000000ff", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UpdateBook(t *testing.T) {
	t.Parallel()
	e, col := setupServer(t)

	id := objectID(t, "65f000000000000000000001")
	require.NoError(t, col.Seed(&models.Book{ID: id, Title: "Old", Author: "A", Genre: "Fantasy", PublicationDate: "1937-09-21"}))

	rec := executeRequest(t, e, http.MethodPut, "/book/"+id.Hex(), `{"title":"New"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	book := models.Book{}
	decodeBody(t, rec, &book)
	assert.Equal(t, "New", book.Title)
	assert.Equal(t, "Fantasy", book.Genre)

	rec = executeRequest(t, e, http.MethodPut, "/book/65f0000000000000000000ff", `{"title":"New"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_DeleteBook(t *testing.T) {
	t.Parallel()
	e, col := setupServer(t)

	id := objectID(t, "65f000000000000000000001")
	require.NoError(t, col.Seed(&models.Book{ID: id, Title: "Gone"}))

	rec := executeRequest(t, e, http.MethodDelete, "/book/"+id.Hex(), "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, col.Docs())

	rec = executeRequest(t, e, http.MethodDelete, "/book/"+id.Hex(), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Reviews(t *testing.T) {
	t.Parallel()
	e, col := setupServer(t)

	id := objectID(t, "65f000000000000000000001")
	require.NoError(t, col.Seed(&models.Book{ID: id, Title: "Reviewed"}))

	rec := executeRequest(t, e, http.MethodPost, "/review/"+id.Hex(), `{"review":"Loved it"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	msg := struct {
		Message string `json:"message"`
	}{}
	decodeBody(t, rec, &msg)
	assert.Equal(t, "Review added successfully", msg.Message)

	rec = executeRequest(t, e, http.MethodGet, "/review/"+id.Hex(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	reviews := struct {
		Reviews []string `json:"reviews"`
	}{}
	decodeBody(t, rec, &reviews)
	assert.Equal(t, []string{"Loved it"}, reviews.Reviews)

	rec = executeRequest(t, e, http.MethodPost, "/review/65f0000000000000000000ff", `{"review":"x"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_PublicationYears(t *testing.T) {
	t.Parallel()
	e, col := setupServer(t)

	col.AggregateResults = []bson.M{{"_id": "1937"}, {"_id": "2003"}}

	rec := executeRequest(t, e, http.MethodGet, "/publication-years", "")
	require.Equal(t, http.StatusOK, rec.Code)

	years := []string{}
	decodeBody(t, rec, &years)
	assert.Equal(t, []string{"1937", "2003"}, years)
}
