package books

import (
	"github.com/labstack/echo/v4"
	"github.com/technetbooks/technet/pkg/store"
)

// RegisterRoutes registers the book catalog routes.
func RegisterRoutes(e *echo.Echo, books store.Collection) {
	bookService := NewService(books)

	h := &handler{
		bookService: bookService,
	}

	e.GET("/books", h.list)
	e.POST("/book", h.create)
	e.GET("/book/:id", h.retrieve)
	e.PUT("/book/:id", h.update)
	e.DELETE("/book/:id", h.delete)
	e.POST("/review/:id", h.addReview)
	e.GET("/review/:id", h.listReviews)
	e.GET("/publication-years", h.publicationYears)
}
