package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/technetbooks/technet/pkg/store"
)

// RegisterRoutes registers the genre facet route.
func RegisterRoutes(e *echo.Echo, books store.Collection) {
	genreService := NewService(books)

	h := &handler{
		genreService: genreService,
	}

	e.GET("/genres", h.list)
}
