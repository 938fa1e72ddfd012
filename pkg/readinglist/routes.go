package readinglist

import (
	"github.com/labstack/echo/v4"
	"github.com/technetbooks/technet/pkg/store"
)

// RegisterRoutes registers the per-user reading list routes.
func RegisterRoutes(e *echo.Echo, memberships store.Collection) {
	listService := NewService(memberships)

	h := &handler{
		listService: listService,
	}

	e.POST("/myList/:list", h.add)
	e.GET("/myList", h.list)
}
