package users

import (
	"github.com/labstack/echo/v4"
	"github.com/technetbooks/technet/pkg/store"
)

// RegisterRoutes registers the user account routes.
func RegisterRoutes(e *echo.Echo, users store.Collection) {
	userService := NewService(users)

	h := &handler{
		userService: userService,
	}

	e.POST("/user", h.create)
	e.GET("/user/:email", h.retrieve)
}
