package users

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/technetbooks/technet/pkg/errcodes"
	"github.com/technetbooks/technet/pkg/models"
)

type handler struct {
	userService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateUserPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user := &models.User{
		Email: params.Email,
		Name:  params.Name,
	}
	if err := h.userService.CreateUser(ctx, user); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, user))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userService.RetrieveUserByEmail(ctx, c.Param("email"))
	if err != nil {
		// An unknown email is a soft miss, not an HTTP error.
		if errors.Is(err, errcodes.NotFound("User")) {
			resp := struct {
				Status bool `json:"status"`
			}{false}
			return errors.WithStack(c.JSON(http.StatusOK, resp))
		}
		return errors.WithStack(err)
	}

	resp := struct {
		Status bool         `json:"status"`
		Data   *models.User `json:"data"`
	}{true, user}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
