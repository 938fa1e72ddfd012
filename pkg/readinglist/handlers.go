package readinglist

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/technetbooks/technet/pkg/models"
)

type handler struct {
	listService *Service
}

// statusFalse is the soft failure body for an invalid list name. The
// frontend keys off status rather than the HTTP code for these.
var statusFalse = struct {
	Status bool `json:"status"`
}{false}

func (h *handler) add(c echo.Context) error {
	ctx := c.Request().Context()

	list := models.ListName(c.Param("list"))
	if !list.Valid() {
		return errors.WithStack(c.JSON(http.StatusOK, statusFalse))
	}

	params := AddToListPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	membership, err := h.listService.Reconcile(ctx, ReconcileOptions{
		UID:    params.UID,
		BookID: params.BookID,
		List:   list,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, membership))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListMembershipsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	list := models.ListName(params.List)
	if !list.Valid() {
		return errors.WithStack(c.JSON(http.StatusOK, statusFalse))
	}

	rows, err := h.listService.ListFor(ctx, list, params.UID)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Status bool  `json:"status"`
		Data   []Row `json:"data"`
	}{true, rows}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
