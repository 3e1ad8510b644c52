package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/menuhub/menu-api/internal/api/metrics"
	"github.com/menuhub/menu-api/internal/api/middleware"
	"github.com/menuhub/menu-api/internal/core/ports"
)

// MenuHandler handles HTTP requests for menu operations. Authorization is
// performed by the service on every call. When the path does not bind, guard
// is consulted first so a bad token wins over bad input.
type MenuHandler struct {
	service ports.MenuService
	guard   ports.Authorizer
}

func NewMenuHandler(service ports.MenuService, guard ports.Authorizer) *MenuHandler {
	return &MenuHandler{service: service, guard: guard}
}

func (h *MenuHandler) bind(c echo.Context, dst any) error {
	err := bindPath(c, dst)
	if err == nil {
		return nil
	}
	if _, authErr := h.guard.Authorize(c.Request().Context(), middleware.BearerToken(c)); authErr != nil {
		return authErr
	}
	return err
}

// List handles GET /.
//
// @Summary      List the menu
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.MenuItem
// @Failure      401  {object}  errorResponse
// @Router       / [get]
func (h *MenuHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), middleware.BearerToken(c))
	metrics.ObserveMenu("list", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /menu/:item_id.
//
// @Summary      Get a menu item
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        item_id  path      int  true  "Item id"
// @Success      200      {object}  domain.MenuItem
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /menu/{item_id} [get]
func (h *MenuHandler) Get(c echo.Context) error {
	var p itemPath
	if err := h.bind(c, &p); err != nil {
		return err
	}
	item, err := h.service.Get(c.Request().Context(), middleware.BearerToken(c), p.ID)
	metrics.ObserveMenu("get", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Add handles POST /menu/add/:item_id/:item_name.
//
// @Summary      Append a menu item
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        item_id          path      int     true   "Item id"
// @Param        item_name        path      string  true   "Item name"
// @Param        Idempotency-Key  header    string  false  "Idempotency key to prevent duplicate submissions"
// @Success      200              {object}  menuResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /menu/add/{item_id}/{item_name} [post]
func (h *MenuHandler) Add(c echo.Context) error {
	var p itemNamePath
	if err := h.bind(c, &p); err != nil {
		return err
	}
	items, err := h.service.Add(c.Request().Context(), middleware.BearerToken(c), ports.AddMenuItemInput{
		ID:             p.ID,
		Name:           p.Name,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	metrics.ObserveMenu("add", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menuResponse{Menu: items})
}

// Rename handles PUT /menu/update/:item_id/:item_name.
//
// @Summary      Rename a menu item
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        item_id    path      int     true  "Item id"
// @Param        item_name  path      string  true  "New item name"
// @Success      200        {object}  menuResponse
// @Failure      401        {object}  errorResponse
// @Failure      422        {object}  errorResponse
// @Router       /menu/update/{item_id}/{item_name} [put]
func (h *MenuHandler) Rename(c echo.Context) error {
	var p itemNamePath
	if err := h.bind(c, &p); err != nil {
		return err
	}
	items, err := h.service.Rename(c.Request().Context(), middleware.BearerToken(c), p.ID, p.Name)
	metrics.ObserveMenu("rename", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menuResponse{Menu: items})
}

// Remove handles DELETE /menu/remove/:item_id.
//
// @Summary      Remove a menu item
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        item_id  path      int  true  "Item id"
// @Success      200      {object}  menuResponse
// @Failure      401      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /menu/remove/{item_id} [delete]
func (h *MenuHandler) Remove(c echo.Context) error {
	var p itemPath
	if err := h.bind(c, &p); err != nil {
		return err
	}
	items, err := h.service.Remove(c.Request().Context(), middleware.BearerToken(c), p.ID)
	metrics.ObserveMenu("remove", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menuResponse{Menu: items})
}
