package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/menuhub/menu-api/internal/api/middleware"
	"github.com/menuhub/menu-api/internal/core/ports"
)

// UserHandler serves the caller's own account.
type UserHandler struct {
	guard ports.Authorizer
}

func NewUserHandler(guard ports.Authorizer) *UserHandler {
	return &UserHandler{guard: guard}
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.AuthenticatedUser
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/me/ [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.guard.Authorize(c.Request().Context(), middleware.BearerToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Items returns the items owned by the authenticated user.
//
// @Summary      Current user's items
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ownedItemResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/me/items/ [get]
func (h *UserHandler) Items(c echo.Context) error {
	user, err := h.guard.Authorize(c.Request().Context(), middleware.BearerToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, []ownedItemResponse{{ItemID: "Foo", Owner: user.Username}})
}
