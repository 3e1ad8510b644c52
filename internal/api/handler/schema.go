package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/menuhub/menu-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Detail string `json:"detail"`
}

type loginRequest struct {
	Username string `form:"username" validate:"required,max=128"`
	Password string `form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ownedItemResponse struct {
	ItemID string `json:"item_id"`
	Owner  string `json:"owner"`
}

type menuResponse struct {
	Menu []domain.MenuItem `json:"menu"`
}

type itemPath struct {
	ID int `param:"item_id"`
}

type itemNamePath struct {
	ID   int    `param:"item_id"`
	Name string `param:"item_name" validate:"required,notblank,max=200"`
}

// bindPath binds and validates path parameters. A non-integer item_id is
// rejected with 422.
func bindPath(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindPathParams(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "item_id must be an integer")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
