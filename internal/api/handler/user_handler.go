package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bilemo/catalog-api/internal/core/domain"
	"github.com/bilemo/catalog-api/internal/core/ports"
)

// UserHandler handles HTTP requests for the user directory.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns the users owned by the caller.
//
// @Summary      List owned users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	caller, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	users, err := h.service.ListOwnedUsers(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserList(users))
}

// Get returns a user owned by the caller, or any user for an admin.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	caller, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrUserNotFound)
	if err != nil {
		return err
	}

	user, err := h.service.GetUser(c.Request().Context(), id, caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Create adds a simple user owned by the caller.
//
// @Summary      Create a user
// @Description  A customer owns at most 20 users.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Credentials of the new user"
// @Success      201   {object}  userResponse
// @Header       201   {string}  Location  "Detail URL of the created user"
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	caller, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.service.CreateUser(c.Request().Context(), caller, req.Username, req.Password)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, UserURL(user.ID))
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Update replaces the password of a user owned by the caller.
//
// @Summary      Change a user's password
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int                    true  "User ID"
// @Param        body  body  updatePasswordRequest  true  "New password"
// @Success      204
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	caller, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	var req updatePasswordRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.service.UpdatePassword(c.Request().Context(), id, caller, req.Password); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a user owned by the caller, or any user for an admin.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  int  true  "User ID"
// @Success      204
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	caller, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrUserNotFound)
	if err != nil {
		return err
	}

	if err := h.service.DeleteUser(c.Request().Context(), id, caller); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
