package handler

import (
	"net/http"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/dto"
	"rustic-lights-backend/internal/httputil"
	"rustic-lights-backend/internal/middleware"
	"rustic-lights-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusCreated, "User created", user)
}

func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tokens, err := h.userService.Login(ctx, &req)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Logged in", tokens)
}

func (h *UserHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tokens, err := h.userService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Token refreshed", tokens)
}

func (h *UserHandler) Logout(c echo.Context) error {
	token, _ := c.Get(middleware.ContextKeyToken).(string)
	if token != "" {
		h.userService.Logout(token)
	}
	return httputil.JSON(c, http.StatusOK, "Logged out", nil)
}

func (h *UserHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "User retrieved", user)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userService.UpdateUser(ctx, userID, &req)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "User updated", user)
}

func (h *UserHandler) DeleteMe(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteUser(ctx, userID); err != nil {
		return err
	}
	// the access token stays valid until expiry, so revoke it now
	if token, _ := c.Get(middleware.ContextKeyToken).(string); token != "" {
		h.userService.Logout(token)
	}
	return httputil.JSON(c, http.StatusOK, "User deleted", nil)
}

func (h *UserHandler) CreateAddress(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.AddressRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	address, err := h.userService.CreateAddress(ctx, userID, &req)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusCreated, "Address created", address)
}

func (h *UserHandler) ListAddresses(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	addresses, err := h.userService.ListAddresses(ctx, userID)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Addresses retrieved", addresses)
}
