package handler

import (
	"net/http"
	"strconv"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/httputil"
	"rustic-lights-backend/internal/middleware"
	"rustic-lights-backend/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	productID, err := uuid.Parse(c.QueryParam("productId"))
	if err != nil {
		return apperr.InvalidInput("Invalid product id")
	}

	quantity := 1
	if raw := c.QueryParam("quantity"); raw != "" {
		quantity, err = strconv.Atoi(raw)
		if err != nil {
			return apperr.InvalidInput("Invalid quantity")
		}
	}

	cart, err := h.cartService.AddItem(ctx, userID, productID, quantity)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusCreated, "Product added to cart", cart)
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	cart, err := h.cartService.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Cart retrieved", cart)
}

func (h *CartHandler) SetItemQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return apperr.InvalidInput("Invalid product id")
	}
	quantity, err := strconv.Atoi(c.QueryParam("quantity"))
	if err != nil {
		return apperr.InvalidInput("Invalid quantity")
	}

	cart, err := h.cartService.SetItemQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Product quantity updated", cart)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	productID, err := uuid.Parse(c.QueryParam("productId"))
	if err != nil {
		return apperr.InvalidInput("Invalid product id")
	}

	cart, err := h.cartService.RemoveItem(ctx, userID, productID)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Product deleted from cart", cart)
}
