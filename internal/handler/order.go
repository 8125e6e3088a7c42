package handler

import (
	"net/http"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/httputil"
	"rustic-lights-backend/internal/middleware"
	"rustic-lights-backend/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.Checkout(ctx, userID)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusCreated, "Order created", order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListOrdersForUser(ctx, userID)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Orders retrieved", orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.InvalidInput("Invalid order id")
	}

	order, err := h.orderService.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Order retrieved", order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.InvalidInput("Invalid order id")
	}
	status := c.QueryParam("status")
	if status == "" {
		return apperr.InvalidInput("Status is required")
	}

	order, err := h.orderService.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Order status updated", order)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.InvalidInput("Invalid order id")
	}

	if err := h.orderService.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Order deleted", nil)
}
