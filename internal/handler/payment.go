package handler

import (
	"net/http"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/dto"
	"rustic-lights-backend/internal/httputil"
	"rustic-lights-backend/internal/model"
	"rustic-lights-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) STKPush(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.STKPushRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.paymentService.InitiateSTKPush(ctx, &req)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "STK push initiated", result)
}

// STKCallback receives the gateway's asynchronous result. The gateway only
// understands the ResultCode acknowledgment shape and retries anything else,
// so reconciliation problems are handled inside the service and this endpoint
// acknowledges whenever the payload parses.
func (h *PaymentHandler) STKCallback(c echo.Context) error {
	ctx := c.Request().Context()

	var envelope model.STKCallbackEnvelope
	if err := c.Bind(&envelope); err != nil {
		return apperr.InvalidInput("Invalid callback payload")
	}

	if err := h.paymentService.HandleCallback(ctx, &envelope); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ResultCode": 0,
		"ResultDesc": "Accepted",
	})
}
