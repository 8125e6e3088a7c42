package httputil

import (
	"net/http"

	"rustic-lights-backend/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func JSON(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Response{Status: true, Message: message, Data: data})
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, Response{Status: false, Message: message})
}

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, "invalid request payload", err)
	}
	return nil
}

// ErrorHandler maps apperr kinds to status codes and the response envelope.
// Upstream gateway details are logged but never sent to the client.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if httpErr, ok := err.(*echo.HTTPError); ok {
			_ = fail(c, httpErr.Code, http.StatusText(httpErr.Code))
			return
		}

		code := http.StatusInternalServerError
		switch apperr.KindOf(err) {
		case apperr.KindNotFound:
			code = http.StatusNotFound
		case apperr.KindInvalidInput:
			code = http.StatusBadRequest
		case apperr.KindUnauthorized:
			code = http.StatusUnauthorized
		case apperr.KindConflict:
			code = http.StatusConflict
		case apperr.KindUpstreamAuth, apperr.KindUpstreamPayment:
			code = http.StatusBadGateway
		}

		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		_ = fail(c, code, apperr.Message(err))
	}
}
