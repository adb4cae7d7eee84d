package handler // handler defines http handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/song-request-queue/internal/service"
)

// writeEngineError translates engine sentinel errors into the uniform
// {"error": string} envelope with the matching HTTP status.
func writeEngineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrAmountTooLow),
		errors.Is(err, service.ErrPaymentIncomplete):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSpotUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// identity pulls the optional authenticated user id and email resolved
// by the OptionalAuth middleware.  Anonymous checkout is supported, so
// both may be absent.
func identity(c echo.Context) (userID *string, email string) {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		userID = &v
	}
	if v, ok := c.Get("user_email").(string); ok && v != "" {
		email = v
	}
	return userID, email
}
