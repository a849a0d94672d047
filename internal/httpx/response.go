package httpx

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"vidhub/internal/apperr"
	"vidhub/internal/logging"
)

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func OK(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// ErrorHandler is the single translation boundary from domain errors to the
// response envelope. Wire it as echo's HTTPErrorHandler.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"
	var problems []string

	var vErr *apperr.ValidationError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &vErr):
		status = http.StatusBadRequest
		message = "validation failed"
		problems = vErr.Problems
	case errors.Is(err, apperr.ErrDuplicateIdentity):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperr.ErrInvalidCredentials),
		errors.Is(err, apperr.ErrUnauthorized),
		errors.Is(err, apperr.ErrInvalidToken),
		errors.Is(err, apperr.ErrTokenReuse):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	}

	if status >= http.StatusInternalServerError {
		l := logging.FromContext(c.Request().Context())
		l.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, Envelope{Success: false, Message: message, Errors: problems})
}
