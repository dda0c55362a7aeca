package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bilemo/catalog-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Code      int                `json:"code"`
	Message   string             `json:"message,omitempty"`
	Errors    []domain.Violation `json:"errors,omitempty"`
	ErrorCode string             `json:"errorCode,omitempty"`
}

// statusMessages are the fixed messages of errors that carry none of their own.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "the request cannot be processed",
	http.StatusUnauthorized:        "authentication failed",
	http.StatusForbidden:           "access to this resource is not allowed",
	http.StatusNotFound:            "the resource does not exist",
	http.StatusMethodNotAllowed:    "the HTTP method is not supported by the API",
	http.StatusNotAcceptable:       "the server cannot satisfy the request headers",
	http.StatusTooManyRequests:     "too many requests, retry later",
	http.StatusInternalServerError: "the server encountered a problem",
}

func statusMessage(code int) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return http.StatusText(code)
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Renders validation failures as itemized field errors.
//   - Logs unexpected errors with a reference code, without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		res := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(res.Code)
			return
		}
		_ = c.JSON(res.Code, res)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) errorResponse {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return errorResponse{Code: http.StatusBadRequest, Errors: ve.Violations}
	}

	var fe *domain.ForbiddenError
	if errors.As(err, &fe) {
		return errorResponse{Code: http.StatusForbidden, Message: fe.Reason}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrMalformedBody):
		return errorResponse{Code: http.StatusBadRequest, Message: "the request body is not valid JSON"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return errorResponse{Code: http.StatusUnauthorized, Message: "invalid credentials"}
	case errors.Is(err, domain.ErrQuotaExceeded):
		return errorResponse{Code: http.StatusForbidden, Message: fmt.Sprintf("you already own the maximum of %d users", domain.OwnedUsersQuota)}
	case errors.Is(err, domain.ErrForbidden):
		return errorResponse{Code: http.StatusForbidden, Message: statusMessage(http.StatusForbidden)}
	case errors.Is(err, domain.ErrPageOutOfRange):
		return errorResponse{Code: http.StatusNotFound, Message: "page does not exist"}
	case errors.Is(err, domain.ErrProductNotFound):
		return errorResponse{Code: http.StatusNotFound, Message: "product not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return errorResponse{Code: http.StatusNotFound, Message: "user not found"}
	}

	// Echo's own errors (auth middleware, unknown route, wrong method, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		msg, ok := he.Message.(string)
		if !ok || msg == http.StatusText(he.Code) {
			msg = statusMessage(he.Code)
		}
		return errorResponse{Code: he.Code, Message: msg}
	}

	// Unexpected error: log the real cause, return a generic message.
	ref := uuid.NewString()
	log.Error().
		Err(err).
		Str("error_code", ref).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return errorResponse{
		Code:      http.StatusInternalServerError,
		Message:   statusMessage(http.StatusInternalServerError),
		ErrorCode: ref,
	}
}
