package http

import (
	"errors"
	"net/http"

	"labconsole/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// statusOf maps an application error to the status reported to the client.
// Not found wins over remote failure: a 404 from the lab backend stays a 404.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrRemoteCallFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(ctx echo.Context, err error) error {
	code := statusOf(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "internal server error"
	}
	return ctx.JSON(code, Error{Code: code, Message: message})
}

// NewHTTPErrorHandler renders framework errors (unknown routes, bad
// parameters, request validation) with the same body as handler errors.
func NewHTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			logger.Error().Err(err).Str("path", ctx.Request().URL.Path).Msg("unhandled error")
			if writeErr := errorResponse(ctx, err); writeErr != nil {
				logger.Error().Err(writeErr).Msg("failed to write error response")
			}
			return
		}

		message, ok := he.Message.(string)
		if !ok {
			message = http.StatusText(he.Code)
		}

		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(he.Code)
		} else {
			err = ctx.JSON(he.Code, Error{Code: he.Code, Message: message})
		}
		if err != nil {
			logger.Error().Err(err).Msg("failed to write error response")
		}
	}
}
