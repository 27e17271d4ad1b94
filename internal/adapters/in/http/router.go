package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const (
	// UploadField is the multipart part carrying the scanned report.
	UploadField = "file"

	// BodyLimit bounds request bodies, scanned reports included.
	BodyLimit = "20M"
)

// NewRouter builds the echo instance serving the console API, its OpenAPI
// document and the swagger UI.
func NewRouter(ctx context.Context, server ServerInterface, logger zerolog.Logger) (*echo.Echo, error) {
	doc, err := LoadSwagger(ctx)
	if err != nil {
		return nil, err
	}
	validator, err := OpenAPIValidator(doc)
	if err != nil {
		return nil, err
	}
	if err = RegisterSwagger(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)

	e.Use(RequestID())
	e.Use(Logger(logger))
	e.Use(Recovery(logger))
	e.Use(middleware.BodyLimit(BodyLimit))
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", OpenAPIDocument())
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	RegisterHandlers(e, server)

	return e, nil
}
