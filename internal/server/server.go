// Package server exposes workflow sessions, places and location over HTTP.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jask/ecoscope/internal/database/repository"
	"github.com/jask/ecoscope/internal/geo"
	"github.com/jask/ecoscope/internal/service"
	"github.com/jask/ecoscope/internal/workflow"
)

var validate = validator.New()

// PlaceSearcher is the gazetteer lookup used by /places.
type PlaceSearcher interface {
	Search(ctx context.Context, q string, limit int) ([]repository.Place, error)
}

// Deps are the collaborators the routes need. Places may be nil.
type Deps struct {
	Sessions *service.Registry
	Location geo.Source
	Places   PlaceSearcher
}

// New builds the fiber app with middleware, error handler and routes.
func New(d Deps, quiet bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "ecoscope",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	if !quiet {
		app.Use(logger.New())
	}
	RegisterRoutes(app, d)
	return app
}

// errorHandler maps domain sentinels to status codes and renders the error body.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, service.ErrSessionNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidSubmission), errors.Is(err, service.ErrUnknownFacet):
		code = fiber.StatusBadRequest
	case errors.Is(err, workflow.ErrStage), errors.Is(err, service.ErrNotReady):
		code = fiber.StatusConflict
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
