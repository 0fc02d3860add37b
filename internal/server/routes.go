package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jask/ecoscope/internal/database/repository"
	"github.com/jask/ecoscope/internal/geo"
	"github.com/jask/ecoscope/internal/service"
	"github.com/jask/ecoscope/internal/workflow"
)

const defaultPlaceLimit = 10

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "sessions": d.Sessions.Len()})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/location", func(c *fiber.Ctx) error {
		res := d.Location.Resolve(c.UserContext())
		return c.JSON(fiber.Map{
			"latitude":  res.Coordinate.Latitude,
			"longitude": res.Coordinate.Longitude,
			"fallback":  res.Fallback,
		})
	})

	v1.Get("/places", func(c *fiber.Ctx) error {
		if d.Places == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "places database not configured")
		}
		var q placesQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		places, err := d.Places.Search(c.UserContext(), q.Q, q.Limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to search places")
		}
		if places == nil {
			places = []repository.Place{}
		}
		return c.JSON(fiber.Map{"query": q.Q, "places": places})
	})

	sessions := v1.Group("/sessions")

	sessions.Post("/", func(c *fiber.Ctx) error {
		s := d.Sessions.Create()
		return c.Status(fiber.StatusCreated).JSON(sessionBody(s.ID.String(), s.Snapshot()))
	})

	sessions.Get("/:id", withSession(d.Sessions, func(c *fiber.Ctx, s *service.Session) error {
		return c.JSON(sessionBody(s.ID.String(), s.Snapshot()))
	}))

	sessions.Post("/:id/submit", withSession(d.Sessions, func(c *fiber.Ctx, s *service.Session) error {
		var req submitRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		snap, err := s.Submit(req.Query, req.coordinate())
		if err != nil {
			return err
		}
		return c.JSON(sessionBody(s.ID.String(), snap))
	}))

	sessions.Post("/:id/continue", withSession(d.Sessions, func(c *fiber.Ctx, s *service.Session) error {
		snap, err := s.Continue()
		if err != nil {
			return err
		}
		return c.JSON(sessionBody(s.ID.String(), snap))
	}))

	sessions.Post("/:id/back", withSession(d.Sessions, func(c *fiber.Ctx, s *service.Session) error {
		snap, err := s.Back()
		if err != nil {
			return err
		}
		return c.JSON(sessionBody(s.ID.String(), snap))
	}))

	sessions.Post("/:id/restart", withSession(d.Sessions, func(c *fiber.Ctx, s *service.Session) error {
		return c.JSON(sessionBody(s.ID.String(), s.Restart()))
	}))

	sessions.Put("/:id/facet", withSession(d.Sessions, func(c *fiber.Ctx, s *service.Session) error {
		var req facetRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		snap, err := s.Select(workflow.Facet(req.Facet))
		if err != nil {
			return err
		}
		return c.JSON(sessionBody(s.ID.String(), snap))
	}))
}

func withSession(r *service.Registry, fn func(*fiber.Ctx, *service.Session) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := r.Get(c.Params("id"))
		if err != nil {
			return err
		}
		return fn(c, s)
	}
}

type sessionResponse struct {
	ID string `json:"id"`
	workflow.Snapshot
}

func sessionBody(id string, snap workflow.Snapshot) sessionResponse {
	return sessionResponse{ID: id, Snapshot: snap}
}

// submitRequest leaves range checks to the submission gate; a missing pair
// becomes a nil coordinate and is rejected there.
type submitRequest struct {
	Query     string   `json:"query"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

func (r submitRequest) coordinate() *geo.Coordinate {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &geo.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type facetRequest struct {
	Facet string `json:"facet" validate:"required"`
}

type placesQuery struct {
	Q     string
	Limit int `validate:"gte=1,lte=100"`
}

func (p *placesQuery) bind(c *fiber.Ctx) error {
	p.Q = c.Query("q")
	p.Limit = defaultPlaceLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		p.Limit = n
	}
	return validate.Struct(p)
}
