package server

import (
	"fmt"
	"log"
	"strings"

	"github.com/MicahParks/keyfunc"
	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/ozroads/highways-h3/src/project_types"
	"github.com/ozroads/highways-h3/src/utils"
	h3 "github.com/uber/h3-go/v3"
)

var validate = validator.New()

func jwtMiddleware(jwks *keyfunc.JWKS) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).SendString("missing bearer token")
		}
		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), jwks.Keyfunc)
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).SendString("invalid token")
		}
		return c.Next()
	}
}

// NewApp builds the read-only coverage API. jwks is optional; when set every
// route except the health check requires a verified token.
func NewApp(coverage project_types.CoverageSet, jwks *keyfunc.JWKS) *fiber.App {
	app := fiber.New()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Healthy")
	})

	if jwks != nil {
		app.Use(jwtMiddleware(jwks))
	}

	app.Post("/covered", func(c *fiber.Ctx) error {
		payload := struct {
			Tiles []string `json:"tiles" validate:"required"`
		}{}

		if err := c.BodyParser(&payload); err != nil {
			return err
		}
		if err := validate.Struct(payload); err != nil {
			return err
		}

		covered := map[string]bool{}
		for _, tile := range payload.Tiles {
			_, ok := coverage[tile]
			covered[tile] = ok
		}
		return c.JSON(covered)
	})

	app.Post("/density", func(c *fiber.Ctx) error {
		payload := struct {
			Tiles []string `json:"tiles" validate:"required"`
		}{}

		if err := c.BodyParser(&payload); err != nil {
			return err
		}
		if err := validate.Struct(payload); err != nil {
			return err
		}

		density := map[string]int{}
		for _, tile := range payload.Tiles {
			density[tile] = coverage[tile]
		}
		return c.JSON(density)
	})

	app.Post("/ring", func(c *fiber.Ctx) error {
		payload := struct {
			Tile   string `json:"tile" validate:"required"`
			Radius int    `json:"radius"`
		}{}

		if err := c.BodyParser(&payload); err != nil {
			return err
		}
		if err := validate.Struct(payload); err != nil {
			return err
		}

		cells := map[string]int{}
		for _, h := range h3.KRing(h3.FromString(payload.Tile), payload.Radius) {
			cell := h3.ToString(h)
			if hits, ok := coverage[cell]; ok {
				cells[cell] = hits
			}
		}
		return c.JSON(cells)
	})

	app.Get("/border", func(c *fiber.Ctx) error {
		return c.JSON(utils.CoverageBorder(coverage))
	})

	app.Get("/stats", func(c *fiber.Ctx) error {
		resolution := coverage.Resolution()
		share := 0.0
		if size, ok := project_types.ResolutionSizes[resolution]; ok {
			share = float64(len(coverage)) / float64(size)
		}
		return c.JSON(fiber.Map{
			"cells":      len(coverage),
			"resolution": resolution,
			"maxHits":    coverage.MaxHits(),
			"gridShare":  share,
		})
	})

	return app
}

func RunServer(coverage project_types.CoverageSet, jwks *keyfunc.JWKS, port int) {
	app := NewApp(coverage, jwks)
	log.Fatal(app.Listen(fmt.Sprintf(":%d", port)))
}
