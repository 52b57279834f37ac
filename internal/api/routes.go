package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func SetupRoutes(app *fiber.App, handler *Handler) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT",
	}))
	app.Use(logger.New(logger.Config{
		Format:     "${time} ${pid} ${locals:requestid} ${status} - ${method} ${path}\n",
		TimeFormat: time.RFC3339,
	}))

	api := app.Group("/api/v1")

	api.Get("/health", handler.GetHealth)

	locations := api.Group("/locations")
	locations.Get("/", handler.GetLocations)
	locations.Get("/search", handler.SearchLocations)
	locations.Put("/:id", handler.PutLocation)

	weather := api.Group("/weather")
	weather.Post("/refresh", handler.RefreshAll)
	weather.Post("/:id/refresh", handler.RefreshLocation)
	weather.Get("/:id/properties", handler.GetProperties)

	api.Get("/conditions/:code", handler.GetCondition)

	convert := api.Group("/convert")
	convert.Get("/temperature", handler.ConvertTemperature)
	convert.Get("/wind", handler.ConvertWind)
	convert.Get("/direction", handler.ConvertDirection)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Endpoint not found",
			"path":    c.Path(),
			"success": false,
		})
	})
}
