package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/camano/tidewatch/internal/astro"
	"github.com/camano/tidewatch/internal/config"
	"github.com/camano/tidewatch/internal/tide"
	"github.com/camano/tidewatch/internal/weather"
)

// statusOK wraps a payload in the status envelope the frontend expects.
func statusOK(data interface{}) fiber.Map {
	return fiber.Map{
		"status": "ok",
		"data":   data,
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, cfg *config.Config, tides tide.TideService, astronomy *astro.Service, wx *weather.Service) {
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"location": cfg.LocationName,
		})
	})

	app.Get("/api/config", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"location": fiber.Map{
				"name":                cfg.LocationName,
				"latitude":            cfg.Latitude,
				"longitude":           cfg.Longitude,
				"station_id":          cfg.PredictionStation,
				"observation_station": cfg.ObservationStation,
			},
		})
	})

	app.Get("/api/tide", func(c *fiber.Ctx) error {
		data, err := tides.GetAllTideData(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch tide data")
		}
		return c.JSON(statusOK(data))
	})

	app.Get("/api/tide/current", func(c *fiber.Ctx) error {
		sample, err := tides.GetCurrentWaterLevel(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch current water level")
		}
		if sample == nil {
			return fiber.NewError(fiber.StatusNotFound, "No current data available")
		}
		return c.JSON(statusOK(sample))
	})

	app.Get("/api/tide/predictions", func(c *fiber.Ctx) error {
		days := c.QueryInt("days", 7)
		events, err := tides.GetTideEvents(c.Context(), days)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch tide predictions")
		}
		if len(events) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "No predictions available")
		}
		return c.JSON(statusOK(events))
	})

	app.Get("/api/astronomy", func(c *fiber.Ctx) error {
		data, err := astronomy.GetAstronomyData(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch astronomy data")
		}
		return c.JSON(statusOK(data))
	})

	app.Get("/api/weather", func(c *fiber.Ctx) error {
		data, err := wx.GetWeather(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch weather data")
		}
		return c.JSON(statusOK(data))
	})
}

// New builds the Fiber app with the standard middleware and error
// envelope.
func New(cfg *config.Config, tides tide.TideService, astronomy *astro.Service, wx *weather.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "tidewatch",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		},
	})

	RegisterRoutes(app, cfg, tides, astronomy, wx)
	return app
}
