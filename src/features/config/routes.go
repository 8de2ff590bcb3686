package config

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the config API routes.
func RegisterRoutes(app *fiber.App, configManager *Manager) {
	handler := NewHandler(configManager)

	api := app.Group("/api")
	api.Get("/config", handler.GetConfig)
}
