package connection

import (
	"go-cet-sync/internal/common/api"
	"go-cet-sync/internal/config"
	"go-cet-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ConnectionApi struct {
	controller *ConnectionController
	config     *config.Config
}

func NewConnectionApi(controller *ConnectionController, config *config.Config) api.Route {
	return &ConnectionApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all connection routes
func (h *ConnectionApi) Setup(app *fiber.App) {
	group := app.Group("/api/connections", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", h.controller.CreateConnection)
	group.Get("/", h.controller.ListConnections)
	group.Get("/:id", h.controller.GetConnection)
	group.Put("/:id", h.controller.UpdateConnection)
	group.Delete("/:id", h.controller.DeleteConnection)
}
