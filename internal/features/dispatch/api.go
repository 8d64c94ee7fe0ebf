package dispatch

import (
	"go-cet-sync/internal/common/api"
	"go-cet-sync/internal/config"
	"go-cet-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DispatchApi struct {
	controller *DispatchController
	config     *config.Config
}

func NewDispatchApi(controller *DispatchController, config *config.Config) api.Route {
	return &DispatchApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers the trigger-layer facing route
func (h *DispatchApi) Setup(app *fiber.App) {
	group := app.Group("/api/dispatch", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/record-changed", h.controller.RecordChanged)
}
