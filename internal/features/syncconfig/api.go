package syncconfig

import (
	"go-cet-sync/internal/common/api"
	"go-cet-sync/internal/config"
	"go-cet-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncConfigApi struct {
	controller *SyncConfigController
	config     *config.Config
}

func NewSyncConfigApi(controller *SyncConfigController, config *config.Config) api.Route {
	return &SyncConfigApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all sync configuration routes
func (h *SyncConfigApi) Setup(app *fiber.App) {
	group := app.Group("/api/sync-configurations", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", h.controller.CreateConfiguration)
	group.Get("/", h.controller.ListConfigurations)
	group.Get("/:id", h.controller.GetConfiguration)
	group.Put("/:id", h.controller.UpdateConfiguration)
	group.Put("/:id/mappings", h.controller.ReplaceMappings)
	group.Delete("/:id", h.controller.DeleteConfiguration)
}
