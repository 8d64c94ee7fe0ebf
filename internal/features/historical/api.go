package historical

import (
	"go-cet-sync/internal/common/api"
	"go-cet-sync/internal/config"
	"go-cet-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type BackfillApi struct {
	controller *BackfillController
	config     *config.Config
}

func NewBackfillApi(controller *BackfillController, config *config.Config) api.Route {
	return &BackfillApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all backfill routes
func (h *BackfillApi) Setup(app *fiber.App) {
	group := app.Group("/api/backfills", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/run/:configId", h.controller.RunBackfill)
	group.Get("/runs", h.controller.ListRuns)
	group.Post("/schedules", h.controller.CreateSchedule)
	group.Get("/schedules", h.controller.ListSchedules)
	group.Delete("/schedules/:id", h.controller.DeleteSchedule)
}
