package dispatch

import (
	"go-cet-sync/internal/features/record"

	"github.com/gofiber/fiber/v2"
)

type DispatchController struct {
	Service DispatchService
}

func NewDispatchController(service DispatchService) *DispatchController {
	return &DispatchController{
		Service: service,
	}
}

type recordChangedRequest struct {
	EntityType string         `json:"entity_type"`
	Record     map[string]any `json:"record"`
	// Previous field values are accepted for every update; delta filtering
	// is the trigger layer's job, not ours.
	Previous map[string]any `json:"previous,omitempty"`
}

// RecordChanged godoc
func (ctrl *DispatchController) RecordChanged(c *fiber.Ctx) error {
	var req recordChangedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.EntityType == "" || req.Record == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "entity_type and record are required",
		})
	}

	ctrl.Service.OnRecordChanged(c.Context(), record.EntityType(req.EntityType), record.SourceRecord(req.Record))

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Record change accepted",
	})
}
