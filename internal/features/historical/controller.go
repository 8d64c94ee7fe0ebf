package historical

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type BackfillController struct {
	Service   BackfillService
	Scheduler Scheduler
}

func NewBackfillController(service BackfillService, scheduler Scheduler) *BackfillController {
	return &BackfillController{
		Service:   service,
		Scheduler: scheduler,
	}
}

// RunBackfill godoc
func (ctrl *BackfillController) RunBackfill(c *fiber.Ctx) error {
	configID := c.Params("configId")

	run, err := ctrl.Service.Run(c.Context(), configID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"data":  run,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Historical sync completed",
		"data":    run,
	})
}

// ListRuns godoc
func (ctrl *BackfillController) ListRuns(c *fiber.Ctx) error {
	configID := c.Query("configuration_id")
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	runs, err := ctrl.Service.ListRuns(c.Context(), configID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": runs,
	})
}

// CreateSchedule godoc
func (ctrl *BackfillController) CreateSchedule(c *fiber.Ctx) error {
	var schedule BackfillSchedule
	if err := c.BodyParser(&schedule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Scheduler.CreateSchedule(c.Context(), &schedule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Backfill schedule created successfully",
		"data":    schedule,
	})
}

// ListSchedules godoc
func (ctrl *BackfillController) ListSchedules(c *fiber.Ctx) error {
	schedules, err := ctrl.Scheduler.ListSchedules(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": schedules,
	})
}

// DeleteSchedule godoc
func (ctrl *BackfillController) DeleteSchedule(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := ctrl.Scheduler.DeleteSchedule(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Backfill schedule deleted successfully",
	})
}
