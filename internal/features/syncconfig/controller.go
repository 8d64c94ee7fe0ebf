package syncconfig

import (
	"github.com/gofiber/fiber/v2"
)

type SyncConfigController struct {
	Service SyncConfigService
}

func NewSyncConfigController(service SyncConfigService) *SyncConfigController {
	return &SyncConfigController{
		Service: service,
	}
}

type configurationRequest struct {
	SyncConfiguration
	Mappings []FieldMapping `json:"mappings"`
}

// CreateConfiguration godoc
func (ctrl *SyncConfigController) CreateConfiguration(c *fiber.Ctx) error {
	var req configurationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.CreateConfiguration(c.Context(), &req.SyncConfiguration, req.Mappings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Sync configuration created successfully",
		"data":    req.SyncConfiguration,
	})
}

// ListConfigurations godoc
func (ctrl *SyncConfigController) ListConfigurations(c *fiber.Ctx) error {
	cfgs, err := ctrl.Service.ListConfigurations(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": cfgs,
	})
}

// GetConfiguration godoc
func (ctrl *SyncConfigController) GetConfiguration(c *fiber.Ctx) error {
	id := c.Params("id")

	cfg, mappings, err := ctrl.Service.GetConfiguration(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data":     cfg,
		"mappings": mappings,
	})
}

// UpdateConfiguration godoc
func (ctrl *SyncConfigController) UpdateConfiguration(c *fiber.Ctx) error {
	id := c.Params("id")

	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.UpdateConfiguration(c.Context(), id, updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Sync configuration updated successfully",
	})
}

// ReplaceMappings godoc
func (ctrl *SyncConfigController) ReplaceMappings(c *fiber.Ctx) error {
	id := c.Params("id")

	var mappings []FieldMapping
	if err := c.BodyParser(&mappings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.ReplaceMappings(c.Context(), id, mappings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Field mappings updated successfully",
	})
}

// DeleteConfiguration godoc
func (ctrl *SyncConfigController) DeleteConfiguration(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := ctrl.Service.DeleteConfiguration(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Sync configuration deleted successfully",
	})
}
