package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/localloop/localloop-backend/internal/dto"
	"github.com/localloop/localloop-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ConfigHandler serves the key/value configuration the PWA reads at boot.
// Reads are public; writes are admin-only.
type ConfigHandler struct {
	db *gorm.DB
}

func NewConfigHandler(db *gorm.DB) *ConfigHandler {
	return &ConfigHandler{db: db}
}

func (h *ConfigHandler) GetConfig(c *fiber.Ctx) error {
	var configs []models.ClientConfig
	if err := h.db.Find(&configs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch configuration",
		})
	}

	result := make(map[string]json.RawMessage, len(configs))
	for _, cfg := range configs {
		result[cfg.Key] = json.RawMessage(cfg.Value)
	}
	return c.JSON(result)
}

// SetConfigKey upserts a key. The request body is the raw JSON value.
func (h *ConfigHandler) SetConfigKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Key parameter is required",
		})
	}

	body := c.Body()
	if !json.Valid(body) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Body must be valid JSON",
		})
	}

	var config models.ClientConfig
	err := h.db.Where("key = ?", key).First(&config).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		config = models.ClientConfig{
			ID:    uuid.New(),
			Key:   key,
			Value: datatypes.JSON(body),
		}
		if err := h.db.Create(&config).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to create config",
			})
		}
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to query config",
		})
	default:
		config.Value = datatypes.JSON(body)
		if err := h.db.Save(&config).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to update config",
			})
		}
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Config updated successfully",
		"config": fiber.Map{
			"key":   config.Key,
			"value": json.RawMessage(config.Value),
		},
	})
}

func (h *ConfigHandler) DeleteConfigKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Key parameter is required",
		})
	}

	result := h.db.Where("key = ?", key).Delete(&models.ClientConfig{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete config",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Config not found",
		})
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Config deleted successfully",
	})
}

// SeedDefaults inserts the keys the client expects, leaving existing values
// alone.
func (h *ConfigHandler) SeedDefaults() error {
	defaults := map[string]interface{}{
		"categories":       models.TipCategories,
		"category_colors":  models.CategoryColors,
		"expiration_days":  7,
		"map_center":       map[string]float64{"lat": 40.7128, "lng": -74.006},
		"map_zoom":         14,
		"maintenance_mode": false,
	}

	for key, value := range defaults {
		var existing models.ClientConfig
		err := h.db.Where("key = ?", key).First(&existing).Error
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			if err != nil {
				return err
			}
			continue
		}

		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		record := models.ClientConfig{
			ID:    uuid.New(),
			Key:   key,
			Value: datatypes.JSON(raw),
		}
		if err := h.db.Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}
