package controllers

import (
	"errors"

	"encomiendas-backend/database"
	"encomiendas-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// tenantSchema pulls the tenant schema stashed by the auth middleware.
func tenantSchema(c *fiber.Ctx) (string, error) {
	schema, _ := c.Locals("schema").(string)
	if schema == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "could not retrieve tenant schema")
	}
	return schema, nil
}

func actorID(c *fiber.Ctx) string {
	userID, _ := c.Locals("userID").(string)
	return userID
}

// enterpriseForSchema loads the tenant's enterprise row from the public
// schema. Barcode prefixes and fiscal codes come from here.
func enterpriseForSchema(schema string) (*models.Enterprise, error) {
	var ent models.Enterprise
	err := database.DB.Table("public.enterprises").Where("schema_name = ?", schema).First(&ent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "no enterprise for tenant schema")
	}
	if err != nil {
		return nil, err
	}
	return &ent, nil
}
