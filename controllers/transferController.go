package controllers

import (
	"encomiendas-backend/database"
	"encomiendas-backend/middlewares"
	"encomiendas-backend/models"
	"encomiendas-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateTransfer dispatches packages between agencies grouped into sacks.
// Every package-in-sack starts pending.
func CreateTransfer(c *fiber.Ctx) error {
	var in services.TransferInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	schema, err := tenantSchema(c)
	if err != nil {
		return err
	}

	var transfer *models.Transfer
	err = database.SchemaTransaction(schema, func(tx *gorm.DB) error {
		transfer, err = services.CreateTransfer(tx, in)
		return err
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      transfer.ID,
		"status":  transfer.Status(),
		"message": "transfer created",
	})
}

func GetTransfers(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var transfers []models.Transfer
	if err := tenantDB.Preload("Sacks.Packages").Order("created_at DESC").Find(&transfers).Error; err != nil {
		return err
	}

	out := make([]fiber.Map, 0, len(transfers))
	for i := range transfers {
		out = append(out, fiber.Map{
			"id":        transfers[i].ID,
			"number":    transfers[i].Number,
			"from_city": transfers[i].FromCity,
			"to_city":   transfers[i].ToCity,
			"status":    transfers[i].Status(),
		})
	}
	return c.JSON(fiber.Map{"transfers": out, "message": "success"})
}

// GetTransferDetails returns each sack's packages partitioned into pending
// and confirmed, with aggregates recomputed from the custody flags.
func GetTransferDetails(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	transfer, err := services.LoadTransfer(tenantDB, uint(id))
	if err != nil {
		return err
	}
	return c.JSON(services.BuildTransferDetails(transfer))
}

type updateSacksDTO struct {
	Sacks []services.SackUpdateInput `json:"sacks" validate:"required,min=1,dive"`
}

// UpdateSacks applies the full-replace custody payload: each sack's confirmed
// set is authoritative, ids not listed flip back to pending. All sacks in the
// payload update atomically; concurrent submissions serialize on the transfer
// row and the last complete payload wins.
func UpdateSacks(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	var dto updateSacksDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	schema, err := tenantSchema(c)
	if err != nil {
		return err
	}

	var transfer *models.Transfer
	err = database.SchemaTransaction(schema, func(tx *gorm.DB) error {
		transfer, err = services.UpdateSacks(tx, uint(id), dto.Sacks)
		return err
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"ok":     true,
		"status": transfer.Status(),
	})
}
