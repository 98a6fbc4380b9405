package controllers

import (
	"errors"

	"encomiendas-backend/database"
	"encomiendas-backend/middlewares"
	"encomiendas-backend/models"
	"encomiendas-backend/services"
	"encomiendas-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type agencyCreateDTO struct {
	Name     string  `json:"name" validate:"required"`
	Province string  `json:"province" validate:"required"`
	City     string  `json:"city" validate:"required"`
	Country  string  `json:"country" validate:"required"`
	Address  string  `json:"address"`
	Phone    string  `json:"phone"`
	Value    float64 `json:"value" validate:"gte=0"`
}

type agencyUpdateDTO struct {
	Name     *string  `json:"name"`
	Province *string  `json:"province"`
	City     *string  `json:"city"`
	Country  *string  `json:"country"`
	Address  *string  `json:"address"`
	Phone    *string  `json:"phone"`
	Value    *float64 `json:"value"`
}

// CreateAgency registers an office; Value is its per-pound destination
// transport rate.
func CreateAgency(c *fiber.Ctx) error {
	var dto agencyCreateDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	agency := models.Agency{
		Name:     dto.Name,
		Province: dto.Province,
		City:     dto.City,
		Country:  dto.Country,
		Address:  dto.Address,
		Phone:    dto.Phone,
		Value:    dto.Value,
		Active:   true,
	}
	if err := tenantDB.Create(&agency).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &services.ConflictError{Message: "agency name already registered"}
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(agency)
}

func GetAgencies(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var agencies []models.Agency
	if err := tenantDB.Where("active = ?", true).Order("name").Find(&agencies).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"agencies": agencies, "message": "success"})
}

func UpdateAgency(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var dto agencyUpdateDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&dto)

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	updates := utils.UpdatesFromPtrDTO(&dto, nil)
	if len(updates) == 0 {
		return c.JSON(fiber.Map{"message": "nothing to update"})
	}

	res := tenantDB.Model(&models.Agency{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &services.NotFoundError{Entity: "agency", ID: id}
	}
	return c.JSON(fiber.Map{"message": "success"})
}
