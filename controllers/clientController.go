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

type clientCreateDTO struct {
	Identification string `json:"identification" validate:"required"`
	FirstName      string `json:"first_name" validate:"required"`
	LastName       string `json:"last_name" validate:"required"`
	PhoneNumber    string `json:"phone_number" validate:"required"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Country        string `json:"country"`
	Email          string `json:"email" validate:"omitempty,email"`
}

type clientUpdateDTO struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
	Email       *string `json:"email"`
}

// CreateClient registers a sender/recipient.
func CreateClient(c *fiber.Ctx) error {
	var dto clientCreateDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	client := models.Client{
		Identification: dto.Identification,
		FirstName:      dto.FirstName,
		LastName:       dto.LastName,
		PhoneNumber:    dto.PhoneNumber,
		Address:        dto.Address,
		City:           dto.City,
		Country:        dto.Country,
		Email:          dto.Email,
		Active:         true,
	}
	if err := tenantDB.Create(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &services.ConflictError{Message: "identification already registered"}
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

func GetClients(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var clients []models.Client
	if err := tenantDB.Where("active = ?", true).Order("last_name, first_name").Find(&clients).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"clients": clients, "message": "success"})
}

func GetClient(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var client models.Client
	if err := tenantDB.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &services.NotFoundError{Entity: "client", ID: id}
		}
		return err
	}
	return c.JSON(client)
}

// UpdateClient applies a partial update: only fields present in the payload
// change.
func UpdateClient(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var dto clientUpdateDTO
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

	res := tenantDB.Model(&models.Client{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &services.NotFoundError{Entity: "client", ID: id}
	}
	return c.JSON(fiber.Map{"message": "success"})
}
