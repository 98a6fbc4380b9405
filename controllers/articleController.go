package controllers

import (
	"encomiendas-backend/database"
	"encomiendas-backend/middlewares"
	"encomiendas-backend/models"
	"encomiendas-backend/services"
	"encomiendas-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type articleDTO struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// CreateArticles batch-creates catalog articles for additional service lines.
func CreateArticles(c *fiber.Ctx) error {
	var dtos []articleDTO
	if err := c.BodyParser(&dtos); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(dtos) == 0 {
		return services.NewValidationError("articles", "at least one article is required")
	}
	for i := range dtos {
		utils.NormalizeDTO(&dtos[i])
		if err := middlewares.ValidateStruct(&dtos[i]); err != nil {
			return err
		}
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	articles := make([]models.Article, 0, len(dtos))
	for _, dto := range dtos {
		articles = append(articles, models.Article{
			Name:        dto.Name,
			Description: dto.Description,
			UnitPrice:   dto.UnitPrice,
			Active:      true,
		})
	}
	if err := tenantDB.Create(&articles).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"articles": articles, "message": "success"})
}

func GetArticles(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var articles []models.Article
	if err := tenantDB.Where("active = ?", true).Order("name").Find(&articles).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"articles": articles, "message": "success"})
}

func UpdateArticle(c *fiber.Ctx) error {
	id := c.Params("id")

	var dto articleDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	res := tenantDB.Model(&models.Article{}).Where("id = ?", id).Updates(map[string]any{
		"name":        dto.Name,
		"description": dto.Description,
		"unit_price":  dto.UnitPrice,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &services.NotFoundError{Entity: "article", ID: id}
	}
	return c.JSON(fiber.Map{"message": "success"})
}
