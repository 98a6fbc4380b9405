package controllers

import (
	"errors"
	"time"

	"encomiendas-backend/database"
	"encomiendas-backend/middlewares"
	"encomiendas-backend/models"
	"encomiendas-backend/services"
	"encomiendas-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NextReceptionNumber previews the number the next reception will take.
// Purely informational: creation allocates its own number under the tenant
// lock, so the preview can go stale but never causes a collision.
func NextReceptionNumber(c *fiber.Ctx) error {
	schema, err := tenantSchema(c)
	if err != nil {
		return err
	}

	var number string
	err = database.SchemaTransaction(schema, func(tx *gorm.DB) error {
		number, err = services.NextReceptionNumber(tx)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"number": number})
}

// CreateReception prices and persists a reception with its packages, items
// and additionals as one atomic unit. A sequence-race loser (duplicate
// number) retries once with a freshly allocated number.
func CreateReception(c *fiber.Ctx) error {
	var in services.ReceptionInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	schema, err := tenantSchema(c)
	if err != nil {
		return err
	}
	ent, err := enterpriseForSchema(schema)
	if err != nil {
		return err
	}

	var created *models.Reception
	for attempt := 0; ; attempt++ {
		err = database.SchemaTransaction(schema, func(tx *gorm.DB) error {
			for _, clientID := range []uint{in.SenderID, in.RecipientID} {
				var count int64
				if err := tx.Model(&models.Client{}).Where("id = ?", clientID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return &services.NotFoundError{Entity: "client", ID: clientID}
				}
			}

			var destRate *float64
			if in.AgencyDestID != nil {
				var agency models.Agency
				if err := tx.First(&agency, *in.AgencyDestID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return &services.NotFoundError{Entity: "agency", ID: *in.AgencyDestID}
					}
					return err
				}
				destRate = &agency.Value
			}

			number, err := services.NextReceptionNumber(tx)
			if err != nil {
				return err
			}
			rec, err := services.BuildReception(in, number, ent, destRate, time.Now())
			if err != nil {
				return err
			}
			if err := tx.Create(rec).Error; err != nil {
				return err
			}
			created = rec
			return nil
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt == 0 {
			continue
		}
		break
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &services.ConflictError{Message: "reception number collision, retry", Retryable: true}
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      created.ID,
		"number":  created.Number,
		"message": "reception created",
	})
}

func GetReceptions(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	var receptions []models.Reception
	if err := tenantDB.Preload("Sender").Preload("Recipient").
		Order("date_time DESC").Limit(limit).Offset(offset).
		Find(&receptions).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"receptions": receptions, "message": "success"})
}

func GetReception(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var rec models.Reception
	e := tenantDB.Preload("Packages.Items").Preload("Additionals").
		Preload("Sender").Preload("Recipient").
		Preload("AgencyOrigin").Preload("AgencyDest").
		First(&rec, id).Error
	if errors.Is(e, gorm.ErrRecordNotFound) {
		return &services.NotFoundError{Entity: "reception", ID: id}
	}
	if e != nil {
		return e
	}
	return c.JSON(rec)
}

type receptionUpdateDTO struct {
	Route     *string  `json:"route"`
	PayMethod *string  `json:"pay_method" validate:"omitempty,oneof=EFECTIVO TARJETA TRANSFERENCIA"`
	CashRecv  *float64 `json:"cash_recv" validate:"omitempty,gte=0"`
}

// UpdateReception adjusts route/payment fields of a live reception. Annulled
// receptions reject every mutation.
func UpdateReception(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	var dto receptionUpdateDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&dto)

	schema, err := tenantSchema(c)
	if err != nil {
		return err
	}

	return database.SchemaTransaction(schema, func(tx *gorm.DB) error {
		var rec models.Reception
		e := tx.First(&rec, id).Error
		if errors.Is(e, gorm.ErrRecordNotFound) {
			return &services.NotFoundError{Entity: "reception", ID: id}
		}
		if e != nil {
			return e
		}
		if err := services.GuardMutable(&rec); err != nil {
			return err
		}

		updates := utils.UpdatesFromPtrDTO(&dto, nil)
		if dto.CashRecv != nil {
			change := utils.Round2(*dto.CashRecv - rec.Total)
			if change < 0 {
				change = 0
			}
			if (dto.PayMethod != nil && *dto.PayMethod == services.PayCash) ||
				(dto.PayMethod == nil && rec.PayMethod == services.PayCash) {
				if *dto.CashRecv < rec.Total {
					return services.NewValidationError("cash_recv", "cash received is less than total")
				}
			}
			updates["change"] = change
		}
		if len(updates) == 0 {
			return c.JSON(fiber.Map{"message": "nothing to update"})
		}
		if err := tx.Model(&models.Reception{}).Where("id = ?", rec.ID).Updates(updates).Error; err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "success"})
	})
}

type annulDTO struct {
	Reason string `json:"reason"`
}

// AnnulReception marks a reception annulled. Idempotent: annulling twice
// succeeds and leaves the original annulment timestamp untouched.
func AnnulReception(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	var dto annulDTO
	_ = c.BodyParser(&dto) // body is optional

	schema, err := tenantSchema(c)
	if err != nil {
		return err
	}

	var rec *models.Reception
	err = database.SchemaTransaction(schema, func(tx *gorm.DB) error {
		rec, err = services.AnnulReception(tx, uint(id), actorID(c), dto.Reason)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":  "reception annulled",
		"number":   rec.Number,
		"annulled": rec.Annulled,
	})
}
