package middlewares

import (
	"errors"
	"log"

	"encomiendas-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
// Domain errors map onto the taxonomy: validation → 422 field map,
// conflict → 409 (retryable flagged for sequence-race losers), not found →
// 404, artifact failure → 502 with the invoice id so the caller knows the
// document itself committed. Anything else rolls up as an opaque 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 2) Validation errors from the validator (422 + per-field info)
	if ve, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 3) Domain errors
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  vErr.Fields,
		})
	}
	var cErr *services.ConflictError
	if errors.As(err, &cErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":   cErr.Message,
			"retryable": cErr.Retryable,
		})
	}
	var nfErr *services.NotFoundError
	if errors.As(err, &nfErr) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": nfErr.Error()})
	}
	var aErr *services.ArtifactError
	if errors.As(err, &aErr) {
		log.Printf("xml artifact failed: %v", aErr)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message":    "invoice committed but fiscal xml generation failed",
			"invoice_id": aErr.InvoiceID,
		})
	}

	// 4) Unknown errors (500)
	log.Printf("internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
