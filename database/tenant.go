package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetTenantDB returns the per-request transaction opened by
// middlewares.TenantTx. All tenant reads run inside that transaction: SET
// LOCAL search_path pins the schema to exactly the connection and lifetime of
// the transaction. A plain pooled session cannot give that guarantee (the SET
// and the later queries may land on different connections), so there is no
// fallback here.
func GetTenantDB(c *fiber.Ctx) (*gorm.DB, error) {
	if v := c.Locals("tx"); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx, nil
		}
	}
	return nil, errors.New("no tenant transaction on request")
}

// SchemaTransaction runs fn inside its own short transaction pinned to the
// tenant schema. Document controllers use this where the commit boundary
// matters (reception creation, invoice generation, sack custody updates);
// SET LOCAL reverts with the transaction so pooled connections never leak a
// tenant's search_path.
func SchemaTransaction(schema string, fn func(tx *gorm.DB) error) error {
	if strings.TrimSpace(schema) == "" {
		return errors.New("tenant schema missing")
	}
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`SET LOCAL search_path = "` + schema + `", public`).Error; err != nil {
			return fmt.Errorf("set search_path failed: %w", err)
		}
		return fn(tx)
	})
}
