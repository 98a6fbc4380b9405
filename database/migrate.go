package database

import (
	"fmt"

	"encomiendas-backend/models"

	"gorm.io/gorm"
)

// MigrateTenantSchema applies (idempotent) schema migrations for a single
// tenant schema. It pins search_path to the tenant and performs:
// - AutoMigrate (tables/columns)
// - Money column types (NUMERIC(12,2))
// - Unique indexes backing the document sequences and sack custody invariant
// - Foreign key: additionals.article_id → articles.id
// - Basic CHECK constraints
// - Idempotency keys table + unique index
func MigrateTenantSchema(schema string) error {
	if schema == "" {
		return fmt.Errorf("schema name is empty")
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		// Pin the tenant schema for this transaction
		if err := tx.Exec(`SET search_path = "` + schema + `", public`).Error; err != nil {
			return fmt.Errorf("set search_path failed: %w", err)
		}

		// --- AutoMigrate tables/columns/index tags (non-destructive) ---
		if err := tx.AutoMigrate(
			&models.Client{},
			&models.Agency{},
			&models.Article{},
			&models.Reception{},
			&models.Package{},
			&models.PackageItem{},
			&models.Additional{},
			&models.ReceptionSnapshot{},
			&models.Invoice{},
			&models.InvoiceDetail{},
			&models.Transfer{},
			&models.Sack{},
			&models.SackPackage{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("tenant automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE agencies        ALTER COLUMN value      TYPE numeric(12,2)`,
			`ALTER TABLE articles        ALTER COLUMN unit_price TYPE numeric(12,2)`,
			`ALTER TABLE receptions      ALTER COLUMN pkg_total  TYPE numeric(12,2)`,
			`ALTER TABLE receptions      ALTER COLUMN ins_pkg    TYPE numeric(12,2)`,
			`ALTER TABLE receptions      ALTER COLUMN packaging  TYPE numeric(12,2)`,
			`ALTER TABLE receptions      ALTER COLUMN ship_ins   TYPE numeric(12,2)`,
			`ALTER TABLE receptions      ALTER COLUMN clearance  TYPE numeric(12,2)`,
			`ALTER TABLE receptions      ALTER COLUMN trans_dest TYPE numeric(12,2)`,
			`ALTER TABLE receptions      ALTER COLUMN transmit   TYPE numeric(12,2)`,
			`ALTER TABLE receptions      ALTER COLUMN subtotal   TYPE numeric(12,2)`,
			`ALTER TABLE receptions      ALTER COLUMN vat15      TYPE numeric(12,2)`,
			`ALTER TABLE receptions      ALTER COLUMN total      TYPE numeric(12,2)`,
			`ALTER TABLE receptions      ALTER COLUMN cash_recv  TYPE numeric(12,2)`,
			`ALTER TABLE receptions      ALTER COLUMN change     TYPE numeric(12,2)`,
			`ALTER TABLE packages        ALTER COLUMN total      TYPE numeric(12,2)`,
			`ALTER TABLE packages        ALTER COLUMN decl_val   TYPE numeric(12,2)`,
			`ALTER TABLE packages        ALTER COLUMN ins_val    TYPE numeric(12,2)`,
			`ALTER TABLE package_items   ALTER COLUMN unit_price TYPE numeric(12,2)`,
			`ALTER TABLE package_items   ALTER COLUMN decl_val   TYPE numeric(12,2)`,
			`ALTER TABLE package_items   ALTER COLUMN ins_val    TYPE numeric(12,2)`,
			`ALTER TABLE additionals     ALTER COLUMN unit_price TYPE numeric(12,2)`,
			`ALTER TABLE additionals     ALTER COLUMN total      TYPE numeric(12,2)`,
			`ALTER TABLE invoices        ALTER COLUMN subtotal   TYPE numeric(12,2)`,
			`ALTER TABLE invoices        ALTER COLUMN vat        TYPE numeric(12,2)`,
			`ALTER TABLE invoices        ALTER COLUMN total      TYPE numeric(12,2)`,
			`ALTER TABLE invoice_details ALTER COLUMN unit_price TYPE numeric(12,2)`,
			`ALTER TABLE invoice_details ALTER COLUMN subtotal   TYPE numeric(12,2)`,
			`ALTER TABLE invoice_details ALTER COLUMN vat        TYPE numeric(12,2)`,
			`ALTER TABLE invoice_details ALTER COLUMN total      TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Unique / helpful indexes (idempotent) ---
		// receptions.number and invoices.(reception_id, sequential, number,
		// access_key) are the sequence-race backstops; sack_packages.package_id
		// is the one-sack-per-package invariant.
		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_receptions_number ON receptions (number)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_reception ON invoices (reception_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_sequential ON invoices (sequential)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_number ON invoices (number)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_access_key ON invoices (access_key)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_sack_packages_package ON sack_packages (package_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_sacks_transfer_number ON sacks (transfer_id, number)`,
			`CREATE INDEX IF NOT EXISTS idx_packages_reception ON packages (reception_id)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_details_invoice ON invoice_details (invoice_id)`,
			`CREATE INDEX IF NOT EXISTS idx_reception_snapshots_reception ON reception_snapshots (reception_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Foreign key: additionals.article_id -> articles.id (RESTRICT/RESTRICT) ---
		fk := `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1
		FROM pg_constraint
		WHERE conrelid = 'additionals'::regclass
		  AND conname  = 'fk_additionals_article'
	) THEN
		ALTER TABLE additionals
		ADD CONSTRAINT fk_additionals_article
		FOREIGN KEY (article_id)
		REFERENCES articles(id)
		ON UPDATE RESTRICT
		ON DELETE RESTRICT;
	END IF;
END $$;`
		if err := tx.Exec(fk).Error; err != nil {
			return fmt.Errorf("foreign key migration failed: %w", err)
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Declared value must be positive
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'packages'::regclass
					  AND conname  = 'chk_packages_decl_val_pos'
				) THEN
					ALTER TABLE packages
					ADD CONSTRAINT chk_packages_decl_val_pos
					CHECK (decl_val > 0);
				END IF;
			END $$;`,
			// Reception totals never negative
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'receptions'::regclass
					  AND conname  = 'chk_receptions_total_nonneg'
				) THEN
					ALTER TABLE receptions
					ADD CONSTRAINT chk_receptions_total_nonneg
					CHECK (total >= 0 AND subtotal >= 0 AND vat15 >= 0);
				END IF;
			END $$;`,
			// Additional lines: quantity >= 1
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'additionals'::regclass
					  AND conname  = 'chk_additionals_quantity_pos'
				) THEN
					ALTER TABLE additionals
					ADD CONSTRAINT chk_additionals_quantity_pos
					CHECK (quantity >= 1);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
