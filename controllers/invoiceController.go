package controllers

import (
	"errors"
	"os"
	"time"

	"encomiendas-backend/database"
	"encomiendas-backend/models"
	"encomiendas-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func xmlStorageDir() string {
	if dir := os.Getenv("XML_STORAGE_PATH"); dir != "" {
		return dir
	}
	return "./storage/xml"
}

// GenerateInvoice creates the fiscal invoice for a reception. The invoice and
// its details commit atomically; the XML artifact is generated afterward and
// its failure is reported without undoing the invoice (xml_path comes back
// null and POST /invoices/:id/xml retries).
func GenerateInvoice(c *fiber.Ctx) error {
	receptionID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	schema, err := tenantSchema(c)
	if err != nil {
		return err
	}
	ent, err := enterpriseForSchema(schema)
	if err != nil {
		return err
	}

	var (
		inv *models.Invoice
		rec *models.Reception
	)
	err = database.SchemaTransaction(schema, func(tx *gorm.DB) error {
		var e error
		inv, rec, e = services.GenerateInvoice(tx, uint(receptionID), ent, time.Now().UTC())
		return e
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &services.ConflictError{Message: "invoice sequential collision, retry", Retryable: true}
	}
	if err != nil {
		return err
	}

	// Invoice is committed; everything below is best-effort.
	path, artifactErr := services.WriteInvoiceXML(xmlStorageDir(), inv, rec, ent)
	if artifactErr != nil {
		return c.Status(fiber.StatusCreated).JSON(invoiceCreatedBody(inv, "", false))
	}
	recorded := storeXMLPath(schema, inv.ID, path) == nil
	return c.Status(fiber.StatusCreated).JSON(invoiceCreatedBody(inv, path, recorded))
}

// invoiceCreatedBody shapes the 201 payload. The invoice row always exists at
// this point; an empty path means the artifact failed, recorded=false means
// the artifact exists but xml_url was not stored. Both partial outcomes carry
// a warning and are repaired by POST /invoices/:id/xml.
func invoiceCreatedBody(inv *models.Invoice, path string, recorded bool) fiber.Map {
	body := fiber.Map{
		"invoice_id":     inv.ID,
		"invoice_number": inv.Number,
	}
	if path == "" {
		body["xml_path"] = nil
		body["warning"] = "invoice created but fiscal xml generation failed, retry via POST /api/invoices/:id/xml"
		return body
	}
	body["xml_path"] = path
	if !recorded {
		body["warning"] = "fiscal xml written but its path was not recorded, retry via POST /api/invoices/:id/xml"
	}
	return body
}

func storeXMLPath(schema string, invoiceID uint, path string) error {
	return database.SchemaTransaction(schema, func(tx *gorm.DB) error {
		return tx.Model(&models.Invoice{}).Where("id = ?", invoiceID).
			Update("xml_url", path).Error
	})
}

// RegenerateInvoiceXML rebuilds the fiscal artifact for an already-committed
// invoice, covering artifact failures during generation.
func RegenerateInvoiceXML(c *fiber.Ctx) error {
	invoiceID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	schema, err := tenantSchema(c)
	if err != nil {
		return err
	}
	ent, err := enterpriseForSchema(schema)
	if err != nil {
		return err
	}

	inv, rec, err := loadInvoice(c, uint(invoiceID))
	if err != nil {
		return err
	}

	path, artifactErr := services.WriteInvoiceXML(xmlStorageDir(), inv, rec, ent)
	if artifactErr != nil {
		return artifactErr
	}
	if err := storeXMLPath(schema, inv.ID, path); err != nil {
		return &services.ArtifactError{InvoiceID: inv.ID, Err: err}
	}
	return c.JSON(fiber.Map{"invoice_id": inv.ID, "xml_path": path})
}

// DownloadInvoiceXML streams the fiscal document.
func DownloadInvoiceXML(c *fiber.Ctx) error {
	invoiceID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	inv, _, err := loadInvoice(c, uint(invoiceID))
	if err != nil {
		return err
	}
	if inv.XmlURL == nil {
		return &services.ArtifactError{InvoiceID: inv.ID, Err: errors.New("xml artifact not generated yet")}
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	return c.SendFile(*inv.XmlURL)
}

func GetInvoice(c *fiber.Ctx) error {
	invoiceID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	inv, _, err := loadInvoice(c, uint(invoiceID))
	if err != nil {
		return err
	}
	return c.JSON(inv)
}

func GetInvoices(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	var invoices []models.Invoice
	if err := tenantDB.Order("sequential DESC").Find(&invoices).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"invoices": invoices, "message": "success"})
}

func loadInvoice(c *fiber.Ctx, id uint) (*models.Invoice, *models.Reception, error) {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var inv models.Invoice
	e := tenantDB.Preload("Details", func(db *gorm.DB) *gorm.DB {
		return db.Order("invoice_details.line")
	}).First(&inv, id).Error
	if errors.Is(e, gorm.ErrRecordNotFound) {
		return nil, nil, &services.NotFoundError{Entity: "invoice", ID: id}
	}
	if e != nil {
		return nil, nil, e
	}

	var rec models.Reception
	if e := tenantDB.Preload("Sender").First(&rec, inv.ReceptionID).Error; e != nil {
		return nil, nil, e
	}
	return &inv, &rec, nil
}
