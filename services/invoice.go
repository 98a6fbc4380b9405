package services

import (
	"errors"
	"fmt"
	"time"

	"encomiendas-backend/models"
	"encomiendas-backend/utils"

	"gorm.io/gorm"
)

// BuildInvoiceDetails assembles the ordered detail lines of an invoice:
// one per package (quantity 1) followed by one per additional, both in the
// reception's stored order.
func BuildInvoiceDetails(rec *models.Reception) []models.InvoiceDetail {
	details := make([]models.InvoiceDetail, 0, len(rec.Packages)+len(rec.Additionals))
	line := 1

	for _, pkg := range rec.Packages {
		quantity := 1
		unitPrice := utils.Round2(pkg.Total / float64(quantity))
		subtotal := utils.Round2(unitPrice * float64(quantity))
		vat := utils.Round2(subtotal * VatRate)
		details = append(details, models.InvoiceDetail{
			Line:        line,
			Description: fmt.Sprintf("ENVIO %s - %s", pkg.ServiceType, pkg.Content),
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			Subtotal:    subtotal,
			Vat:         vat,
			Total:       utils.Round2(subtotal + vat),
		})
		line++
	}

	for _, add := range rec.Additionals {
		subtotal := utils.Round2(float64(add.Quantity) * add.UnitPrice)
		vat := utils.Round2(subtotal * VatRate)
		details = append(details, models.InvoiceDetail{
			Line:        line,
			Description: add.Description,
			Quantity:    add.Quantity,
			UnitPrice:   add.UnitPrice,
			Subtotal:    subtotal,
			Vat:         vat,
			Total:       utils.Round2(subtotal + vat),
		})
		line++
	}
	return details
}

// GenerateInvoice creates the fiscal invoice for a reception inside the given
// transaction: allocates the sequential under the tenant lock, copies the
// reception totals verbatim and persists header plus details atomically.
// The XML artifact is the caller's job, after commit.
func GenerateInvoice(tx *gorm.DB, receptionID uint, ent *models.Enterprise, now time.Time) (*models.Invoice, *models.Reception, error) {
	var rec models.Reception
	err := tx.Preload("Packages.Items").Preload("Additionals").Preload("Sender").First(&rec, receptionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, &NotFoundError{Entity: "reception", ID: receptionID}
	}
	if err != nil {
		return nil, nil, err
	}
	if rec.Annulled {
		return nil, nil, &ConflictError{Message: fmt.Sprintf("reception %s is annulled", rec.Number)}
	}

	var count int64
	if err := tx.Model(&models.Invoice{}).Where("reception_id = ?", rec.ID).Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count > 0 {
		return nil, nil, &ConflictError{Message: fmt.Sprintf("reception %s is already invoiced", rec.Number)}
	}

	sequential, err := NextInvoiceSequential(tx)
	if err != nil {
		return nil, nil, err
	}

	invoice := models.Invoice{
		ReceptionID: rec.ID,
		Sequential:  sequential,
		Number:      InvoiceNumber(ent, sequential),
		AccessKey:   AccessKey(now, ent, sequential),
		IssueDate:   now,
		Subtotal:    rec.Subtotal,
		Vat:         rec.Vat15,
		Total:       rec.Total,
		SriStatus:   models.SriStatusGenerated,
		Details:     BuildInvoiceDetails(&rec),
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return nil, nil, err
	}
	return &invoice, &rec, nil
}
