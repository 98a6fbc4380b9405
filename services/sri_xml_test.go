package services_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"encomiendas-backend/models"
	"encomiendas-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceFixture() (*models.Invoice, *models.Reception) {
	inv := &models.Invoice{
		ID:         7,
		Sequential: 17,
		Number:     "001-001-000000017",
		AccessKey:  "0703202501179001234500110010010000000170000001711",
		IssueDate:  time.Date(2025, time.March, 7, 10, 30, 0, 0, time.UTC),
		Subtotal:   32.32,
		Vat:        4.85,
		Total:      37.17,
		Details: []models.InvoiceDetail{
			{Line: 1, Description: "ENVIO PAQUETE - zapatos", Quantity: 1, UnitPrice: 20, Subtotal: 20, Vat: 3, Total: 23},
		},
	}
	rec := &models.Reception{
		Number: "001-001-000000042",
		Sender: models.Client{FirstName: "Maria", LastName: "Lopez", Identification: "1712345678"},
	}
	return inv, rec
}

func TestBuildInvoiceXML(t *testing.T) {
	inv, rec := invoiceFixture()
	out, err := services.BuildInvoiceXML(inv, rec, testEnterprise())
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, doc, `<factura id="comprobante" version="1.0.0">`)
	assert.Contains(t, doc, "<claveAcceso>"+inv.AccessKey+"</claveAcceso>")
	assert.Contains(t, doc, "<ruc>1790012345001</ruc>")
	assert.Contains(t, doc, "<secuencial>000000017</secuencial>")
	assert.Contains(t, doc, "<fechaEmision>07/03/2025</fechaEmision>")
	assert.Contains(t, doc, "<razonSocialComprador>Maria Lopez</razonSocialComprador>")
	assert.Contains(t, doc, "<totalSinImpuestos>32.32</totalSinImpuestos>")
	assert.Contains(t, doc, "<importeIva>4.85</importeIva>")
	assert.Contains(t, doc, "<importeTotal>37.17</importeTotal>")
	assert.Contains(t, doc, "<descripcion>ENVIO PAQUETE - zapatos</descripcion>")
	assert.Contains(t, doc, "<precioTotalConImpuesto>23.00</precioTotalConImpuesto>")
}

func TestWriteInvoiceXML(t *testing.T) {
	inv, rec := invoiceFixture()
	ent := testEnterprise()

	t.Run("writes the artifact named after the access key", func(t *testing.T) {
		dir := t.TempDir()
		path, err := services.WriteInvoiceXML(dir, inv, rec, ent)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, inv.AccessKey+".xml"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "<claveAcceso>"+inv.AccessKey+"</claveAcceso>")
	})

	t.Run("regeneration is byte-identical", func(t *testing.T) {
		dir := t.TempDir()
		path, err := services.WriteInvoiceXML(dir, inv, rec, ent)
		require.NoError(t, err)
		first, err := os.ReadFile(path)
		require.NoError(t, err)

		_, err = services.WriteInvoiceXML(dir, inv, rec, ent)
		require.NoError(t, err)
		second, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("storage failure surfaces as artifact error", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "blocked")
		require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0o644))

		_, err := services.WriteInvoiceXML(dir, inv, rec, ent)
		var aerr *services.ArtifactError
		require.True(t, errors.As(err, &aerr))
		assert.Equal(t, inv.ID, aerr.InvoiceID)
	})
}
