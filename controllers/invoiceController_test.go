package controllers

import (
	"testing"

	"encomiendas-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceCreatedBody(t *testing.T) {
	inv := &models.Invoice{ID: 7, Number: "001-001-000000017"}

	t.Run("artifact failure keeps the invoice visible", func(t *testing.T) {
		body := invoiceCreatedBody(inv, "", false)
		assert.Equal(t, uint(7), body["invoice_id"])
		assert.Nil(t, body["xml_path"])
		assert.Contains(t, body, "warning")
	})

	t.Run("unrecorded path still reports the artifact", func(t *testing.T) {
		body := invoiceCreatedBody(inv, "/storage/xml/key.xml", false)
		assert.Equal(t, "/storage/xml/key.xml", body["xml_path"])
		assert.Contains(t, body, "warning")
	})

	t.Run("full success has no warning", func(t *testing.T) {
		body := invoiceCreatedBody(inv, "/storage/xml/key.xml", true)
		assert.Equal(t, "/storage/xml/key.xml", body["xml_path"])
		assert.NotContains(t, body, "warning")
	})
}
