package services_test

import (
	"testing"

	"encomiendas-backend/models"
	"encomiendas-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInvoiceDetails(t *testing.T) {
	rec := &models.Reception{
		Packages: []models.Package{
			{ServiceType: models.ServicePaquete, Content: "zapatos", Total: 20},
			{ServiceType: models.ServiceCarga, Content: "repuestos", Total: 35.50},
		},
		Additionals: []models.Additional{
			{Description: "Caja de carton", Quantity: 2, UnitPrice: 1.50},
		},
	}

	details := services.BuildInvoiceDetails(rec)
	require.Len(t, details, 3)

	t.Run("packages first, in stored order", func(t *testing.T) {
		assert.Equal(t, 1, details[0].Line)
		assert.Equal(t, "ENVIO PAQUETE - zapatos", details[0].Description)
		assert.Equal(t, 2, details[1].Line)
		assert.Equal(t, "ENVIO CARGA - repuestos", details[1].Description)
		assert.Equal(t, 3, details[2].Line)
		assert.Equal(t, "Caja de carton", details[2].Description)
	})

	t.Run("package lines bill quantity one", func(t *testing.T) {
		assert.Equal(t, 1, details[0].Quantity)
		assert.Equal(t, 20.00, details[0].UnitPrice)
		assert.Equal(t, 20.00, details[0].Subtotal)
		assert.Equal(t, 3.00, details[0].Vat)
		assert.Equal(t, 23.00, details[0].Total)
	})

	t.Run("additional lines multiply out", func(t *testing.T) {
		assert.Equal(t, 2, details[2].Quantity)
		assert.Equal(t, 1.50, details[2].UnitPrice)
		assert.Equal(t, 3.00, details[2].Subtotal)
		assert.Equal(t, 0.45, details[2].Vat)
		assert.Equal(t, 3.45, details[2].Total)
	})
}
