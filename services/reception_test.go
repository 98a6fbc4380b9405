package services_test

import (
	"testing"
	"time"

	"encomiendas-backend/models"
	"encomiendas-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInput() services.ReceptionInput {
	return services.ReceptionInput{
		SenderID:    1,
		RecipientID: 2,
		PayMethod:   services.PayCard,
		Packages: []services.PackageInput{
			{ServiceType: "PAQUETE", Pounds: 10, Total: 20, DeclVal: 50},
		},
	}
}

func TestBuildReception(t *testing.T) {
	ent := testEnterprise()
	now := time.Date(2025, time.March, 7, 10, 30, 0, 0, time.UTC)
	rate := 0.5

	t.Run("prices through the tariff pipeline", func(t *testing.T) {
		rec, err := services.BuildReception(baseInput(), "001-001-000000042", ent, &rate, now)
		require.NoError(t, err)

		assert.Equal(t, "001-001-000000042", rec.Number)
		assert.Equal(t, 20.00, rec.PkgTotal)
		assert.Equal(t, 5.00, rec.TransDest)
		assert.Equal(t, 1.00, rec.ShipIns)
		assert.Equal(t, 6.00, rec.Clearance)
		assert.Equal(t, 0.32, rec.Transmit)
		assert.Equal(t, 32.32, rec.Subtotal)
		assert.Equal(t, 4.85, rec.Vat15)
		assert.Equal(t, 37.17, rec.Total)
	})

	t.Run("barcodes follow input order", func(t *testing.T) {
		in := baseInput()
		in.Packages = append(in.Packages, services.PackageInput{
			ServiceType: "CARGA", Pounds: 3, Total: 8, DeclVal: 10,
		})
		rec, err := services.BuildReception(in, "001-001-000000042", ent, nil, now)
		require.NoError(t, err)
		require.Len(t, rec.Packages, 2)
		assert.Equal(t, "PIQU0042.1", rec.Packages[0].Barcode)
		assert.Equal(t, "PIQU0042.2", rec.Packages[1].Barcode)
	})

	t.Run("kilograms derived from pounds", func(t *testing.T) {
		rec, err := services.BuildReception(baseInput(), "001-001-000000042", ent, nil, now)
		require.NoError(t, err)
		assert.Equal(t, 4.54, rec.Packages[0].Kilograms)
	})

	t.Run("content derived from items", func(t *testing.T) {
		in := baseInput()
		in.Packages[0].Items = []services.PackageItemInput{
			{Name: "zapatos", Quantity: 1, DeclVal: 30},
			{Name: "camisa", Quantity: 2, DeclVal: 20},
		}
		rec, err := services.BuildReception(in, "001-001-000000042", ent, nil, now)
		require.NoError(t, err)
		assert.Equal(t, "zapatos, camisa", rec.Packages[0].Content)
	})

	t.Run("perfume description wins for PERFUMERIA", func(t *testing.T) {
		in := baseInput()
		in.Packages[0].ServiceType = "PERFUMERIA"
		in.Packages[0].PerfumeDesc = "Eau de toilette 100ml"
		rec, err := services.BuildReception(in, "001-001-000000042", ent, nil, now)
		require.NoError(t, err)
		assert.Equal(t, "Eau de toilette 100ml", rec.Packages[0].Content)
	})

	t.Run("cash short of total rejected", func(t *testing.T) {
		in := baseInput()
		in.PayMethod = services.PayCash
		in.CashRecv = 30 // total with the 0.5 rate is 37.17
		_, err := services.BuildReception(in, "001-001-000000042", ent, &rate, now)
		var verr *services.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "cash_recv")
	})

	t.Run("card payment ignores cash guard", func(t *testing.T) {
		in := baseInput()
		in.CashRecv = 0
		_, err := services.BuildReception(in, "001-001-000000042", ent, &rate, now)
		assert.NoError(t, err)
	})

	t.Run("zero declared value rejected per package", func(t *testing.T) {
		in := baseInput()
		in.Packages[0].DeclVal = 0
		_, err := services.BuildReception(in, "001-001-000000042", ent, nil, now)
		var verr *services.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "packages[0].decl_val")
	})

	t.Run("zero declared value rejected per item", func(t *testing.T) {
		in := baseInput()
		in.Packages[0].Items = []services.PackageItemInput{{Name: "reloj", Quantity: 1, DeclVal: 0}}
		_, err := services.BuildReception(in, "001-001-000000042", ent, nil, now)
		var verr *services.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "packages[0].items[0].decl_val")
	})

	t.Run("unknown service type rejected", func(t *testing.T) {
		in := baseInput()
		in.Packages[0].ServiceType = "MUEBLES"
		_, err := services.BuildReception(in, "001-001-000000042", ent, nil, now)
		var verr *services.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestBarcode(t *testing.T) {
	ent := testEnterprise()
	assert.Equal(t, "PIQU0007.1", services.Barcode(ent, "001-001-000000007", 0))
	assert.Equal(t, "PIQU0007.3", services.Barcode(ent, "001-001-000000007", 2))

	guayas := &models.Enterprise{Province: "Guayas", City: "Guayaquil"}
	assert.Equal(t, "GUGU1234.1", services.Barcode(guayas, "001-001-000001234", 0))
}

func TestGuardMutable(t *testing.T) {
	t.Run("active reception passes", func(t *testing.T) {
		assert.NoError(t, services.GuardMutable(&models.Reception{Number: "001-001-000000001"}))
	})

	t.Run("annulled reception conflicts", func(t *testing.T) {
		err := services.GuardMutable(&models.Reception{Number: "001-001-000000001", Annulled: true})
		var cerr *services.ConflictError
		require.ErrorAs(t, err, &cerr)
		assert.False(t, cerr.Retryable)
	})
}
