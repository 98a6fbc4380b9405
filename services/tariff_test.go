package services_test

import (
	"testing"

	"encomiendas-backend/models"
	"encomiendas-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pkg(serviceType models.ServiceType, pounds, total float64) models.Package {
	return models.Package{ServiceType: serviceType, Pounds: pounds, Total: total, DeclVal: 50}
}

func TestComputeTariffClearanceTiers(t *testing.T) {
	cases := []struct {
		name   string
		pounds float64
		want   float64
	}{
		{"below one pound", 0.5, 0},
		{"lower bound", 1.0, 6.00},
		{"upper bound tier one", 17.0, 6.00},
		{"just above tier one", 17.01, 9.00},
		{"upper bound tier two", 22.0, 9.00},
		{"just above tier two", 22.01, 12.00},
		{"heavy", 80, 12.00},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := services.ComputeTariff(services.TariffInput{
				Packages: []models.Package{pkg(models.ServicePaquete, tc.pounds, 10)},
			})
			assert.Equal(t, tc.want, out.Clearance)
		})
	}

	t.Run("any SOBRE forces the flat envelope rate", func(t *testing.T) {
		out := services.ComputeTariff(services.TariffInput{
			Packages: []models.Package{
				pkg(models.ServicePaquete, 30, 10),
				pkg(models.ServiceSobre, 0.2, 5),
			},
		})
		assert.Equal(t, 3.50, out.Clearance)
	})
}

func TestComputeTariffInsuranceRates(t *testing.T) {
	t.Run("precious metals insured at 15 percent", func(t *testing.T) {
		p := pkg(models.ServicePaquete, 2, 10)
		p.Items = []models.PackageItem{
			{Name: "Cadena de ORO", InsVal: 100},
			{Name: "anillo plata 925", InsVal: 100},
			{Name: "reloj", InsVal: 100},
		}
		out := services.ComputeTariff(services.TariffInput{Packages: []models.Package{p}})
		// 15 + 15 + 5
		assert.Equal(t, 35.00, out.InsPkg)
	})
}

func TestComputeTariffDiscountFloor(t *testing.T) {
	out := services.ComputeTariff(services.TariffInput{
		Packages: []models.Package{pkg(models.ServicePaquete, 2, 10)},
		Discount: 25,
	})
	assert.Equal(t, 0.00, out.PkgTotal)
}

func TestComputeTariffDeterministic(t *testing.T) {
	in := services.TariffInput{
		Packages: []models.Package{
			pkg(models.ServiceCarga, 12.5, 31.75),
			pkg(models.ServicePaquete, 3.3, 8.20),
		},
		Additionals: []models.Additional{{Quantity: 3, UnitPrice: 1.25}},
		CashRecv:    100,
	}
	first := services.ComputeTariff(in)
	second := services.ComputeTariff(in)
	assert.Equal(t, first, second)
}

func TestComputeTariffInvariants(t *testing.T) {
	out := services.ComputeTariff(services.TariffInput{
		Packages: []models.Package{
			pkg(models.ServiceCarga, 19.4, 47.13),
		},
		Additionals: []models.Additional{{Quantity: 2, UnitPrice: 0.75}},
	})
	assert.Equal(t, out.Subtotal, services.ComputeTariff(services.TariffInput{
		Packages:    []models.Package{pkg(models.ServiceCarga, 19.4, 47.13)},
		Additionals: []models.Additional{{Quantity: 2, UnitPrice: 0.75}},
	}).Subtotal)
	assert.InDelta(t, out.Base+out.Transmit, out.Subtotal, 0.005)
	assert.InDelta(t, out.Subtotal+out.Vat, out.Total, 0.005)
}

func TestComputeTariffFullScenario(t *testing.T) {
	// One PAQUETE: 10 lb, total 20, declared 50; destination rate 0.5/lb;
	// no additionals, no items.
	rate := 0.5
	out := services.ComputeTariff(services.TariffInput{
		Packages:       []models.Package{pkg(models.ServicePaquete, 10, 20)},
		DestAgencyRate: &rate,
		CashRecv:       30,
	})

	require.Equal(t, 5.00, out.TransDest)
	require.Equal(t, 1.00, out.ShipIns)
	require.Equal(t, 0.00, out.InsPkg)
	require.Equal(t, 6.00, out.Clearance)
	require.Equal(t, 32.00, out.Base)
	require.Equal(t, 0.32, out.Transmit)
	require.Equal(t, 32.32, out.Subtotal)
	require.Equal(t, 4.85, out.Vat)
	require.Equal(t, 37.17, out.Total)
	// Cash short of the total: change stays zero, the pre-submit guard in
	// BuildReception rejects this payment.
	assert.Equal(t, 0.00, out.Change)
}

func TestComputeTariffChange(t *testing.T) {
	rate := 0.5
	out := services.ComputeTariff(services.TariffInput{
		Packages:       []models.Package{pkg(models.ServicePaquete, 10, 20)},
		DestAgencyRate: &rate,
		CashRecv:       40,
	})
	assert.Equal(t, 2.83, out.Change)
}
