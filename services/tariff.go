package services

import (
	"strings"

	"encomiendas-backend/models"
	"encomiendas-backend/utils"
)

// Tariff rates. VAT and the transmission fee apply to the whole reception;
// insurance rates apply per declared item.
const (
	VatRate         = 0.15
	TransmitRate    = 0.01
	ShipInsPerLb    = 0.10
	InsRateRegular  = 0.05
	InsRatePrecious = 0.15
)

// Customs clearance tiers, keyed on total pounds. Any SOBRE package in the
// reception forces the flat envelope rate regardless of weight (observed
// business rule, kept as-is). Below 1 lb a non-SOBRE reception pays nothing.
const (
	ClearanceSobre = 3.50
	ClearanceTier1 = 6.00  // [1, 17]
	ClearanceTier2 = 9.00  // (17, 22]
	ClearanceTier3 = 12.00 // > 22
)

// Tariff is the full cost breakdown of a reception. Every monetary field is
// rounded to 2 decimals.
type Tariff struct {
	PkgTotal  float64 // package totals minus discount, floored at 0
	AddTotal  float64 // additional service lines
	InsPkg    float64 // per-item package insurance
	Pounds    float64 // total weight
	TransDest float64 // destination transport (agency rate × pounds)
	ShipIns   float64 // shipment insurance (pounds × 0.10)
	Clearance float64 // customs clearance tier
	Base      float64 // sum of the above
	Transmit  float64 // 1% transmission fee on Base
	Subtotal  float64 // Base + Transmit
	Vat       float64 // 15% of Subtotal
	Total     float64 // Subtotal + Vat
	Change    float64 // max(0, cash received − Total)
}

// TariffInput carries everything the computation needs. DestAgencyRate is the
// destination agency's per-pound value; nil means no agency was selected and
// the destination transport charge is 0.
type TariffInput struct {
	Packages       []models.Package
	Additionals    []models.Additional
	DestAgencyRate *float64
	Discount       float64
	CashRecv       float64
}

// ComputeTariff runs the pricing pipeline. Pure and deterministic: identical
// input always yields an identical Tariff. Intermediate stages are rounded to
// 2 decimals before they feed the next stage so totals never drift.
func ComputeTariff(in TariffInput) Tariff {
	var t Tariff

	for _, pkg := range in.Packages {
		t.PkgTotal += pkg.Total
		t.Pounds += pkg.Pounds
	}
	t.PkgTotal -= in.Discount
	if t.PkgTotal < 0 {
		t.PkgTotal = 0
	}
	t.PkgTotal = utils.Round2(t.PkgTotal)

	for _, add := range in.Additionals {
		t.AddTotal += utils.Round2(float64(add.Quantity) * add.UnitPrice)
	}
	t.AddTotal = utils.Round2(t.AddTotal)

	for _, pkg := range in.Packages {
		for _, item := range pkg.Items {
			t.InsPkg += utils.Round2(item.InsVal * itemInsuranceRate(item.Name))
		}
	}
	t.InsPkg = utils.Round2(t.InsPkg)

	if in.DestAgencyRate != nil {
		t.TransDest = utils.Round2(*in.DestAgencyRate * t.Pounds)
	}
	t.ShipIns = utils.Round2(t.Pounds * ShipInsPerLb)
	t.Clearance = clearanceFor(in.Packages, t.Pounds)

	t.Base = utils.Round2(t.PkgTotal + t.AddTotal + t.InsPkg + t.ShipIns + t.Clearance + t.TransDest)
	t.Transmit = utils.Round2(t.Base * TransmitRate)
	t.Subtotal = utils.Round2(t.Base + t.Transmit)
	t.Vat = utils.Round2(t.Subtotal * VatRate)
	t.Total = utils.Round2(t.Subtotal + t.Vat)

	if change := utils.Round2(in.CashRecv - t.Total); change > 0 {
		t.Change = change
	}
	return t
}

// itemInsuranceRate returns the precious-metal rate when the article name
// mentions gold or silver, the regular rate otherwise.
func itemInsuranceRate(name string) float64 {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "oro") || strings.Contains(lower, "plata") {
		return InsRatePrecious
	}
	return InsRateRegular
}

// clearanceFor picks the customs clearance charge for a reception.
func clearanceFor(packages []models.Package, pounds float64) float64 {
	for _, pkg := range packages {
		if pkg.ServiceType == models.ServiceSobre {
			return ClearanceSobre
		}
	}
	switch {
	case pounds < 1:
		return 0
	case pounds <= 17:
		return ClearanceTier1
	case pounds <= 22:
		return ClearanceTier2
	default:
		return ClearanceTier3
	}
}
