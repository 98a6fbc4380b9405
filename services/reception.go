package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"encomiendas-backend/models"
	"encomiendas-backend/utils"

	"gorm.io/gorm"
)

// Payment methods accepted on a reception.
const (
	PayCash     = "EFECTIVO"
	PayCard     = "TARJETA"
	PayTransfer = "TRANSFERENCIA"
)

// PackageItemInput is one declared article inside a submitted package.
type PackageItemInput struct {
	Name      string  `json:"name" validate:"required"`
	Quantity  int     `json:"quantity" validate:"gte=1"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	Length    float64 `json:"length" validate:"gte=0"`
	Width     float64 `json:"width" validate:"gte=0"`
	Height    float64 `json:"height" validate:"gte=0"`
	DeclVal   float64 `json:"decl_val" validate:"gt=0"`
	InsVal    float64 `json:"ins_val" validate:"gte=0"`
}

// PackageInput is one submitted package. Input order is preserved: it governs
// barcode suffixes and invoice detail line order.
type PackageInput struct {
	ServiceType string             `json:"service_type" validate:"required,oneof=CARGA PAQUETE PERFUMERIA SOBRE"`
	Pounds      float64            `json:"pounds" validate:"gte=0"`
	Total       float64            `json:"total" validate:"gte=0"`
	DeclVal     float64            `json:"decl_val" validate:"gt=0"`
	InsVal      float64            `json:"ins_val" validate:"gte=0"`
	PerfumeDesc string             `json:"perfume_desc"`
	Items       []PackageItemInput `json:"items" validate:"dive"`
}

// AdditionalInput is one extra-service line referencing a catalog article.
type AdditionalInput struct {
	ArticleID   string  `json:"article_id" validate:"required"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity" validate:"gte=1"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// ReceptionInput is the full reception submission.
type ReceptionInput struct {
	Route          string            `json:"route"`
	AgencyOriginID *uint             `json:"agency_origin_id"`
	AgencyDestID   *uint             `json:"agency_dest_id"`
	SenderID       uint              `json:"sender_id" validate:"required"`
	RecipientID    uint              `json:"recipient_id" validate:"required"`
	Discount       float64           `json:"discount" validate:"gte=0"`
	PayMethod      string            `json:"pay_method" validate:"required,oneof=EFECTIVO TARJETA TRANSFERENCIA"`
	CashRecv       float64           `json:"cash_recv" validate:"gte=0"`
	Packages       []PackageInput    `json:"packages" validate:"required,min=1,dive"`
	Additionals    []AdditionalInput `json:"additionals" validate:"dive"`
}

// BuildReception validates the submission, prices it through the tariff
// pipeline and assembles the aggregate ready to persist. The caller supplies
// the already-allocated document number and the destination agency rate.
func BuildReception(in ReceptionInput, number string, ent *models.Enterprise, destRate *float64, now time.Time) (*models.Reception, error) {
	packages := make([]models.Package, 0, len(in.Packages))
	for i, p := range in.Packages {
		serviceType, err := models.ParseServiceType(p.ServiceType)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("packages[%d].service_type", i), err.Error())
		}
		if p.DeclVal <= 0 {
			return nil, NewValidationError(fmt.Sprintf("packages[%d].decl_val", i), "declared value must be greater than 0")
		}
		pkg := models.Package{
			ServiceType: serviceType,
			Pounds:      p.Pounds,
			Kilograms:   utils.Round2(p.Pounds * models.PoundsToKilograms),
			Total:       utils.Round2(p.Total),
			DeclVal:     utils.Round2(p.DeclVal),
			InsVal:      utils.Round2(p.InsVal),
			PerfumeDesc: p.PerfumeDesc,
			Barcode:     Barcode(ent, number, i),
		}
		for j, it := range p.Items {
			if it.DeclVal <= 0 {
				return nil, NewValidationError(fmt.Sprintf("packages[%d].items[%d].decl_val", i, j), "declared value must be greater than 0")
			}
			pkg.Items = append(pkg.Items, models.PackageItem{
				Name:      it.Name,
				Quantity:  it.Quantity,
				UnitPrice: utils.Round2(it.UnitPrice),
				Length:    it.Length,
				Width:     it.Width,
				Height:    it.Height,
				DeclVal:   utils.Round2(it.DeclVal),
				InsVal:    utils.Round2(it.InsVal),
			})
		}
		pkg.Content = packageContent(&pkg)
		packages = append(packages, pkg)
	}

	additionals := make([]models.Additional, 0, len(in.Additionals))
	for _, a := range in.Additionals {
		additionals = append(additionals, models.Additional{
			ArticleID:   a.ArticleID,
			Description: a.Description,
			Quantity:    a.Quantity,
			UnitPrice:   utils.Round2(a.UnitPrice),
			Total:       utils.Round2(float64(a.Quantity) * a.UnitPrice),
		})
	}

	tariff := ComputeTariff(TariffInput{
		Packages:       packages,
		Additionals:    additionals,
		DestAgencyRate: destRate,
		Discount:       in.Discount,
		CashRecv:       in.CashRecv,
	})

	if in.PayMethod == PayCash && in.CashRecv < tariff.Total {
		return nil, NewValidationError("cash_recv",
			fmt.Sprintf("cash received %.2f is less than total %.2f", in.CashRecv, tariff.Total))
	}

	return &models.Reception{
		Number:         number,
		DateTime:       now,
		Route:          in.Route,
		AgencyOriginID: in.AgencyOriginID,
		AgencyDestID:   in.AgencyDestID,
		SenderID:       in.SenderID,
		RecipientID:    in.RecipientID,
		PkgTotal:       tariff.PkgTotal,
		InsPkg:         tariff.InsPkg,
		Packaging:      tariff.AddTotal,
		ShipIns:        tariff.ShipIns,
		Clearance:      tariff.Clearance,
		TransDest:      tariff.TransDest,
		Transmit:       tariff.Transmit,
		Subtotal:       tariff.Subtotal,
		Vat15:          tariff.Vat,
		Total:          tariff.Total,
		PayMethod:      in.PayMethod,
		CashRecv:       utils.Round2(in.CashRecv),
		Change:         tariff.Change,
		Packages:       packages,
		Additionals:    additionals,
	}, nil
}

// Barcode derives a package barcode: two-letter province and city prefixes of
// the enterprise, the last 4 digits of the reception number, then the
// 1-based package position.
func Barcode(ent *models.Enterprise, number string, index int) string {
	last4 := number
	if len(number) >= 4 {
		last4 = number[len(number)-4:]
	}
	return prefix2(ent.Province) + prefix2(ent.City) + last4 + "." + fmt.Sprint(index+1)
}

func prefix2(s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	if len(up) < 2 {
		return up
	}
	return up[:2]
}

// packageContent derives the display content of a package from its service
// type, perfume description or declared items.
func packageContent(pkg *models.Package) string {
	if pkg.ServiceType == models.ServicePerfumeria && pkg.PerfumeDesc != "" {
		return pkg.PerfumeDesc
	}
	if len(pkg.Items) > 0 {
		names := make([]string, 0, len(pkg.Items))
		for _, it := range pkg.Items {
			names = append(names, it.Name)
		}
		return strings.Join(names, ", ")
	}
	return string(pkg.ServiceType)
}

// GuardMutable rejects any mutation of an annulled reception.
func GuardMutable(rec *models.Reception) error {
	if rec.Annulled {
		return &ConflictError{Message: fmt.Sprintf("reception %s is annulled", rec.Number)}
	}
	return nil
}

// AnnulReception sets the terminal annulled flag and captures an audit
// snapshot. Idempotent: annulling an already-annulled reception succeeds
// without touching AnnulledAt or writing a second snapshot.
func AnnulReception(tx *gorm.DB, receptionID uint, actor, reason string) (*models.Reception, error) {
	var rec models.Reception
	err := tx.Preload("Packages.Items").Preload("Additionals").First(&rec, receptionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "reception", ID: receptionID}
	}
	if err != nil {
		return nil, err
	}
	if rec.Annulled {
		return &rec, nil
	}

	snapshot, err := json.Marshal(&rec)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	rec.Annulled = true
	rec.AnnulledAt = &now
	rec.AnnulledBy = actor

	if err := tx.Model(&models.Reception{}).Where("id = ?", rec.ID).Updates(map[string]any{
		"annulled":    true,
		"annulled_at": &now,
		"annulled_by": actor,
	}).Error; err != nil {
		return nil, err
	}
	if err := tx.Create(&models.ReceptionSnapshot{
		ReceptionID: rec.ID,
		Reason:      reason,
		Snapshot:    snapshot,
		CreatedBy:   actor,
	}).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
