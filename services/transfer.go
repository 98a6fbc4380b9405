package services

import (
	"errors"
	"fmt"

	"encomiendas-backend/models"
	"encomiendas-backend/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SackInput is one sack in a transfer submission.
type SackInput struct {
	Seal         *string `json:"seal"`
	Refrigerated bool    `json:"refrigerated"`
	PackageIDs   []uint  `json:"package_ids" validate:"required,min=1"`
}

// TransferInput is a dispatch submission: packages grouped into sacks moving
// between two cities.
type TransferInput struct {
	Number   *string     `json:"number"`
	Country  string      `json:"country"`
	FromCity string      `json:"from_city" validate:"required"`
	ToCity   string      `json:"to_city" validate:"required"`
	Sacks    []SackInput `json:"sacks" validate:"required,min=1,dive"`
}

// SackUpdateInput is the full-replace custody payload for one sack: the
// confirmed set is authoritative, every package not listed flips back to
// pending.
type SackUpdateInput struct {
	Number              int     `json:"number" validate:"required,gte=1"`
	Seal                *string `json:"seal"`
	Refrigerated        bool    `json:"refrigerated"`
	ConfirmedPackageIDs []uint  `json:"confirmedPackageIds"`
}

// SackStats are the derived aggregates of a pending or confirmed partition.
type SackStats struct {
	Pieces    int     `json:"pieces"`
	Pounds    float64 `json:"pounds"`
	Kilograms float64 `json:"kilograms"`
}

// SackDetails is one sack with its packages partitioned by custody state.
type SackDetails struct {
	Number         int              `json:"number"`
	Seal           *string          `json:"seal"`
	Refrigerated   bool             `json:"refrigerated"`
	Pending        []models.Package `json:"pending"`
	Confirmed      []models.Package `json:"confirmed"`
	PendingStats   SackStats        `json:"pending_stats"`
	ConfirmedStats SackStats        `json:"confirmed_stats"`
}

// TransferDetails is the read model of a transfer. Everything here is
// recomputed from the custody flags on every call; nothing is cached.
type TransferDetails struct {
	ID       uint          `json:"id"`
	Number   *string       `json:"number"`
	Country  string        `json:"country"`
	FromCity string        `json:"from_city"`
	ToCity   string        `json:"to_city"`
	Status   string        `json:"status"`
	Sacks    []SackDetails `json:"sacks"`
}

// CreateTransfer validates the referenced packages and persists the transfer
// with every package-in-sack starting pending. Package rules: the package
// must exist, its reception must not be annulled, it must match the origin
// city when its reception names an origin agency, and it cannot already sit
// in another sack (the unique index on sack_packages.package_id backs this up).
func CreateTransfer(tx *gorm.DB, in TransferInput) (*models.Transfer, error) {
	transfer := models.Transfer{
		Number:   in.Number,
		Country:  in.Country,
		FromCity: in.FromCity,
		ToCity:   in.ToCity,
	}

	seen := make(map[uint]bool)
	for i, sackIn := range in.Sacks {
		sack := models.Sack{
			Number:       i + 1,
			Seal:         sackIn.Seal,
			Refrigerated: sackIn.Refrigerated,
		}
		for _, pkgID := range sackIn.PackageIDs {
			if seen[pkgID] {
				return nil, NewValidationError("package_ids", fmt.Sprintf("package %d listed twice", pkgID))
			}
			seen[pkgID] = true

			var pkg models.Package
			err := tx.Preload("Items").First(&pkg, pkgID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "package", ID: pkgID}
			}
			if err != nil {
				return nil, err
			}

			var rec models.Reception
			if err := tx.Preload("AgencyOrigin").First(&rec, pkg.ReceptionID).Error; err != nil {
				return nil, err
			}
			if rec.Annulled {
				return nil, NewValidationError("package_ids",
					fmt.Sprintf("package %d belongs to annulled reception %s", pkgID, rec.Number))
			}
			if rec.AgencyOrigin != nil && rec.AgencyOrigin.City != in.FromCity {
				return nil, NewValidationError("package_ids",
					fmt.Sprintf("package %d is not in %s", pkgID, in.FromCity))
			}

			var assigned int64
			if err := tx.Model(&models.SackPackage{}).Where("package_id = ?", pkgID).Count(&assigned).Error; err != nil {
				return nil, err
			}
			if assigned > 0 {
				return nil, NewValidationError("package_ids",
					fmt.Sprintf("package %d is already assigned to a sack", pkgID))
			}

			sack.Packages = append(sack.Packages, models.SackPackage{PackageID: pkgID})
		}
		transfer.Sacks = append(transfer.Sacks, sack)
	}

	if err := tx.Create(&transfer).Error; err != nil {
		return nil, err
	}
	return &transfer, nil
}

// LoadTransfer fetches a transfer with sacks, custody rows and packages.
func LoadTransfer(tx *gorm.DB, transferID uint) (*models.Transfer, error) {
	var transfer models.Transfer
	err := tx.Preload("Sacks", func(db *gorm.DB) *gorm.DB { return db.Order("sacks.number") }).
		Preload("Sacks.Packages.Package").
		First(&transfer, transferID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "transfer", ID: transferID}
	}
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// BuildTransferDetails partitions each sack's packages by custody flag and
// derives the per-partition aggregates.
func BuildTransferDetails(t *models.Transfer) TransferDetails {
	details := TransferDetails{
		ID:       t.ID,
		Number:   t.Number,
		Country:  t.Country,
		FromCity: t.FromCity,
		ToCity:   t.ToCity,
		Status:   t.Status(),
	}
	for _, sack := range t.Sacks {
		sd := SackDetails{
			Number:       sack.Number,
			Seal:         sack.Seal,
			Refrigerated: sack.Refrigerated,
			Pending:      []models.Package{},
			Confirmed:    []models.Package{},
		}
		for _, sp := range sack.Packages {
			if sp.Confirmed {
				sd.Confirmed = append(sd.Confirmed, sp.Package)
			} else {
				sd.Pending = append(sd.Pending, sp.Package)
			}
		}
		sd.PendingStats = statsFor(sd.Pending)
		sd.ConfirmedStats = statsFor(sd.Confirmed)
		details.Sacks = append(details.Sacks, sd)
	}
	return details
}

func statsFor(packages []models.Package) SackStats {
	var s SackStats
	for _, pkg := range packages {
		s.Pieces++
		s.Pounds += pkg.Pounds
		s.Kilograms += pkg.Kilograms
	}
	s.Pounds = utils.Round2(s.Pounds)
	s.Kilograms = utils.Round2(s.Kilograms)
	return s
}

// ApplySackUpdate replaces one sack's custody state in memory: seal and
// refrigerated are overwritten, and each package's confirmed flag becomes
// exactly its membership in the submitted confirmed set. An id that does not
// belong to the sack is a validation error, never a silent ignore.
func ApplySackUpdate(sack *models.Sack, upd SackUpdateInput) error {
	inSack := make(map[uint]bool, len(sack.Packages))
	for _, sp := range sack.Packages {
		inSack[sp.PackageID] = true
	}
	for _, id := range upd.ConfirmedPackageIDs {
		if !inSack[id] {
			return NewValidationError("confirmedPackageIds",
				fmt.Sprintf("package %d does not belong to sack %d", id, sack.Number))
		}
	}

	confirmed := make(map[uint]bool, len(upd.ConfirmedPackageIDs))
	for _, id := range upd.ConfirmedPackageIDs {
		confirmed[id] = true
	}
	sack.Seal = upd.Seal
	sack.Refrigerated = upd.Refrigerated
	for i := range sack.Packages {
		sack.Packages[i].Confirmed = confirmed[sack.Packages[i].PackageID]
	}
	return nil
}

// UpdateSacks applies full-replace custody updates to a transfer atomically.
// The transfer row is locked FOR UPDATE so concurrent confirmations
// serialize; between two operators the last complete payload wins.
func UpdateSacks(tx *gorm.DB, transferID uint, updates []SackUpdateInput) (*models.Transfer, error) {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&models.Transfer{}, transferID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "transfer", ID: transferID}
		}
		return nil, err
	}

	transfer, err := LoadTransfer(tx, transferID)
	if err != nil {
		return nil, err
	}

	byNumber := make(map[int]*models.Sack, len(transfer.Sacks))
	for i := range transfer.Sacks {
		byNumber[transfer.Sacks[i].Number] = &transfer.Sacks[i]
	}

	for _, upd := range updates {
		sack, ok := byNumber[upd.Number]
		if !ok {
			return nil, &NotFoundError{Entity: "sack", ID: upd.Number}
		}
		if err := ApplySackUpdate(sack, upd); err != nil {
			return nil, err
		}
		if err := tx.Model(&models.Sack{}).Where("id = ?", sack.ID).Updates(map[string]any{
			"seal":         sack.Seal,
			"refrigerated": sack.Refrigerated,
		}).Error; err != nil {
			return nil, err
		}
		for _, sp := range sack.Packages {
			if err := tx.Model(&models.SackPackage{}).Where("id = ?", sp.ID).
				Update("confirmed", sp.Confirmed).Error; err != nil {
				return nil, err
			}
		}
	}
	return transfer, nil
}
