package models

import "time"

// Transfer document statuses. Status is derived from sack custody flags on
// every read, never persisted.
const (
	TransferStatusPending   = "PENDING"
	TransferStatusConfirmed = "CONFIRMED"
)

// Transfer moves packages in bulk from one agency city to another inside
// sealed sacks.
type Transfer struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Number   *string `json:"number" gorm:"size:30"`
	Country  string  `json:"country"`
	FromCity string  `json:"from_city" gorm:"not null"`
	ToCity   string  `json:"to_city" gorm:"not null"`

	Sacks []Sack `json:"sacks" gorm:"foreignKey:TransferID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
}

// Status rolls up sack custody: CONFIRMED iff every package in every sack is
// confirmed. A transfer with no packages is still PENDING.
func (t *Transfer) Status() string {
	total := 0
	for _, sack := range t.Sacks {
		for _, sp := range sack.Packages {
			total++
			if !sp.Confirmed {
				return TransferStatusPending
			}
		}
	}
	if total == 0 {
		return TransferStatusPending
	}
	return TransferStatusConfirmed
}

// Sack is a custody container within a transfer, sealed and optionally
// refrigerated. Number is sequential within the transfer.
type Sack struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	TransferID   uint    `json:"-" gorm:"index;not null"`
	Number       int     `json:"number" gorm:"not null"`
	Seal         *string `json:"seal" gorm:"size:50"`
	Refrigerated bool    `json:"refrigerated"`

	Packages []SackPackage `json:"packages" gorm:"foreignKey:SackID;constraint:OnDelete:CASCADE"`
}

// SackPackage links a package to the single sack holding it. Confirmed is the
// custody flag flipped by the confirmation workflow. The unique index on
// PackageID keeps a package from ever being assigned to two sacks.
type SackPackage struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	SackID    uint    `json:"-" gorm:"index;not null"`
	PackageID uint    `json:"package_id" gorm:"not null;uniqueIndex"`
	Package   Package `json:"package" gorm:"foreignKey:PackageID;references:ID"`
	Confirmed bool    `json:"confirmed"`
}
