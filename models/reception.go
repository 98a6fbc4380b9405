package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// ServiceType is the closed set of package service categories.
type ServiceType string

const (
	ServiceCarga      ServiceType = "CARGA"
	ServicePaquete    ServiceType = "PAQUETE"
	ServicePerfumeria ServiceType = "PERFUMERIA"
	ServiceSobre      ServiceType = "SOBRE"
)

// ParseServiceType maps a submitted service type onto the enum.
func ParseServiceType(s string) (ServiceType, error) {
	switch ServiceType(s) {
	case ServiceCarga:
		return ServiceCarga, nil
	case ServicePaquete:
		return ServicePaquete, nil
	case ServicePerfumeria:
		return ServicePerfumeria, nil
	case ServiceSobre:
		return ServiceSobre, nil
	default:
		return "", fmt.Errorf("unknown service type: %q", s)
	}
}

// PoundsToKilograms is the fixed conversion applied to package weights.
const PoundsToKilograms = 0.453592

// Reception is the intake document: packages received from a sender for
// shipment to a recipient. Number is tenant-scoped, format NNN-NNN-NNNNNNNNN.
// Once Annulled is set the document is terminal and rejects every mutation.
type Reception struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Number   string    `json:"number" gorm:"size:20;not null;uniqueIndex"`
	DateTime time.Time `json:"date_time" gorm:"not null"`
	Route    string    `json:"route"`

	AgencyOriginID *uint   `json:"agency_origin_id"`
	AgencyOrigin   *Agency `json:"agency_origin,omitempty" gorm:"foreignKey:AgencyOriginID;references:Id"`
	AgencyDestID   *uint   `json:"agency_dest_id"`
	AgencyDest     *Agency `json:"agency_dest,omitempty" gorm:"foreignKey:AgencyDestID;references:Id"`

	SenderID    uint   `json:"sender_id" gorm:"not null"`
	Sender      Client `json:"sender" gorm:"foreignKey:SenderID;references:Id"`
	RecipientID uint   `json:"recipient_id" gorm:"not null"`
	Recipient   Client `json:"recipient" gorm:"foreignKey:RecipientID;references:Id"`

	// Cost components, all rounded to 2 decimals.
	PkgTotal  float64 `json:"pkg_total" gorm:"type:numeric(12,2)"`
	InsPkg    float64 `json:"ins_pkg" gorm:"type:numeric(12,2)"`
	Packaging float64 `json:"packaging" gorm:"type:numeric(12,2)"`
	ShipIns   float64 `json:"ship_ins" gorm:"type:numeric(12,2)"`
	Clearance float64 `json:"clearance" gorm:"type:numeric(12,2)"`
	TransDest float64 `json:"trans_dest" gorm:"type:numeric(12,2)"`
	Transmit  float64 `json:"transmit" gorm:"type:numeric(12,2)"`
	Subtotal  float64 `json:"subtotal" gorm:"type:numeric(12,2)"`
	Vat15     float64 `json:"vat15" gorm:"type:numeric(12,2)"`
	Total     float64 `json:"total" gorm:"type:numeric(12,2)"`

	PayMethod string  `json:"pay_method" gorm:"size:20"`
	CashRecv  float64 `json:"cash_recv" gorm:"type:numeric(12,2)"`
	Change    float64 `json:"change" gorm:"type:numeric(12,2)"`

	Annulled   bool       `json:"annulled"`
	AnnulledAt *time.Time `json:"annulled_at"`
	AnnulledBy string     `json:"annulled_by,omitempty" gorm:"size:128"`

	Packages    []Package    `json:"packages" gorm:"foreignKey:ReceptionID;constraint:OnDelete:CASCADE"`
	Additionals []Additional `json:"additionals" gorm:"foreignKey:ReceptionID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
}

// Package is a physical shipped unit within a reception.
type Package struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	ReceptionID uint        `json:"-" gorm:"index;not null"`
	ServiceType ServiceType `json:"service_type" gorm:"type:VARCHAR(20);not null"`
	Content     string      `json:"content"`
	Pounds      float64     `json:"pounds"`
	Kilograms   float64     `json:"kilograms"`
	Total       float64     `json:"total" gorm:"type:numeric(12,2)"`
	DeclVal     float64     `json:"decl_val" gorm:"type:numeric(12,2)"`
	InsVal      float64     `json:"ins_val" gorm:"type:numeric(12,2)"`
	Barcode     string      `json:"barcode" gorm:"size:30;index"`
	PerfumeDesc string      `json:"perfume_desc,omitempty"`

	Items []PackageItem `json:"items" gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
}

// PackageItem is one declared article inside a package.
type PackageItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	PackageID uint    `json:"-" gorm:"index;not null"`
	Name      string  `json:"name" gorm:"not null"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price" gorm:"type:numeric(12,2)"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	DeclVal   float64 `json:"decl_val" gorm:"type:numeric(12,2)"`
	InsVal    float64 `json:"ins_val" gorm:"type:numeric(12,2)"`
}

// Additional is a non-package billable service line (e.g. packaging material).
type Additional struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	ReceptionID uint    `json:"-" gorm:"index;not null"`
	ArticleID   string  `json:"article_id" gorm:"not null;index"`
	Article     Article `json:"-" gorm:"foreignKey:ArticleID;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:numeric(12,2)"`
	Total       float64 `json:"total" gorm:"type:numeric(12,2)"`
}

// ReceptionSnapshot is the immutable copy of a reception captured when it is
// annulled, for audit.
type ReceptionSnapshot struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	ReceptionID uint           `json:"reception_id" gorm:"index"`
	Reason      string         `json:"reason" gorm:"size:255"`
	Snapshot    datatypes.JSON `json:"snapshot" gorm:"type:jsonb"`
	CreatedBy   string         `json:"created_by" gorm:"size:128"`
	CreatedAt   time.Time      `json:"created_at"`
}
