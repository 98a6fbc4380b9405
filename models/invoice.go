package models

import "time"

// SRI lifecycle states for an electronic invoice. Signing/authorization runs
// outside this service, so documents stay GENERATED here.
const (
	SriStatusGenerated  = "GENERATED"
	SriStatusAuthorized = "AUTHORIZED"
	SriStatusRejected   = "REJECTED"
)

// Invoice is the fiscal document derived 1:1 from a reception. Totals are
// copied from the reception verbatim, never recomputed.
type Invoice struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ReceptionID uint      `json:"reception_id" gorm:"not null;uniqueIndex"`
	Reception   Reception `json:"-" gorm:"foreignKey:ReceptionID;references:ID"`

	Sequential int       `json:"sequential" gorm:"not null;uniqueIndex"`
	Number     string    `json:"number" gorm:"size:20;not null;uniqueIndex"`
	AccessKey  string    `json:"access_key" gorm:"size:49;not null;uniqueIndex"`
	IssueDate  time.Time `json:"issue_date" gorm:"not null"`

	Subtotal float64 `json:"subtotal" gorm:"type:numeric(12,2)"`
	Vat      float64 `json:"vat" gorm:"type:numeric(12,2)"`
	Total    float64 `json:"total" gorm:"type:numeric(12,2)"`

	SriStatus string  `json:"sri_status" gorm:"type:VARCHAR(20);not null;default:'GENERATED'"`
	XmlURL    *string `json:"xml_url"`

	Details []InvoiceDetail `json:"details" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
}

// InvoiceDetail is one ordered line: one per package, then one per additional.
type InvoiceDetail struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	InvoiceID   uint    `json:"-" gorm:"index;not null"`
	Line        int     `json:"line" gorm:"not null"`
	Description string  `json:"description" gorm:"not null"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:numeric(12,2)"`
	Subtotal    float64 `json:"subtotal" gorm:"type:numeric(12,2)"`
	Vat         float64 `json:"vat" gorm:"type:numeric(12,2)"`
	Total       float64 `json:"total" gorm:"type:numeric(12,2)"`
}
