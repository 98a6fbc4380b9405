package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article is a catalog entry for additional service lines on a reception
// (packaging material, envelopes, etc.).
type Article struct {
	Id          string  `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:numeric(12,2)"`
	Active      bool    `json:"-"`
}

func (article *Article) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	article.Id = uuid.NewString()
	return
}
