package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enterprise is the tenant: a courier business owning its own Postgres schema.
// Province/City feed package barcode prefixes; Establishment/EmissionPoint and
// Environment feed the fiscal invoice number and SRI access key.
type Enterprise struct {
	Id            string `json:"id" gorm:"primaryKey"`
	Name          string `json:"name" gorm:"not null;unique"`
	Ruc           string `json:"ruc" gorm:"size:13;not null;unique"`
	Address       string `json:"address" gorm:"not null"`
	Province      string `json:"province" gorm:"not null"`
	City          string `json:"city" gorm:"not null"`
	Country       string `json:"country" gorm:"not null"`
	Phone         string `json:"phone"`
	Establishment string `json:"establishment" gorm:"size:3;not null;default:'001'"`
	EmissionPoint string `json:"emission_point" gorm:"size:3;not null;default:'001'"`
	// SRI environment: 1 = pruebas, 2 = producción
	Environment int    `json:"environment" gorm:"not null;default:1"`
	UserId      string `json:"-"`
	User        User   `json:"user" gorm:"foreignKey:UserId;references:Id"`
	SchemaName  string `json:"-" gorm:"unique"`
}

func (enterprise *Enterprise) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	enterprise.Id = uuid.NewString()
	if enterprise.Establishment == "" {
		enterprise.Establishment = "001"
	}
	if enterprise.EmissionPoint == "" {
		enterprise.EmissionPoint = "001"
	}
	return
}
