package models

// Client is a sender or recipient of receptions. Tenant-scoped.
type Client struct {
	Id             uint   `json:"id" gorm:"primaryKey"`
	Identification string `json:"identification" gorm:"size:20;not null;unique"`
	FirstName      string `json:"first_name" gorm:"not null"`
	LastName       string `json:"last_name" gorm:"not null"`
	PhoneNumber    string `json:"phone_number" gorm:"not null"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Country        string `json:"country"`
	Email          string `json:"email"`
	Active         bool   `json:"-" gorm:"default:true"`
}
