package models

// Agency is an origin/destination office. Value is the per-pound rate used for
// the destination-transport charge of the tariff.
type Agency struct {
	Id       uint    `json:"id" gorm:"primaryKey"`
	Name     string  `json:"name" gorm:"not null;unique"`
	Province string  `json:"province" gorm:"not null"`
	City     string  `json:"city" gorm:"not null"`
	Country  string  `json:"country" gorm:"not null"`
	Address  string  `json:"address"`
	Phone    string  `json:"phone"`
	Value    float64 `json:"value" gorm:"type:numeric(12,2)"`
	Active   bool    `json:"-" gorm:"default:true"`
}
