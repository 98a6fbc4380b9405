package models

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role is the closed set of user roles. Role gates must switch over these
// constants, never compare free-form strings.
type Role string

const (
	RoleSudo     Role = "sudo"
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// ParseRole maps a stored/submitted role string onto the enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSudo:
		return RoleSudo, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCustomer:
		return RoleCustomer, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleSudo, RoleAdmin, RoleCustomer:
		return true
	}
	return false
}

type User struct {
	Id         string `json:"id" gorm:"primaryKey"`
	FirstName  string `json:"first_name" gorm:"not null"`
	LastName   string `json:"last_name" gorm:"not null"`
	Password   []byte `json:"-" gorm:"not null"`
	Email      string `json:"email" gorm:"unique;not null"`
	Role       Role   `json:"role" gorm:"type:VARCHAR(20);not null;default:'customer'"`
	SchemaName string `json:"-" gorm:"unique;not null"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	user.Id = uuid.NewString()
	if user.Role == "" {
		user.Role = RoleCustomer
	}
	return
}

func (user *User) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	user.Password = hashedPassword
}

func (user *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(user.Password, []byte(password))
}
