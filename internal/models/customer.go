package models

import (
	"strings"

	"gorm.io/gorm"
)

// Customer represents a registered customer of the store.
// Email is the login identifier and must be unique.
type Customer struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	FirstName  string `json:"first_name" gorm:"type:varchar(30)" validate:"required,max=30"`
	LastName   string `json:"last_name" gorm:"type:varchar(30)" validate:"required,max=30"`
	Phone      string `json:"phone" gorm:"type:varchar(17)" validate:"omitempty,min=9,max=17"`
	Address    string `json:"address" validate:"omitempty,max=500"`
	Password   string `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	IsActive   bool   `json:"is_active" gorm:"default:true"`
	IsStaff    bool   `json:"is_staff" gorm:"default:false"`
	gorm.Model        // CreatedAt, UpdatedAt, DeletedAt
}

// FullName returns the customer's display name.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
