package model

import (
	"time"

	"gorm.io/gorm"
)

// Global user roles
const (
	RoleConsumer   = "consumer"
	RoleSuperadmin = "superadmin"
)

// User represents an account that can sell products and own or staff spaces
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Email     string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone     string         `json:"phone" gorm:"type:varchar(50);uniqueIndex"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Role      string         `json:"role" gorm:"type:varchar(50);not null;default:'consumer'"`
	City      string         `json:"city" gorm:"type:varchar(100)"`
	State     string         `json:"state" gorm:"type:varchar(100)"`
	Country   string         `json:"country" gorm:"type:varchar(100)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	OwnedSpaces []Space   `json:"owned_spaces,omitempty" gorm:"foreignKey:OwnerID"`
	Products    []Product `json:"products,omitempty" gorm:"foreignKey:UserID"`
}

// IsSuperadmin reports whether the user carries the global superadmin role
func (u *User) IsSuperadmin() bool {
	return u.Role == RoleSuperadmin
}
