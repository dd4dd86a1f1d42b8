package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Space represents a physical venue owned by one user and staffed by role-tagged members.
// Ownership is exclusive and permanent; there is no transfer operation.
type Space struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	OwnerID      uint             `json:"owner_id" gorm:"index;not null"`
	Name         string           `json:"name" gorm:"type:varchar(255);not null"`
	Description  string           `json:"description" gorm:"type:text"`
	Address      string           `json:"address" gorm:"type:varchar(255)"`
	City         string           `json:"city" gorm:"type:varchar(100);index"`
	Country      string           `json:"country" gorm:"type:varchar(100)"`
	Latitude     *decimal.Decimal `json:"latitude" gorm:"type:decimal(10,8)"`
	Longitude    *decimal.Decimal `json:"longitude" gorm:"type:decimal(11,8)"`
	IsActive     bool             `json:"is_active" gorm:"default:true"`
	ContactEmail string           `json:"contact_email" gorm:"type:varchar(255)"`
	ContactPhone string           `json:"contact_phone" gorm:"type:varchar(50)"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	// Relations
	Owner   *User         `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Members []SpaceMember `json:"members,omitempty" gorm:"foreignKey:SpaceID"`
}
