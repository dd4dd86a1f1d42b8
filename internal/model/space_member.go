package model

import "time"

// Space membership roles
const (
	SpaceRoleAdmin  = "space_admin"
	SpaceRoleWorker = "space_worker"
)

// ValidSpaceRole reports whether the given role is assignable to a space member
func ValidSpaceRole(role string) bool {
	return role == SpaceRoleAdmin || role == SpaceRoleWorker
}

// SpaceMember is the membership pivot between spaces and users.
// A user appears at most once per space; role assignment is an upsert.
type SpaceMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SpaceID   uint      `json:"space_id" gorm:"uniqueIndex:idx_space_user;not null"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_space_user;not null"`
	Role      string    `json:"role" gorm:"type:varchar(50);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
