package domain

import "time"

type UserRole string

const (
	RoleTraveler UserRole = "traveler"
	RoleHost     UserRole = "host"
)

// User is the minimal identity the booking core needs; authentication
// lives outside this service, the API layer only carries id and role
// in token claims.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      UserRole  `json:"role" gorm:"size:16"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
