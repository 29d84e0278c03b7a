package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// User is the paying customer. MessengerRef is the identity the community
// provider knows the user by; a user without one can still hold orders but
// cannot be granted community access.
type User struct {
	Id           uuid.UUID
	Email        string
	FullName     string
	Phone        string
	MessengerRef *string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasMessengerIdentity reports whether the community provider can address
// this user at all.
func (u *User) HasMessengerIdentity() bool {
	return u.MessengerRef != nil && *u.MessengerRef != ""
}
