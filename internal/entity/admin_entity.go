package entity

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is a back-office operator. PasswordHash is a bcrypt digest.
type AdminUser struct {
	Id           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
