package entity

import (
	"time"

	"github.com/google/uuid"
)

type AccessGrantStatus string

const (
	AccessGrantStatusActive  AccessGrantStatus = "active"
	AccessGrantStatusRevoked AccessGrantStatus = "revoked"
	AccessGrantStatusFailed  AccessGrantStatus = "failed"
)

// AccessGrantRecord is this system's intent-to-grant toward the community
// provider, kept for reconciliation. It is not the provider's own
// membership record.
type AccessGrantRecord struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	ClubId    string
	Source    OrderSource
	OrderId   uuid.UUID
	StartAt   time.Time
	EndAt     time.Time
	Status    AccessGrantStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
